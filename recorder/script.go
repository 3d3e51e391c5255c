package recorder

import (
	"math"
	"time"

	"github.com/mobile-next/gesturerec/types"
)

// Script converts closed actions into a single-finger pointer action sequence
// in the vocabulary WebDriverAgent and DeviceKit accept for gestures.
func Script(actions []Action, cfg Config) []types.TapAction {
	cfg = cfg.withDefaults()

	var out []types.TapAction
	for _, a := range actions {
		switch a.Kind {
		case KindClick:
			p := a.Path[0]
			out = append(out,
				pointerMove(p, 0),
				types.TapAction{Type: "pointerDown", Button: 0},
				pause(cfg.TapDuration),
				types.TapAction{Type: "pointerUp", Button: 0},
			)

		case KindDrag:
			out = append(out,
				pointerMove(a.Path[0], 0),
				types.TapAction{Type: "pointerDown", Button: 0},
			)
			for i, p := range a.Path[1:] {
				out = append(out, pointerMove(p, a.Delays[i]))
			}
			out = append(out, types.TapAction{Type: "pointerUp", Button: 0})

		case KindSwipe:
			out = append(out,
				pointerMove(a.Path[0], 0),
				types.TapAction{Type: "pointerDown", Button: 0},
				pointerMove(a.Path[len(a.Path)-1], a.Duration),
				types.TapAction{Type: "pointerUp", Button: 0},
			)

		case KindDelay:
			if ms := milliseconds(a.Duration); ms > 0 {
				out = append(out, types.TapAction{Type: "pause", Duration: ms})
			}
		}
	}

	return out
}

func pointerMove(p types.Point, d time.Duration) types.TapAction {
	return types.TapAction{Type: "pointerMove", Duration: milliseconds(d), X: p.X, Y: p.Y}
}

func pause(d time.Duration) types.TapAction {
	return types.TapAction{Type: "pause", Duration: milliseconds(d)}
}

func milliseconds(d time.Duration) int {
	return int(math.Round(float64(d) / float64(time.Millisecond)))
}
