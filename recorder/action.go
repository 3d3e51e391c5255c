package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mobile-next/gesturerec/types"
)

// Kind is the replay classification of an action.
type Kind int

const (
	// KindPending is reported for an open gesture whose classification is not final yet.
	KindPending Kind = iota
	KindClick
	KindDrag
	KindSwipe
	KindDelay
)

func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindClick:
		return "click"
	case KindDrag:
		return "drag"
	case KindSwipe:
		return "swipe"
	case KindDelay:
		return "delay"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Action is one replayable unit: a click, drag path, swipe or idle delay.
// Actions returned by a Recorder are copies and may be kept freely.
type Action struct {
	ID   string
	Kind Kind
	Path []types.Point

	// Delays holds the gap before each drag point after the first.
	Delays []time.Duration

	// Duration is the derived swipe duration or the measured delay.
	Duration time.Duration

	Label string
}

func (a Action) IsClick() bool { return a.Kind == KindClick }
func (a Action) IsDrag() bool  { return a.Kind == KindDrag }
func (a Action) IsSwipe() bool { return a.Kind == KindSwipe }
func (a Action) IsDelay() bool { return a.Kind == KindDelay }

func (a Action) clone() Action {
	out := a
	if a.Path != nil {
		out.Path = append([]types.Point(nil), a.Path...)
	}
	if a.Delays != nil {
		out.Delays = append([]time.Duration(nil), a.Delays...)
	}
	return out
}

// Record is the serialized form of an action, with timings in seconds.
type Record struct {
	ID       string        `json:"id" plist:"id"`
	Kind     string        `json:"kind" plist:"kind"`
	Path     []types.Point `json:"path,omitempty" plist:"path,omitempty"`
	Delays   []float64     `json:"delays,omitempty" plist:"delays,omitempty"`
	Duration float64       `json:"duration" plist:"duration"`
	Label    string        `json:"label" plist:"label"`
}

// Record converts the action to its serialized form.
func (a Action) Record() Record {
	rec := Record{
		ID:       a.ID,
		Kind:     a.Kind.String(),
		Path:     append([]types.Point(nil), a.Path...),
		Duration: a.Duration.Seconds(),
		Label:    a.Label,
	}

	if len(a.Delays) > 0 {
		rec.Delays = make([]float64, len(a.Delays))
		for i, d := range a.Delays {
			rec.Delays[i] = d.Seconds()
		}
	}

	return rec
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Record())
}

// Records converts a list of actions to their serialized form.
func Records(actions []Action) []Record {
	out := make([]Record, len(actions))
	for i, a := range actions {
		out[i] = a.Record()
	}
	return out
}

func formatPoint(p types.Point) string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func totalDuration(delays []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range delays {
		total += d
	}
	return total
}

func label(kind Kind, path []types.Point, delays []time.Duration, duration time.Duration) string {
	switch kind {
	case KindClick:
		return "Click at " + formatPoint(path[0])
	case KindDrag:
		return fmt.Sprintf("Drag through %d points over %s", len(path), formatSeconds(totalDuration(delays)))
	case KindSwipe:
		return fmt.Sprintf("Swipe %s -> %s in %s", formatPoint(path[0]), formatPoint(path[len(path)-1]), formatSeconds(duration))
	case KindDelay:
		return "Delay " + formatSeconds(duration)
	default:
		return "Recording..."
	}
}
