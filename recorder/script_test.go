package recorder

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mobile-next/gesturerec/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript(t *testing.T) {
	actions := []Action{
		{Kind: KindDelay, Duration: 1500 * time.Millisecond},
		{Kind: KindClick, Path: []types.Point{pt(10, 20)}},
		{Kind: KindDelay, Duration: 0},
		{
			Kind:   KindDrag,
			Path:   []types.Point{pt(0, 0), pt(5, 5), pt(9, 9)},
			Delays: []time.Duration{16 * time.Millisecond, 33 * time.Millisecond},
		},
		{Kind: KindSwipe, Path: []types.Point{pt(0, 0), pt(0, 500)}, Duration: 250 * time.Millisecond},
	}

	got := Script(actions, Config{TapDuration: 80 * time.Millisecond})

	want := []types.TapAction{
		{Type: "pause", Duration: 1500},

		{Type: "pointerMove", X: 10, Y: 20},
		{Type: "pointerDown"},
		{Type: "pause", Duration: 80},
		{Type: "pointerUp"},

		{Type: "pointerMove", X: 0, Y: 0},
		{Type: "pointerDown"},
		{Type: "pointerMove", Duration: 16, X: 5, Y: 5},
		{Type: "pointerMove", Duration: 33, X: 9, Y: 9},
		{Type: "pointerUp"},

		{Type: "pointerMove", X: 0, Y: 0},
		{Type: "pointerDown"},
		{Type: "pointerMove", Duration: 250, X: 0, Y: 500},
		{Type: "pointerUp"},
	}

	assert.Equal(t, want, got)
}

func TestScript_FromRecording(t *testing.T) {
	r, clock := newTestRecorder(t)

	clock.Advance(200 * time.Millisecond)
	require.NoError(t, r.OnPointerDown(pt(1, 1)))
	_, _, err := r.OnPointerUp(pt(1, 1), true)
	require.NoError(t, err)
	require.NoError(t, r.SetRecording(false))

	script := Script(r.Actions(), r.Config())
	require.Len(t, script, 5)
	assert.Equal(t, types.TapAction{Type: "pause", Duration: 200}, script[0])
	assert.Equal(t, types.TapAction{Type: "pause", Duration: 100}, script[3])
}

func TestAction_MarshalJSON(t *testing.T) {
	a := Action{
		ID:     "abc",
		Kind:   KindDrag,
		Path:   []types.Point{pt(0, 0), pt(3, 4)},
		Delays: []time.Duration{250 * time.Millisecond},
		Label:  "Drag through 2 points over 0.25s",
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "abc",
		"kind": "drag",
		"path": [{"x": 0, "y": 0}, {"x": 3, "y": 4}],
		"delays": [0.25],
		"duration": 0,
		"label": "Drag through 2 points over 0.25s"
	}`, string(data))
}

func TestAction_MarshalJSON_Delay(t *testing.T) {
	data, err := json.Marshal(Action{ID: "d", Kind: KindDelay, Duration: 1500 * time.Millisecond, Label: "Delay 1.50s"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id": "d", "kind": "delay", "duration": 1.5, "label": "Delay 1.50s"}`, string(data))
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPending, "pending"},
		{KindClick, "click"},
		{KindDrag, "drag"},
		{KindSwipe, "swipe"},
		{KindDelay, "delay"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}
