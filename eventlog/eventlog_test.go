package eventlog

import (
	"strings"
	"testing"
	"time"

	"github.com/mobile-next/gesturerec/recorder"
	"github.com/mobile-next/gesturerec/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionLog = `
# tap, drag and swipe on a 1080x2400 screen
{"t": 0, "type": "record", "enabled": true}
{"t": 1.0, "type": "down", "x": 540, "y": 1200}
{"t": 1.1, "type": "up", "x": 540, "y": 1200}
{"t": 2.0, "type": "down", "x": 100, "y": 100}
{"t": 2.2, "type": "move", "x": 100, "y": 300}
{"t": 2.5, "type": "move", "x": 100, "y": 600}
{"t": 2.6, "type": "up", "x": 100, "y": 600}
{"t": 3.0, "type": "down", "x": 500, "y": 2000}
{"t": 3.1, "type": "swipe", "x": 500, "y": 1000}
{"t": 3.2, "type": "up", "x": 500, "y": 500}
{"t": 4.0, "type": "record", "enabled": false}
`

func replayString(t *testing.T, log string, opts ReplayOptions) []recorder.Action {
	t.Helper()
	events, err := Decode(strings.NewReader(log))
	require.NoError(t, err)
	actions, err := Replay(events, recorder.DefaultConfig(), opts)
	require.NoError(t, err)
	return actions
}

func kinds(actions []recorder.Action) []recorder.Kind {
	out := make([]recorder.Kind, len(actions))
	for i, a := range actions {
		out[i] = a.Kind
	}
	return out
}

func TestDecode(t *testing.T) {
	events, err := Decode(strings.NewReader(sessionLog))
	require.NoError(t, err)
	require.Len(t, events, 11)

	assert.Equal(t, TypeRecord, events[0].Type)
	assert.True(t, events[0].Enabled)
	assert.Equal(t, 3, events[0].Line)
	assert.Equal(t, types.Point{X: 540, Y: 1200}, events[1].point())
	assert.True(t, events[1].inBounds())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		log     string
		wantErr string
	}{
		{"invalid json", `{"t": 0, "type": `, "line 1: invalid event"},
		{"missing type", `{"t": 0}`, "line 1: 'type' is required"},
		{"unknown type", `{"t": 0, "type": "pinch"}`, "line 1: unknown event type: pinch"},
		{"negative time", `{"t": -1, "type": "down"}`, "line 1: negative timestamp -1.000"},
		{"time out of range", `{"t": 1e10, "type": "down"}`, "line 1: timestamp 10000000000.000 is out of range"},
		{"time goes backwards", "{\"t\": 2, \"type\": \"record\", \"enabled\": true}\n{\"t\": 1, \"type\": \"down\"}", "line 2: timestamp 1.000 is before 2.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.log))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReplay(t *testing.T) {
	actions := replayString(t, sessionLog, ReplayOptions{})

	require.Equal(t, []recorder.Kind{
		recorder.KindDelay, recorder.KindClick,
		recorder.KindDelay, recorder.KindDrag,
		recorder.KindDelay, recorder.KindSwipe,
		recorder.KindDelay,
	}, kinds(actions))

	assert.Equal(t, time.Second, actions[0].Duration)
	assert.Equal(t, []types.Point{{X: 540, Y: 1200}}, actions[1].Path)
	assert.InDelta(t, 0.9, actions[2].Duration.Seconds(), 1e-6)

	drag := actions[3]
	assert.Equal(t, []types.Point{{X: 100, Y: 100}, {X: 100, Y: 300}, {X: 100, Y: 600}}, drag.Path)
	require.Len(t, drag.Delays, 2)
	assert.InDelta(t, 0.2, drag.Delays[0].Seconds(), 1e-6)
	assert.InDelta(t, 0.3, drag.Delays[1].Seconds(), 1e-6)

	// the release point replaces the swipe target: 1500px at 1000px/s
	swipe := actions[5]
	assert.Equal(t, []types.Point{{X: 500, Y: 2000}, {X: 500, Y: 500}}, swipe.Path)
	assert.Equal(t, 1500*time.Millisecond, swipe.Duration)

	assert.InDelta(t, 0.8, actions[6].Duration.Seconds(), 1e-6)
}

func TestReplay_StopsRecordingAtEnd(t *testing.T) {
	log := `{"t": 0, "type": "record", "enabled": true}
{"t": 0.5, "type": "down", "x": 1, "y": 1}
{"t": 0.7, "type": "move", "x": 1, "y": 50}`

	actions := replayString(t, log, ReplayOptions{})
	assert.Equal(t, []recorder.Kind{recorder.KindDelay, recorder.KindDrag, recorder.KindDelay}, kinds(actions))
	assert.Equal(t, time.Duration(0), actions[2].Duration)
}

func TestReplay_BoundaryExit(t *testing.T) {
	log := `{"t": 0, "type": "record", "enabled": true}
{"t": 1, "type": "down", "x": 10, "y": 10}
{"t": 1.1, "type": "move", "x": 10, "y": 40}
{"t": 1.2, "type": "move", "x": 10, "y": -5, "inBounds": false}
{"t": 1.3, "type": "move", "x": 10, "y": -50, "inBounds": false}
{"t": 1.4, "type": "up", "x": 10, "y": -50, "inBounds": false}
{"t": 2, "type": "record", "enabled": false}`

	actions := replayString(t, log, ReplayOptions{})
	require.Equal(t, []recorder.Kind{recorder.KindDelay, recorder.KindDrag, recorder.KindDelay}, kinds(actions))
	assert.Equal(t, types.Point{X: 10, Y: 40}, actions[1].Path[len(actions[1].Path)-1])
	assert.InDelta(t, 0.8, actions[2].Duration.Seconds(), 1e-6)
}

func TestReplay_Corrections(t *testing.T) {
	log := `{"t": 0, "type": "record", "enabled": true}
{"t": 1, "type": "down", "x": 10, "y": 10}
{"t": 1.1, "type": "up", "x": 10, "y": 10}
{"t": 1.5, "type": "record", "enabled": false}
{"t": 1.6, "type": "remove_last"}
{"t": 1.7, "type": "remove_last"}`

	actions := replayString(t, log, ReplayOptions{})
	assert.Equal(t, []recorder.Kind{recorder.KindDelay}, kinds(actions))

	cleared := replayString(t, log+"\n"+`{"t": 2, "type": "clear"}`, ReplayOptions{})
	assert.Empty(t, cleared)
}

func TestReplay_Disconnect(t *testing.T) {
	log := `{"t": 0, "type": "record", "enabled": true}
{"t": 1, "type": "down", "x": 10, "y": 10}
{"t": 1.5, "type": "disconnect"}`

	// the pressed gesture is dropped; the delay it closed stays
	actions := replayString(t, log, ReplayOptions{})
	assert.Equal(t, []recorder.Kind{recorder.KindDelay}, kinds(actions))
	assert.Equal(t, time.Second, actions[0].Duration)
}

func TestReplay_InvalidEvents(t *testing.T) {
	log := `{"t": 0, "type": "down", "x": 10, "y": 10}
{"t": 0.5, "type": "record", "enabled": true}
{"t": 0.6, "type": "move", "x": 20, "y": 20}
{"t": 1, "type": "down", "x": 10, "y": 10}
{"t": 1.2, "type": "up", "x": 10, "y": 10}`

	events, err := Decode(strings.NewReader(log))
	require.NoError(t, err)

	_, err = Replay(events, recorder.DefaultConfig(), ReplayOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, recorder.ErrNoOpenAction)
	assert.Contains(t, err.Error(), "line 1: down")

	actions, err := Replay(events, recorder.DefaultConfig(), ReplayOptions{SkipInvalid: true})
	require.NoError(t, err)
	assert.Equal(t, []recorder.Kind{recorder.KindDelay, recorder.KindClick, recorder.KindDelay}, kinds(actions))
	assert.InDelta(t, 0.5, actions[0].Duration.Seconds(), 1e-6)
}
