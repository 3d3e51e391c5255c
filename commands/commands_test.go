package commands

import (
	"testing"

	"github.com/mobile-next/gesturerec/devices"
	"github.com/mobile-next/gesturerec/recorder"
	"github.com/mobile-next/gesturerec/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDirectory []devices.DeviceInfo

func (d staticDirectory) List(showOffline bool) ([]devices.DeviceInfo, error) {
	var out []devices.DeviceInfo
	for _, info := range d {
		if info.IsOffline && !showOffline {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func setupCommands(t *testing.T) {
	t.Helper()

	dir := staticDirectory{
		{ID: "emulator-5554", DisplayName: "sdk_gphone64 (emulator-5554)", Platform: "android"},
		{ID: "Pixel_9_Pro", DisplayName: "Pixel 9 Pro", Platform: "android", IsOffline: true},
	}

	m, err := session.NewManager(dir, recorder.DefaultConfig(), 4)
	require.NoError(t, err)

	prevDir, prevManager := deviceDirectory, sessionManager
	SetDirectory(dir)
	SetManager(m)
	t.Cleanup(func() {
		SetDirectory(prevDir)
		SetManager(prevManager)
	})
}

func openSession(t *testing.T) string {
	t.Helper()

	resp := SessionOpenCommand(SessionOpenRequest{DeviceID: "emulator-5554"})
	require.Equal(t, "ok", resp.Status, resp.Error)
	id := resp.Data.(session.Info).ID

	resp = StreamEventCommand(StreamEventRequest{SessionID: id, Event: "connected"})
	require.Equal(t, "ok", resp.Status, resp.Error)
	resp = StreamEventCommand(StreamEventRequest{SessionID: id, Event: "frame_size_changed", Width: 1080, Height: 2400})
	require.Equal(t, "ok", resp.Status, resp.Error)
	return id
}

func TestDevicesCommand(t *testing.T) {
	setupCommands(t)

	resp := DevicesCommand(false)
	require.Equal(t, "ok", resp.Status)
	list := resp.Data.(map[string]interface{})["devices"].([]devices.DeviceInfo)
	assert.Len(t, list, 1)

	resp = DevicesCommand(true)
	list = resp.Data.(map[string]interface{})["devices"].([]devices.DeviceInfo)
	assert.Len(t, list, 2)
}

func TestSessionOpenCommand_Errors(t *testing.T) {
	setupCommands(t)

	resp := SessionOpenCommand(SessionOpenRequest{})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "no device selected", resp.Error)

	resp = SessionOpenCommand(SessionOpenRequest{DeviceID: "Pixel_9_Pro"})
	assert.Equal(t, "device Pixel_9_Pro is offline", resp.Error)
}

func TestFindSession_Errors(t *testing.T) {
	setupCommands(t)

	_, err := FindSession("")
	assert.EqualError(t, err, "session ID is required")

	_, err = FindSession("nope")
	assert.EqualError(t, err, "session not found: nope")

	SetManager(nil)
	_, err = FindSession("nope")
	assert.EqualError(t, err, "session manager is not initialized")
}

func TestRecordingFlow(t *testing.T) {
	setupCommands(t)
	id := openSession(t)

	resp := RecordCommand(RecordRequest{SessionID: id, Enabled: true})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.True(t, resp.Data.(session.Info).Recording)

	resp = PointerDownCommand(PointerRequest{SessionID: id, X: 100, Y: 100})
	require.Equal(t, "ok", resp.Status, resp.Error)

	resp = PointerMoveCommand(PointerRequest{SessionID: id, X: 120, Y: 140})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.Len(t, resp.Data.(map[string]interface{})["path"], 2)

	resp = PointerUpCommand(PointerRequest{SessionID: id, X: 150, Y: 200})
	require.Equal(t, "ok", resp.Status, resp.Error)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["finalized"])
	assert.Equal(t, recorder.KindDrag, data["action"].(recorder.Action).Kind)

	resp = PointerDownCommand(PointerRequest{SessionID: id, X: 10, Y: 10})
	require.Equal(t, "ok", resp.Status, resp.Error)
	resp = PointerSwipeCommand(PointerRequest{SessionID: id, X: 10, Y: 900})
	require.Equal(t, "ok", resp.Status, resp.Error)
	resp = PointerUpCommand(PointerRequest{SessionID: id, X: 10, Y: 900})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.Equal(t, recorder.KindSwipe, resp.Data.(map[string]interface{})["action"].(recorder.Action).Kind)

	resp = RecordCommand(RecordRequest{SessionID: id, Enabled: false})
	require.Equal(t, "ok", resp.Status, resp.Error)

	resp = ActionsCommand(SessionRequest{SessionID: id})
	require.Equal(t, "ok", resp.Status, resp.Error)
	actions := resp.Data.(map[string]interface{})["actions"].([]recorder.Action)
	require.Len(t, actions, 5)
	assert.NotContains(t, resp.Data.(map[string]interface{}), "current")

	resp = ScriptCommand(SessionRequest{SessionID: id})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.NotEmpty(t, resp.Data.(map[string]interface{})["actions"])

	resp = RemoveLastCommand(SessionRequest{SessionID: id})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.Equal(t, recorder.KindDelay, resp.Data.(map[string]interface{})["removed"].(recorder.Action).Kind)

	resp = ClearCommand(SessionRequest{SessionID: id})
	require.Equal(t, "ok", resp.Status, resp.Error)

	resp = RemoveLastCommand(SessionRequest{SessionID: id})
	assert.Equal(t, "error", resp.Status)
}

func TestPointerUpCommand_OutsideFrame(t *testing.T) {
	setupCommands(t)
	id := openSession(t)

	require.Equal(t, "ok", RecordCommand(RecordRequest{SessionID: id, Enabled: true}).Status)
	require.Equal(t, "ok", PointerDownCommand(PointerRequest{SessionID: id, X: 10, Y: 10}).Status)

	// released past the right edge of a 1080 wide frame: the press point is used
	resp := PointerUpCommand(PointerRequest{SessionID: id, X: 2000, Y: 10})
	require.Equal(t, "ok", resp.Status, resp.Error)
	action := resp.Data.(map[string]interface{})["action"].(recorder.Action)
	assert.Equal(t, recorder.KindClick, action.Kind)
}

func TestPointerMoveCommand_ExplicitBounds(t *testing.T) {
	setupCommands(t)
	id := openSession(t)

	require.Equal(t, "ok", RecordCommand(RecordRequest{SessionID: id, Enabled: true}).Status)
	require.Equal(t, "ok", PointerDownCommand(PointerRequest{SessionID: id, X: 10, Y: 10}).Status)

	outside := false
	resp := PointerMoveCommand(PointerRequest{SessionID: id, X: 20, Y: 20, InBounds: &outside})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.Contains(t, resp.Data.(map[string]interface{})["status"], "Pointer left the device screen")

	resp = PointerUpCommand(PointerRequest{SessionID: id, X: 20, Y: 20, InBounds: &outside})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.Equal(t, false, resp.Data.(map[string]interface{})["finalized"])
}

func TestStreamEventCommand_Disconnect(t *testing.T) {
	setupCommands(t)
	id := openSession(t)

	require.Equal(t, "ok", RecordCommand(RecordRequest{SessionID: id, Enabled: true}).Status)

	resp := StreamEventCommand(StreamEventRequest{SessionID: id, Event: "disconnected"})
	require.Equal(t, "ok", resp.Status, resp.Error)
	assert.False(t, resp.Data.(session.Info).Recording)

	resp = RecordCommand(RecordRequest{SessionID: id, Enabled: true})
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "not connected")
}

func TestSessionCloseCommand(t *testing.T) {
	setupCommands(t)
	id := openSession(t)

	resp := SessionsCommand()
	require.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.(map[string]interface{})["sessions"], 1)

	resp = SessionCloseCommand(SessionRequest{SessionID: id})
	require.Equal(t, "ok", resp.Status, resp.Error)

	resp = SessionCloseCommand(SessionRequest{SessionID: id})
	assert.Equal(t, "error", resp.Status)
}
