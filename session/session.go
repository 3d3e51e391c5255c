package session

import (
	"fmt"
	"sync"

	"github.com/mobile-next/gesturerec/devices"
	"github.com/mobile-next/gesturerec/recorder"
	"github.com/mobile-next/gesturerec/types"
	"github.com/sirupsen/logrus"
)

// StreamEvent is a lifecycle signal from the video stream of a session's device.
type StreamEvent string

const (
	StreamConnected        StreamEvent = "connected"
	StreamDisconnected     StreamEvent = "disconnected"
	StreamFrameSizeChanged StreamEvent = "frame_size_changed"
)

// Info is a point-in-time description of a session.
type Info struct {
	ID          string             `json:"id"`
	Device      devices.DeviceInfo `json:"device"`
	Connected   bool               `json:"connected"`
	Recording   bool               `json:"recording"`
	FrameSize   types.Size         `json:"frameSize"`
	ActionCount int                `json:"actionCount"`
	Status      string             `json:"status"`
}

// Session binds one recorder to one device connection. Calls are serialized
// so the recorder always sees a single ordered stream of events.
type Session struct {
	ID     string
	Device devices.DeviceInfo

	mu        sync.Mutex
	rec       *recorder.Recorder
	connected bool
	frameSize types.Size
	status    string
	log       *logrus.Entry
}

func newSession(id string, device devices.DeviceInfo, cfg recorder.Config, log *logrus.Entry) *Session {
	s := &Session{
		ID:     id,
		Device: device,
		log:    log.WithFields(logrus.Fields{"session": id, "device": device.ID}),
	}

	// both handlers run inside recorder calls, with mu already held
	s.rec = recorder.New(cfg,
		recorder.WithLogger(s.log),
		recorder.WithNoticeHandler(func(msg string) { s.status = msg }),
		recorder.WithActionHandler(s.actionClosed),
	)
	s.status = fmt.Sprintf("Connecting to %s...", device.DisplayName)
	return s
}

// actionClosed shows the latest gesture on the status line.
func (s *Session) actionClosed(a recorder.Action) {
	if a.IsDelay() {
		return
	}
	s.status = a.Label
}

// HandleStreamEvent applies a connect, disconnect or frame-size signal.
// Disconnecting discards any in-progress gesture and stops recording.
func (s *Session) HandleStreamEvent(event StreamEvent, size types.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event {
	case StreamConnected:
		s.connected = true
		s.status = fmt.Sprintf("Connected to %s", s.Device.DisplayName)
	case StreamDisconnected:
		s.rec.Reset()
		s.connected = false
		s.status = fmt.Sprintf("Disconnected from %s", s.Device.DisplayName)
	case StreamFrameSizeChanged:
		if size.Width <= 0 || size.Height <= 0 {
			return fmt.Errorf("invalid frame size %dx%d", size.Width, size.Height)
		}
		s.frameSize = size
	default:
		return fmt.Errorf("unknown stream event: %s", event)
	}

	s.log.WithField("event", event).Info(s.status)
	return nil
}

// InBounds reports whether p lies on the device frame. Until the first frame
// size arrives every point is accepted.
func (s *Session) InBounds(p types.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frameSize.Width == 0 || s.frameSize.Height == 0 {
		return true
	}
	return p.X >= 0 && p.Y >= 0 && p.X < s.frameSize.Width && p.Y < s.frameSize.Height
}

// SetRecording toggles capture. Recording requires a connected stream.
func (s *Session) SetRecording(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled && !s.connected {
		return fmt.Errorf("device %s is not connected", s.Device.ID)
	}

	if err := s.rec.SetRecording(enabled); err != nil {
		return err
	}

	if enabled {
		s.status = "Recording"
	} else {
		s.status = fmt.Sprintf("Recorded %d actions", s.rec.Len())
	}
	return nil
}

func (s *Session) PointerDown(p types.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.OnPointerDown(p)
}

func (s *Session) PointerMove(p types.Point, inBounds bool) ([]types.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.OnPointerMove(p, inBounds)
}

func (s *Session) SwipeTo(p types.Point, inBounds bool) ([]types.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.OnSwipeTo(p, inBounds)
}

func (s *Session) PointerUp(p types.Point, inBounds bool) (recorder.Action, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.OnPointerUp(p, inBounds)
}

func (s *Session) RemoveLast() (recorder.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.RemoveLast()
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Clear()
}

func (s *Session) Actions() []recorder.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Actions()
}

func (s *Session) Current() (recorder.Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Current()
}

// Script returns the closed actions as a pointer action sequence.
func (s *Session) Script() []types.TapAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recorder.Script(s.rec.Actions(), s.rec.Config())
}

func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Info{
		ID:          s.ID,
		Device:      s.Device,
		Connected:   s.connected,
		Recording:   s.rec.Recording(),
		FrameSize:   s.frameSize,
		ActionCount: s.rec.Len(),
		Status:      s.status,
	}
}

// close drops the in-progress state. It is safe to call more than once.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec.Reset()
	s.connected = false
}
