package recorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/mobile-next/gesturerec/types"
	"github.com/mobile-next/gesturerec/utils"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultSwipeSpeed is the replay velocity of a swipe in device pixels per second.
	DefaultSwipeSpeed = 1000.0
	// DefaultTapDuration is how long a click is held on replay.
	DefaultTapDuration = 100 * time.Millisecond
	// MinSwipeSpeed is the slowest swipe velocity a configuration may ask for.
	MinSwipeSpeed = 1.0
)

// Config holds the numeric parameters of gesture classification.
type Config struct {
	SwipeSpeed  float64
	TapDuration time.Duration
}

// DefaultConfig returns the built-in recorder settings.
func DefaultConfig() Config {
	return Config{
		SwipeSpeed:  DefaultSwipeSpeed,
		TapDuration: DefaultTapDuration,
	}
}

func (c Config) withDefaults() Config {
	if c.SwipeSpeed <= 0 {
		c.SwipeSpeed = DefaultSwipeSpeed
	}
	if c.TapDuration <= 0 {
		c.TapDuration = DefaultTapDuration
	}
	return c
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithClock replaces the time source. The default is time.Now, whose
// readings carry the monotonic clock.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// WithActionHandler registers a callback invoked with every action that closes.
// An action delivered again with an ID already seen replaces the earlier one:
// this happens to a delay that is extended by a cancelled gesture or by
// recording being resumed.
func WithActionHandler(fn func(Action)) Option {
	return func(r *Recorder) {
		r.onAction = fn
	}
}

// WithNoticeHandler registers a callback for operator-facing status messages,
// such as a cancelled gesture or a gesture cut short at the screen edge.
func WithNoticeHandler(fn func(string)) Option {
	return func(r *Recorder) {
		r.onNotice = fn
	}
}

// Recorder turns pointer events into an ordered list of closed actions.
//
// While recording, exactly one action is open: either a delay measuring idle
// time or a gesture being classified. A Recorder is not safe for concurrent
// use; calls must arrive as one sequential stream.
type Recorder struct {
	cfg      Config
	now      func() time.Time
	log      *logrus.Entry
	onAction func(Action)
	onNotice func(string)

	recording bool
	actions   []Action
	gesture   *gesture
	delay     *delay

	// held is set when a gesture was finalized at the screen edge while the
	// pointer is still pressed; its remaining moves and release are ignored.
	held bool
}

// New creates a recorder that is not yet recording.
func New(cfg Config, opts ...Option) *Recorder {
	r := &Recorder{
		cfg: cfg.withDefaults(),
		now: time.Now,
		log: utils.WithComponent("recorder"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Config returns the effective settings.
func (r *Recorder) Config() Config {
	return r.cfg
}

// Recording reports whether pointer events are being captured.
func (r *Recorder) Recording() bool {
	return r.recording
}

// SetRecording starts or stops capture. Starting opens the initial delay, or
// reopens the trailing delay of a previous recording so the list keeps
// alternating. Stopping finalizes an in-flight gesture at its last known point
// and then the trailing delay. Calling with the current state does nothing.
func (r *Recorder) SetRecording(enabled bool) error {
	if enabled == r.recording {
		return nil
	}

	now := r.now()

	if enabled {
		r.gesture = nil
		r.held = false
		if n := len(r.actions); n > 0 && r.actions[n-1].IsDelay() {
			last := r.actions[n-1]
			r.actions = r.actions[:n-1]
			r.delay = &delay{id: last.ID, startedAt: now.Add(-last.Duration)}
		} else {
			r.openDelay(now)
		}
		r.recording = true
		r.log.Info("recording started")
		return nil
	}

	if r.gesture != nil {
		if _, err := r.finishGesture(r.gesture.last(), now); err != nil {
			return err
		}
	}

	if r.delay != nil {
		r.append(r.delay.close(now))
		r.delay = nil
	}

	r.recording = false
	r.held = false
	r.log.WithField("actions", len(r.actions)).Info("recording stopped")
	return nil
}

// OnPointerDown starts a gesture at p. A press while another gesture is still
// open cancels that gesture: it is discarded and the idle interval before it
// is extended up to this press.
func (r *Recorder) OnPointerDown(p types.Point) error {
	if !r.recording || (r.gesture == nil && r.delay == nil) {
		return ErrNoOpenAction
	}

	now := r.now()
	r.held = false

	if r.gesture != nil {
		r.cancelGesture(now)
	} else {
		r.append(r.delay.close(now))
		r.delay = nil
	}

	g := newGesture(uuid.NewString(), r.cfg.SwipeSpeed)
	if err := g.start(p, now); err != nil {
		return err
	}

	r.gesture = g
	r.log.WithFields(logrus.Fields{"gesture": g.id, "x": p.X, "y": p.Y}).Debug("pointer down")
	return nil
}

// OnPointerMove feeds a drag sample and returns the open gesture's path in
// device space. A sample outside the device bounds finalizes the gesture at
// its last in-bounds point.
func (r *Recorder) OnPointerMove(p types.Point, inBounds bool) ([]types.Point, error) {
	return r.move(p, inBounds, (*gesture).dragTo)
}

// OnSwipeTo feeds a swipe-modified sample: the gesture becomes a two-point
// swipe ending at p unless it is already a drag.
func (r *Recorder) OnSwipeTo(p types.Point, inBounds bool) ([]types.Point, error) {
	return r.move(p, inBounds, (*gesture).swipeTo)
}

func (r *Recorder) move(p types.Point, inBounds bool, step func(*gesture, types.Point, time.Time)) ([]types.Point, error) {
	if !r.recording {
		return nil, ErrNoOpenAction
	}

	if r.gesture == nil {
		if r.held {
			return nil, nil
		}
		return nil, ErrNoGesture
	}

	now := r.now()

	if !inBounds {
		return nil, r.boundaryExit(now)
	}

	step(r.gesture, p, now)
	return append([]types.Point(nil), r.gesture.path...), nil
}

// OnPointerUp finalizes the open gesture at p, or at its last in-bounds point
// when p lies outside the device. The returned bool is false when the gesture
// had already been finalized at the screen edge.
func (r *Recorder) OnPointerUp(p types.Point, inBounds bool) (Action, bool, error) {
	if !r.recording {
		return Action{}, false, ErrNoOpenAction
	}

	if r.gesture == nil {
		if r.held {
			r.held = false
			return Action{}, false, nil
		}
		return Action{}, false, ErrNoGesture
	}

	release := p
	if !inBounds {
		release = r.gesture.last()
	}

	a, err := r.finishGesture(release, r.now())
	if err != nil {
		return Action{}, false, err
	}

	return a.clone(), true, nil
}

// RemoveLast drops the most recently closed action.
func (r *Recorder) RemoveLast() (Action, error) {
	n := len(r.actions)
	if n == 0 {
		return Action{}, ErrEmptyList
	}

	last := r.actions[n-1]
	r.actions = r.actions[:n-1]
	r.log.WithFields(logrus.Fields{"action": last.ID, "kind": last.Kind}).Info("removed last action")
	return last, nil
}

// Actions returns a copy of the closed actions in replay order.
func (r *Recorder) Actions() []Action {
	out := make([]Action, len(r.actions))
	for i, a := range r.actions {
		out[i] = a.clone()
	}
	return out
}

// Len returns the number of closed actions.
func (r *Recorder) Len() int {
	return len(r.actions)
}

// Current returns a snapshot of the open action, if any.
func (r *Recorder) Current() (Action, bool) {
	switch {
	case r.gesture != nil:
		return r.gesture.snapshot(), true
	case r.delay != nil:
		return r.delay.snapshot(r.now()), true
	default:
		return Action{}, false
	}
}

// Reset discards the open action and stops recording without finalizing
// anything. Closed actions are kept.
func (r *Recorder) Reset() {
	if r.gesture != nil {
		r.log.WithField("gesture", r.gesture.id).Info("discarding in-progress gesture")
	}

	r.gesture = nil
	r.delay = nil
	r.held = false
	r.recording = false
}

// Clear drops every closed action. Recording state is untouched.
func (r *Recorder) Clear() {
	r.actions = nil
}

func (r *Recorder) openDelay(at time.Time) {
	r.delay = &delay{id: uuid.NewString(), startedAt: at}
}

func (r *Recorder) append(a Action) {
	r.actions = append(r.actions, a)
	r.log.WithFields(logrus.Fields{"action": a.ID, "kind": a.Kind}).Debug(a.Label)

	if r.onAction != nil {
		r.onAction(a.clone())
	}
}

func (r *Recorder) notice(msg string) {
	r.log.Info(msg)
	if r.onNotice != nil {
		r.onNotice(msg)
	}
}

// finishGesture closes the open gesture at release and opens the following delay.
func (r *Recorder) finishGesture(release types.Point, at time.Time) (Action, error) {
	a, err := r.gesture.close(release, at)
	if err != nil {
		return Action{}, err
	}

	r.gesture = nil
	r.append(a)
	r.openDelay(at)
	return a, nil
}

func (r *Recorder) boundaryExit(at time.Time) error {
	a, err := r.finishGesture(r.gesture.last(), at)
	if err != nil {
		return err
	}

	r.held = true
	r.notice("Pointer left the device screen, " + a.Label)
	return nil
}

// cancelGesture drops the open gesture. The delay that preceded it is
// extended to cover the discarded gesture and keeps its ID, so the list keeps
// alternating between delays and gestures.
func (r *Recorder) cancelGesture(at time.Time) {
	g := r.gesture
	r.gesture = nil

	d := delay{id: uuid.NewString(), startedAt: g.startedAt}
	if n := len(r.actions); n > 0 && r.actions[n-1].IsDelay() {
		d.id = r.actions[n-1].ID
		d.startedAt = d.startedAt.Add(-r.actions[n-1].Duration)
		r.actions = r.actions[:n-1]
	}

	r.notice("Gesture cancelled: pressed again before releasing")
	r.append(d.close(at))
}
