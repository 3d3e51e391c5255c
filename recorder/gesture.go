package recorder

import (
	"fmt"
	"math"
	"time"

	"github.com/mobile-next/gesturerec/types"
)

type gestureState int

const (
	stateEmpty gestureState = iota
	stateStarted
	stateDragging
	stateSwipePending
	stateClosed
)

func (s gestureState) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateStarted:
		return "started"
	case stateDragging:
		return "dragging"
	case stateSwipePending:
		return "swipe-pending"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// gesture classifies a single press-to-release interaction.
//
// Once dragging, further swipe input extends the drag. Once swipe-pending,
// further drag input only moves the swipe target.
type gesture struct {
	id        string
	state     gestureState
	speed     float64
	path      []types.Point
	delays    []time.Duration
	swipe     time.Duration
	startedAt time.Time
	lastAt    time.Time
}

func newGesture(id string, speed float64) *gesture {
	return &gesture{id: id, speed: speed}
}

func (g *gesture) start(p types.Point, at time.Time) error {
	if g.state != stateEmpty {
		return fmt.Errorf("%w: gesture %s already %s", ErrContractViolation, g.id, g.state)
	}

	g.path = []types.Point{p}
	g.startedAt = at
	g.lastAt = at
	g.state = stateStarted
	return nil
}

func (g *gesture) origin() types.Point {
	return g.path[0]
}

// last is the most recent point recorded for the gesture, which is always
// inside the device bounds.
func (g *gesture) last() types.Point {
	return g.path[len(g.path)-1]
}

func (g *gesture) dragTo(p types.Point, at time.Time) {
	switch g.state {
	case stateStarted:
		if p == g.origin() {
			return
		}
		g.appendPoint(p, at)
		g.state = stateDragging
	case stateDragging:
		g.appendPoint(p, at)
	case stateSwipePending:
		g.setSwipeTarget(p)
	}
}

func (g *gesture) swipeTo(p types.Point, at time.Time) {
	switch g.state {
	case stateStarted:
		if p == g.origin() {
			return
		}
		g.setSwipeTarget(p)
		g.state = stateSwipePending
	case stateSwipePending:
		g.setSwipeTarget(p)
	case stateDragging:
		g.appendPoint(p, at)
	}
}

// appendPoint records a drag sample. Repeated samples at the same position
// are dropped and their time is carried into the next segment.
func (g *gesture) appendPoint(p types.Point, at time.Time) {
	if p == g.last() {
		return
	}

	g.path = append(g.path, p)
	g.delays = append(g.delays, elapsed(g.lastAt, at))
	g.lastAt = at
}

func (g *gesture) setSwipeTarget(p types.Point) {
	g.path = []types.Point{g.origin(), p}
	g.swipe = swipeDuration(g.origin(), p, g.speed)
}

// close resolves the final classification with p as the release point.
func (g *gesture) close(p types.Point, at time.Time) (Action, error) {
	var kind Kind

	switch g.state {
	case stateStarted:
		if p == g.origin() {
			kind = KindClick
		} else {
			// moved without drag or swipe input: treat as a swipe to the release point
			g.setSwipeTarget(p)
			kind = KindSwipe
		}
	case stateDragging:
		g.appendPoint(p, at)
		kind = KindDrag
	case stateSwipePending:
		g.setSwipeTarget(p)
		kind = KindSwipe
	default:
		return Action{}, fmt.Errorf("%w: cannot close gesture %s while %s", ErrContractViolation, g.id, g.state)
	}

	g.state = stateClosed

	a := Action{
		ID:   g.id,
		Kind: kind,
		Path: append([]types.Point(nil), g.path...),
	}

	switch kind {
	case KindDrag:
		a.Delays = append([]time.Duration(nil), g.delays...)
	case KindSwipe:
		a.Duration = g.swipe
	}

	a.Label = label(kind, a.Path, a.Delays, a.Duration)
	return a, nil
}

// snapshot reports the open gesture without finalizing it.
func (g *gesture) snapshot() Action {
	a := Action{
		ID:   g.id,
		Kind: KindPending,
		Path: append([]types.Point(nil), g.path...),
	}

	switch g.state {
	case stateDragging:
		a.Delays = append([]time.Duration(nil), g.delays...)
		a.Label = fmt.Sprintf("Dragging, %d points", len(g.path))
	case stateSwipePending:
		a.Duration = g.swipe
		a.Label = "Swiping, " + formatSeconds(g.swipe)
	default:
		a.Label = "Pressed at " + formatPoint(g.origin())
	}

	return a
}

// delay measures idle time between gestures.
type delay struct {
	id        string
	startedAt time.Time
}

func (d delay) close(at time.Time) Action {
	duration := elapsed(d.startedAt, at)
	return Action{
		ID:       d.id,
		Kind:     KindDelay,
		Duration: duration,
		Label:    label(KindDelay, nil, nil, duration),
	}
}

func (d delay) snapshot(at time.Time) Action {
	a := d.close(at)
	a.Label = "Waiting " + formatSeconds(a.Duration)
	return a
}

// maxDurationSeconds is the longest time.Duration, in seconds.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// swipeDuration models a constant-velocity swipe: distance / speed seconds.
func swipeDuration(from, to types.Point, speed float64) time.Duration {
	if speed <= 0 {
		speed = DefaultSwipeSpeed
	}

	distance := math.Hypot(float64(to.X-from.X), float64(to.Y-from.Y))
	seconds := distance / speed
	if seconds >= maxDurationSeconds {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(seconds * float64(time.Second))
}

func elapsed(from, to time.Time) time.Duration {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return d
}
