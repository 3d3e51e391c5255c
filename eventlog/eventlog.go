// Package eventlog replays captured pointer-event logs through a recorder.
//
// A log is JSON lines, one event per line, with a timestamp in seconds:
//
//	{"t": 0.0, "type": "record", "enabled": true}
//	{"t": 1.2, "type": "down", "x": 540, "y": 1200}
//	{"t": 1.3, "type": "move", "x": 560, "y": 1100}
//	{"t": 1.5, "type": "up", "x": 580, "y": 900}
//
// Blank lines and lines starting with '#' are ignored.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mobile-next/gesturerec/recorder"
	"github.com/mobile-next/gesturerec/types"
	"github.com/mobile-next/gesturerec/utils"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	TypeRecord     = "record"
	TypeDown       = "down"
	TypeMove       = "move"
	TypeSwipe      = "swipe"
	TypeUp         = "up"
	TypeRemoveLast = "remove_last"
	TypeClear      = "clear"
	TypeDisconnect = "disconnect"
)

// maxLineSize bounds one event line
const maxLineSize = 1024 * 1024

// maxTimestamp is the largest offset, in seconds, a time.Duration can hold.
const maxTimestamp = float64(math.MaxInt64) / float64(time.Second)

type Event struct {
	Line     int     `json:"-"`
	Time     float64 `json:"t"`
	Type     string  `json:"type"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	InBounds *bool   `json:"inBounds,omitempty"`
	Enabled  bool    `json:"enabled,omitempty"`
}

func (e Event) point() types.Point {
	return types.Point{X: e.X, Y: e.Y}
}

func (e Event) inBounds() bool {
	return e.InBounds == nil || *e.InBounds
}

func (e Event) offset() time.Duration {
	return time.Duration(e.Time * float64(time.Second))
}

// Decode reads every event of a log. Timestamps must not go backwards.
func Decode(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var events []Event
	lineNo := 0
	last := 0.0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("line %d: invalid event: %w", lineNo, err)
		}
		ev.Line = lineNo

		if err := validate(ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if ev.Time < last {
			return nil, fmt.Errorf("line %d: timestamp %.3f is before %.3f", lineNo, ev.Time, last)
		}
		last = ev.Time

		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	return events, nil
}

func validate(ev Event) error {
	if ev.Time < 0 {
		return fmt.Errorf("negative timestamp %.3f", ev.Time)
	}
	if ev.Time >= maxTimestamp {
		return fmt.Errorf("timestamp %.3f is out of range", ev.Time)
	}

	switch ev.Type {
	case TypeRecord, TypeDown, TypeMove, TypeSwipe, TypeUp, TypeRemoveLast, TypeClear, TypeDisconnect:
		return nil
	case "":
		return fmt.Errorf("'type' is required")
	default:
		return fmt.Errorf("unknown event type: %s", ev.Type)
	}
}

// ReplayOptions tunes Replay.
type ReplayOptions struct {
	// SkipInvalid logs and skips events the recorder rejects instead of failing.
	SkipInvalid bool
}

// Replay feeds events through a fresh recorder whose clock follows the event
// timestamps. Recording still on at the end of the log is stopped at the last
// timestamp.
func Replay(events []Event, cfg recorder.Config, opts ReplayOptions) ([]recorder.Action, error) {
	log := utils.WithComponent("eventlog")

	base := time.Unix(0, 0)
	var offset time.Duration
	clock := func() time.Time { return base.Add(offset) }

	rec := recorder.New(cfg, recorder.WithClock(clock), recorder.WithLogger(log))

	for _, ev := range events {
		offset = ev.offset()

		if err := apply(rec, ev); err != nil {
			if opts.SkipInvalid && errors.Is(err, recorder.ErrContractViolation) {
				log.WithFields(logrus.Fields{"line": ev.Line, "type": ev.Type}).Warnf("skipping event: %v", err)
				continue
			}
			return nil, fmt.Errorf("line %d: %s: %w", ev.Line, ev.Type, err)
		}
	}

	if err := rec.SetRecording(false); err != nil {
		return nil, fmt.Errorf("failed to stop recording: %w", err)
	}

	return rec.Actions(), nil
}

func apply(rec *recorder.Recorder, ev Event) error {
	switch ev.Type {
	case TypeRecord:
		return rec.SetRecording(ev.Enabled)
	case TypeDown:
		return rec.OnPointerDown(ev.point())
	case TypeMove:
		_, err := rec.OnPointerMove(ev.point(), ev.inBounds())
		return err
	case TypeSwipe:
		_, err := rec.OnSwipeTo(ev.point(), ev.inBounds())
		return err
	case TypeUp:
		_, _, err := rec.OnPointerUp(ev.point(), ev.inBounds())
		return err
	case TypeRemoveLast:
		_, err := rec.RemoveLast()
		return err
	case TypeClear:
		rec.Clear()
		return nil
	case TypeDisconnect:
		rec.Reset()
		return nil
	}

	return fmt.Errorf("unknown event type: %s", ev.Type)
}
