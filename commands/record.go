package commands

import (
	"fmt"

	"github.com/mobile-next/gesturerec/types"
)

// RecordRequest turns recording on or off for a session
type RecordRequest struct {
	SessionID string `json:"sessionId"`
	Enabled   bool   `json:"enabled"`
}

// PointerRequest is one pointer sample in device coordinates. When InBounds
// is omitted it is derived from the session's last known frame size.
type PointerRequest struct {
	SessionID string `json:"sessionId"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	InBounds  *bool  `json:"inBounds,omitempty"`
}

func (r PointerRequest) point() types.Point {
	return types.Point{X: r.X, Y: r.Y}
}

// RecordCommand starts or stops recording
func RecordCommand(req RecordRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := s.SetRecording(req.Enabled); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to set recording on session %s: %w", s.ID, err))
	}

	return NewSuccessResponse(s.Info())
}

// PointerDownCommand starts a gesture
func PointerDownCommand(req PointerRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := s.PointerDown(req.point()); err != nil {
		return NewErrorResponse(err)
	}

	current, _ := s.Current()
	return NewSuccessResponse(map[string]interface{}{
		"current": current,
	})
}

// PointerMoveCommand feeds a drag sample and returns the gesture path to preview
func PointerMoveCommand(req PointerRequest) *CommandResponse {
	return pointerMove(req, false)
}

// PointerSwipeCommand feeds a swipe-modified sample and returns the gesture path to preview
func PointerSwipeCommand(req PointerRequest) *CommandResponse {
	return pointerMove(req, true)
}

func pointerMove(req PointerRequest, swipe bool) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	p := req.point()
	inBounds := s.InBounds(p)
	if req.InBounds != nil {
		inBounds = *req.InBounds
	}

	var path []types.Point
	if swipe {
		path, err = s.SwipeTo(p, inBounds)
	} else {
		path, err = s.PointerMove(p, inBounds)
	}
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"path":   path,
		"status": s.Info().Status,
	})
}

// PointerUpCommand releases the pointer and returns the closed gesture
func PointerUpCommand(req PointerRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	p := req.point()
	inBounds := s.InBounds(p)
	if req.InBounds != nil {
		inBounds = *req.InBounds
	}

	action, finalized, err := s.PointerUp(p, inBounds)
	if err != nil {
		return NewErrorResponse(err)
	}

	data := map[string]interface{}{
		"finalized": finalized,
	}
	if finalized {
		data["action"] = action
	}

	return NewSuccessResponse(data)
}
