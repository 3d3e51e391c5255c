package commands

import (
	"fmt"

	"github.com/mobile-next/gesturerec/session"
	"github.com/mobile-next/gesturerec/types"
)

// SessionOpenRequest represents the parameters for opening a session
type SessionOpenRequest struct {
	DeviceID string `json:"deviceId"`
}

// StreamEventRequest carries a video stream lifecycle event for a session
type StreamEventRequest struct {
	SessionID string `json:"sessionId"`
	Event     string `json:"event"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// SessionOpenCommand opens a recording session on an online device
func SessionOpenCommand(req SessionOpenRequest) *CommandResponse {
	if sessionManager == nil {
		return NewErrorResponse(fmt.Errorf("session manager is not initialized"))
	}

	s, err := sessionManager.Open(req.DeviceID)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(s.Info())
}

// SessionCloseCommand closes a session, discarding any in-progress gesture
func SessionCloseCommand(req SessionRequest) *CommandResponse {
	if sessionManager == nil {
		return NewErrorResponse(fmt.Errorf("session manager is not initialized"))
	}

	if err := sessionManager.Close(req.SessionID); err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Closed session %s", req.SessionID),
	})
}

// SessionsCommand lists the open sessions
func SessionsCommand() *CommandResponse {
	if sessionManager == nil {
		return NewErrorResponse(fmt.Errorf("session manager is not initialized"))
	}

	return NewSuccessResponse(map[string]interface{}{
		"sessions": sessionManager.List(),
	})
}

// StreamEventCommand forwards a stream lifecycle event to a session
func StreamEventCommand(req StreamEventRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	size := types.Size{Width: req.Width, Height: req.Height}
	if err := s.HandleStreamEvent(session.StreamEvent(req.Event), size); err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(s.Info())
}
