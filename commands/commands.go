package commands

import (
	"fmt"

	"github.com/mobile-next/gesturerec/devices"
	"github.com/mobile-next/gesturerec/session"
	"github.com/mobile-next/gesturerec/utils"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// deviceDirectory is where devices are listed and looked up. It defaults to
// adb, local AVDs, usbmuxd and iOS simulators, and can be replaced once at startup.
var deviceDirectory devices.Directory = devices.NewDirectory()

// sessionManager holds the open recording sessions. It is set once at
// application startup via SetManager.
var sessionManager *session.Manager

// shutdownHook collects cleanup to run on SIGINT/SIGTERM. It is set once at
// application startup via SetShutdownHook.
var shutdownHook *utils.ShutdownHook

// SetShutdownHook sets the global shutdown hook registry.
func SetShutdownHook(hook *utils.ShutdownHook) {
	shutdownHook = hook
}

// RegisterShutdown adds a cleanup function to the global shutdown hook.
// Without one it does nothing.
func RegisterShutdown(name string, fn func() error) {
	if shutdownHook != nil {
		shutdownHook.Register(name, fn)
	}
}

// SetDirectory replaces the device directory used by DevicesCommand.
func SetDirectory(dir devices.Directory) {
	deviceDirectory = dir
}

// SetManager sets the global session manager used by the session, pointer
// and action commands.
func SetManager(m *session.Manager) {
	sessionManager = m
}

// GetManager returns the current session manager, or nil before SetManager.
func GetManager() *session.Manager {
	return sessionManager
}

// SessionRequest identifies an open session
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// FindSession resolves a session ID against the global manager
func FindSession(sessionID string) (*session.Session, error) {
	if sessionManager == nil {
		return nil, fmt.Errorf("session manager is not initialized")
	}

	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	return sessionManager.Get(sessionID)
}
