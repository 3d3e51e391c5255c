package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mobile-next/gesturerec/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP and WebSocket transports
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"devices":             handleDevicesList,
		"sessions":            handleSessionsList,
		"session_open":        handleSessionOpen,
		"session_close":       handleSessionClose,
		"stream_event":        handleStreamEvent,
		"record":              handleRecord,
		"pointer_down":        handlePointerDown,
		"pointer_move":        handlePointerMove,
		"pointer_swipe":       handlePointerSwipe,
		"pointer_up":          handlePointerUp,
		"actions_list":        handleActionsList,
		"actions_remove_last": handleActionsRemoveLast,
		"actions_clear":       handleActionsClear,
		"actions_script":      handleActionsScript,
		"server.shutdown":     handleServerShutdown,
	}
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}

// DevicesParams filters the device list
type DevicesParams struct {
	All *bool `json:"all,omitempty"`
}

type RecordParams struct {
	SessionID string `json:"sessionId"`
	Enabled   *bool  `json:"enabled"`
}

// paramsError marks a call whose params are missing or malformed
type paramsError struct {
	msg string
}

func (e *paramsError) Error() string {
	return e.msg
}

func invalidParams(format string, args ...interface{}) error {
	return &paramsError{msg: fmt.Sprintf(format, args...)}
}

// errorCode maps a handler error to its JSON-RPC code and message
func errorCode(err error) (int, string) {
	var perr *paramsError
	if errors.As(err, &perr) {
		return ErrCodeInvalidParams, errTitleInvalidPar
	}
	return ErrCodeServerError, errTitleServerError
}

// decodeParams unmarshals required params, naming the expected fields on failure
func decodeParams(params json.RawMessage, v interface{}, fields string) error {
	if len(params) == 0 {
		return invalidParams("'params' is required with fields: %s", fields)
	}

	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams("invalid parameters: %v. Expected fields: %s", err, fields)
	}

	return nil
}

func responseData(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleDevicesList(params json.RawMessage) (interface{}, error) {
	// server shows all devices unless asked otherwise
	showAll := true

	if len(params) > 0 {
		var devicesParams DevicesParams
		if err := json.Unmarshal(params, &devicesParams); err != nil {
			return nil, invalidParams("invalid parameters: %v", err)
		}
		if devicesParams.All != nil {
			showAll = *devicesParams.All
		}
	}

	return responseData(commands.DevicesCommand(showAll))
}

func handleSessionsList(params json.RawMessage) (interface{}, error) {
	return responseData(commands.SessionsCommand())
}

func handleSessionOpen(params json.RawMessage) (interface{}, error) {
	var req commands.SessionOpenRequest
	if err := decodeParams(params, &req, "deviceId"); err != nil {
		return nil, err
	}

	return responseData(commands.SessionOpenCommand(req))
}

func handleSessionClose(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return responseData(commands.SessionCloseCommand(req))
}

func handleStreamEvent(params json.RawMessage) (interface{}, error) {
	var req commands.StreamEventRequest
	if err := decodeParams(params, &req, "sessionId, event"); err != nil {
		return nil, err
	}

	if req.Event == "" {
		return nil, invalidParams("'event' is required")
	}

	return responseData(commands.StreamEventCommand(req))
}

func handleRecord(params json.RawMessage) (interface{}, error) {
	var recordParams RecordParams
	if err := decodeParams(params, &recordParams, "sessionId, enabled"); err != nil {
		return nil, err
	}

	if recordParams.Enabled == nil {
		return nil, invalidParams("'enabled' is required")
	}

	return responseData(commands.RecordCommand(commands.RecordRequest{
		SessionID: recordParams.SessionID,
		Enabled:   *recordParams.Enabled,
	}))
}

// decodePointer validates pointer params; x and y must both be present
func decodePointer(params json.RawMessage) (commands.PointerRequest, error) {
	var req commands.PointerRequest
	if err := decodeParams(params, &req, "sessionId, x, y"); err != nil {
		return req, err
	}

	var rawParams map[string]interface{}
	if err := json.Unmarshal(params, &rawParams); err != nil {
		return req, invalidParams("invalid parameters format")
	}

	for _, field := range []string{"x", "y"} {
		if _, exists := rawParams[field]; !exists {
			return req, invalidParams("'%s' is required", field)
		}
	}

	return req, nil
}

func handlePointerDown(params json.RawMessage) (interface{}, error) {
	req, err := decodePointer(params)
	if err != nil {
		return nil, err
	}

	return responseData(commands.PointerDownCommand(req))
}

func handlePointerMove(params json.RawMessage) (interface{}, error) {
	req, err := decodePointer(params)
	if err != nil {
		return nil, err
	}

	return responseData(commands.PointerMoveCommand(req))
}

func handlePointerSwipe(params json.RawMessage) (interface{}, error) {
	req, err := decodePointer(params)
	if err != nil {
		return nil, err
	}

	return responseData(commands.PointerSwipeCommand(req))
}

func handlePointerUp(params json.RawMessage) (interface{}, error) {
	req, err := decodePointer(params)
	if err != nil {
		return nil, err
	}

	return responseData(commands.PointerUpCommand(req))
}

func handleActionsList(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return responseData(commands.ActionsCommand(req))
}

func handleActionsRemoveLast(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return responseData(commands.RemoveLastCommand(req))
}

func handleActionsClear(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return responseData(commands.ClearCommand(req))
}

func handleActionsScript(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return responseData(commands.ScriptCommand(req))
}

func handleServerShutdown(params json.RawMessage) (interface{}, error) {
	if !requestShutdown() {
		return nil, fmt.Errorf("server is not running")
	}

	return okResponse, nil
}
