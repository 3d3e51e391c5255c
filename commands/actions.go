package commands

// ActionsCommand returns the closed actions of a session and its open action, if any
func ActionsCommand(req SessionRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	data := map[string]interface{}{
		"actions": s.Actions(),
	}
	if current, ok := s.Current(); ok {
		data["current"] = current
	}

	return NewSuccessResponse(data)
}

// RemoveLastCommand drops the most recently closed action
func RemoveLastCommand(req SessionRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	removed, err := s.RemoveLast()
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"removed": removed,
	})
}

// ClearCommand drops every closed action of a session
func ClearCommand(req SessionRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	s.Clear()
	return NewSuccessResponse(map[string]interface{}{
		"message": "Cleared all actions",
	})
}

// ScriptCommand renders the closed actions as a pointer action sequence
func ScriptCommand(req SessionRequest) *CommandResponse {
	s, err := FindSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"actions": s.Script(),
	})
}
