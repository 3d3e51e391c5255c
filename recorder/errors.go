package recorder

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks calls the caller should never make, such as
// pointer events while nothing is recording. All sentinel errors below wrap it.
var ErrContractViolation = errors.New("contract violation")

var (
	ErrNoOpenAction = fmt.Errorf("%w: no open action, recording is off", ErrContractViolation)
	ErrNoGesture    = fmt.Errorf("%w: no gesture in progress", ErrContractViolation)
	ErrEmptyList    = fmt.Errorf("%w: action list is empty", ErrContractViolation)
)
