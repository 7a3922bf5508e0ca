package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRateLimited is returned by the pipeline when the user has
// exhausted their turn allowance for the current window.
var ErrRateLimited = errors.New("rate limit exceeded")

// SafetyError is returned by the pipeline when an utterance fails the
// safety check. Flags names the checks that matched.
type SafetyError struct {
	Flags []string
}

// Error implements the error interface.
func (e *SafetyError) Error() string {
	if len(e.Flags) == 0 {
		return "message failed safety check"
	}
	return fmt.Sprintf("message failed safety check: %s", strings.Join(e.Flags, ", "))
}

// AsSafetyError unwraps err into a *SafetyError, reporting whether it
// matched.
func AsSafetyError(err error) (*SafetyError, bool) {
	var se *SafetyError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
