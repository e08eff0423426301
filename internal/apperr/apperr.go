// Package apperr holds the error categories shared by the repositories and
// the transport layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks missing or out-of-range user input. Operations that
// return it have not written anything.
var ErrValidation = errors.New("validation failed")

// Validation returns an error wrapping ErrValidation with a user-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Message drops wrapping context and the category prefix so the text can be
// shown to a user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
		return msg[i+len(prefix):]
	}
	return msg
}
