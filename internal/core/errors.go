package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a set of leaf paths does not form
// a legal configuration of a definition.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DefinitionError reports a malformed statechart definition. It is returned
// by NewDefinition and raised as a panic value when eventless transitions
// never settle.
type DefinitionError struct {
	Machine string
	Path    string
	Reason  string
	Err     error
}

func (e *DefinitionError) Error() string {
	msg := "statechart " + e.Machine
	if e.Path != "" {
		msg += " at " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// IsDefinitionError reports whether err is or wraps a *DefinitionError.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}
