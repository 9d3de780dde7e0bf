package treestore

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrCycle             = errors.New("operation would create a cycle")
	ErrLocked            = errors.New("node is locked")
	ErrDuplicateID       = errors.New("node id already exists")
	ErrRootMove          = errors.New("root node cannot be moved or duplicated")
	ErrRootExists        = errors.New("tree already has a root")
	ErrInvalidNode       = errors.New("invalid node")
	ErrUnknownBreakpoint = errors.New("unknown breakpoint")
	ErrInvalidProps      = errors.New("invalid props")
	ErrInvalidSizing     = errors.New("invalid sizing mode")
)

// ValidationError aggregates every problem found while validating a tree
type ValidationError struct {
	err error
}

func newValidationError(problems error) *ValidationError {
	return &ValidationError{err: problems}
}

// Problems returns the individual validation failures
func (e *ValidationError) Problems() []error {
	return multierr.Errors(e.err)
}

func (e *ValidationError) Error() string {
	problems := e.Problems()
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("invalid page tree (%d problems): %s", len(problems), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.err
}
