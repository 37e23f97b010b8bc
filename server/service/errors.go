package service

import "github.com/pkg/errors"

// Error kinds surfaced to callers, matched with errors.Is. Any other error
// returned by a service is a store failure passed through unchanged.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

func conflict(msg string) error {
	return &kindError{kind: ErrConflict, msg: msg}
}
