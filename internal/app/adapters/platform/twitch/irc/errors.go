package irc

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected = errors.New("not connected")
	ErrEmptyChannel = errors.New("empty channel name")

	ErrMalformedTags   = errors.New("malformed tags")
	ErrMalformedPrefix = errors.New("malformed prefix")
	ErrMissingCommand  = errors.New("expected command")
)

type ParseErrorKind int

const (
	MalformedTags ParseErrorKind = iota + 1
	MalformedPrefix
	MissingCommand
)

func (k ParseErrorKind) String() string {
	switch k {
	case MalformedTags:
		return "malformed_tags"
	case MalformedPrefix:
		return "malformed_prefix"
	case MissingCommand:
		return "missing_command"
	}
	return "unknown"
}

// ParseError is returned by Parse. It matches ErrMalformedTags,
// ErrMalformedPrefix or ErrMissingCommand with errors.Is.
type ParseError struct {
	Kind ParseErrorKind
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse irc line: %s", e.Unwrap())
}

func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case MalformedTags:
		return ErrMalformedTags
	case MalformedPrefix:
		return ErrMalformedPrefix
	case MissingCommand:
		return ErrMissingCommand
	}
	return errors.New("unknown parse error")
}

// TransportError carries a failure surfaced by the underlying connection.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
