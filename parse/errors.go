package parse

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ParseError.
var (
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("parse: missing required field")

	// ErrMalformed is returned when a value has the wrong JSON shape.
	ErrMalformed = errors.New("parse: malformed value")

	// ErrParentCycle is returned when layers parent each other in a loop.
	ErrParentCycle = errors.New("parse: parent cycle")

	// ErrUnknownParent is returned when a layer's parent is not in its
	// layer list.
	ErrUnknownParent = errors.New("parse: unknown parent layer")
)

// ParseError locates a fatal problem in a document. Path is a dotted JSON
// path such as "layers[2].ks.p".
type ParseError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("parse: %s: %s", e.Path, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func missing(path string) error {
	return &ParseError{Path: path, Msg: "missing required field", Err: ErrMissingField}
}

func malformed(path string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Path: path, Msg: err.Error(), Err: ErrMalformed}
}
