// Package vpakerr defines the error kinds shared by the packfile, peg,
// dds, and tga packages.
//
// Two kinds cover every failure this module can report: ParsingError for
// input that does not conform to the format it claims to be, and
// IOError for failures of the underlying stream. FieldError is a
// sub-kind of ParsingError that names the offending field.
package vpakerr

import "fmt"

// ParsingError indicates the input does not conform to a format contract:
// bad magic, unsupported version, impossible sizes, truncated data.
type ParsingError struct {
	Msg string
	Err error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("parsing error: %s", e.Msg)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// NewParsing builds a ParsingError with a plain message.
func NewParsing(msg string) error {
	return &ParsingError{Msg: msg}
}

// WrapParsing builds a ParsingError that wraps an underlying cause.
func WrapParsing(msg string, err error) error {
	return &ParsingError{Msg: msg, Err: err}
}

// FieldError is a ParsingError naming the specific field and value that
// failed validation (e.g. a bad magic number or version field).
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("parsing error: field %q: invalid value %q", e.Field, e.Value)
}

// Unwrap lets FieldError be matched with errors.As(err, *ParsingError).
func (e *FieldError) Unwrap() error {
	return &ParsingError{Msg: fmt.Sprintf("field %q: invalid value %q", e.Field, e.Value)}
}

// NewField builds a FieldError for the named field and offending value.
func NewField(field, value string) error {
	return &FieldError{Field: field, Value: value}
}

// IOError indicates the underlying stream reported failure: short read,
// write refused, seek past end.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("io error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("io error: %s", e.Msg)
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO builds an IOError that wraps an underlying cause.
func WrapIO(msg string, err error) error {
	return &IOError{Msg: msg, Err: err}
}

// OutOfMemoryError indicates an allocation failure during decompression.
type OutOfMemoryError struct {
	Msg string
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("out of memory: %s", e.Msg)
}

// NewOutOfMemory builds an OutOfMemoryError.
func NewOutOfMemory(msg string) error {
	return &OutOfMemoryError{Msg: msg}
}
