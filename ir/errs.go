package ir

import (
	"fmt"
	"reflect"
)

// CoercionError reports that a node's value cannot satisfy a
// requested view.
type CoercionError struct {
	Path    Path
	From    Type
	To      string
	Message string
	Err     error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot coerce %s to %s", e.From, e.To)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return fmt.Sprintf("coercion error at %s: %s", e.Path, msg)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// NoMatchingSerializerError reports that no serializer is bound for
// a type.
type NoMatchingSerializerError struct {
	Path Path
	Type reflect.Type
	Err  error
}

func (e *NoMatchingSerializerError) Error() string {
	msg := fmt.Sprintf("no serializer for type %s", e.Type)
	if e.Path != nil {
		msg = fmt.Sprintf("%s at %s", msg, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NoMatchingSerializerError) Unwrap() error {
	return e.Err
}

// ConversionError reports that a serializer was found but failed to
// convert a value.
type ConversionError struct {
	Path    Path
	Type    reflect.Type
	Message string
	Err     error
}

func (e *ConversionError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Type != nil {
		return fmt.Sprintf("conversion error at %s (%s): %s", e.Path, e.Type, msg)
	}
	return fmt.Sprintf("conversion error at %s: %s", e.Path, msg)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// MergeConflictError reports incompatible shapes in a strict merge.
type MergeConflictError struct {
	Path Path
	Dst  Type
	Src  Type
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflict at %s: cannot merge %s into %s", e.Path, e.Src, e.Dst)
}
