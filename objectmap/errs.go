package objectmap

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/cfgtree/ir"
)

// ErrNotApplicable is returned by a Discoverer which does not handle
// a type, so that the next one is tried.
var ErrNotApplicable = errors.New("discoverer not applicable")

// DiscoveryError reports a type without a usable field or record
// shape.
type DiscoveryError struct {
	Type    reflect.Type
	Field   string
	Message string
	Err     error
}

func (e *DiscoveryError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("cannot map %s field %s: %s", e.Type, e.Field, msg)
	}
	return fmt.Sprintf("cannot map %s: %s", e.Type, msg)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// MissingRequiredValueError reports an absent node for a required
// field.
type MissingRequiredValueError struct {
	Path  ir.Path
	Type  reflect.Type
	Field string
}

func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf("missing required value at %s (%s.%s)", e.Path, e.Type, e.Field)
}

// isTaxonomy reports whether err already carries one of the mapping
// error types, which are passed through unwrapped.
func isTaxonomy(err error) bool {
	var (
		ce *ir.CoercionError
		nm *ir.NoMatchingSerializerError
		cv *ir.ConversionError
		mc *ir.MergeConflictError
		de *DiscoveryError
		mr *MissingRequiredValueError
	)
	return errors.As(err, &ce) || errors.As(err, &nm) || errors.As(err, &cv) ||
		errors.As(err, &mc) || errors.As(err, &de) || errors.As(err, &mr)
}

func fieldError(err error, n *ir.Node, t reflect.Type) error {
	if err == nil || isTaxonomy(err) {
		return err
	}
	return &ir.ConversionError{Path: n.Path(), Type: t, Err: err}
}
