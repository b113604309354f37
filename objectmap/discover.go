package objectmap

import (
	"fmt"
	"reflect"
)

// Discoverer builds the Shape of a type, or returns ErrNotApplicable.
type Discoverer interface {
	Discover(f *Factory, t reflect.Type) (*Shape, error)
}

// Defaulter is implemented by pointers to struct types which preset
// field values before loading.  Fields absent from the node keep
// them.
type Defaulter interface {
	SetDefaults()
}

// RecordDiscoverer handles struct types registered with
// WithConstructor.  The constructor takes the exported fields in
// declaration order and returns the type, optionally with an error.
type RecordDiscoverer struct{}

var errorType = reflect.TypeFor[error]()

func (RecordDiscoverer) Discover(f *Factory, t reflect.Type) (*Shape, error) {
	ctor, ok := f.ctors[t]
	if !ok {
		return nil, ErrNotApplicable
	}
	if t.Kind() != reflect.Struct {
		return nil, &DiscoveryError{Type: t, Message: "record types must be structs"}
	}
	fields, err := collectFields(f, t, nil)
	if err != nil {
		return nil, err
	}
	ct := ctor.Type()
	if ct.IsVariadic() || ct.NumIn() != len(fields) {
		return nil, &DiscoveryError{
			Type:    t,
			Message: fmt.Sprintf("constructor %s does not take the %d exported fields", ct, len(fields)),
		}
	}
	for i, fd := range fields {
		if !fd.Type.AssignableTo(ct.In(i)) {
			return nil, &DiscoveryError{
				Type:    t,
				Field:   fd.Name,
				Message: fmt.Sprintf("constructor parameter %d has type %s, field has %s", i, ct.In(i), fd.Type),
			}
		}
	}
	s := &Shape{Type: t, Fields: fields, Constructor: ctor}
	switch {
	case ct.NumOut() == 1 && ct.Out(0) == t:
	case ct.NumOut() == 2 && ct.Out(0) == t && ct.Out(1) == errorType:
		s.ctorErr = true
	default:
		return nil, &DiscoveryError{Type: t, Message: fmt.Sprintf("constructor %s must return %s or (%s, error)", ct, t, t)}
	}
	return s, nil
}

// FieldDiscoverer handles struct types through their exported fields.
// Embedded structs are flattened.
type FieldDiscoverer struct{}

func (FieldDiscoverer) Discover(f *Factory, t reflect.Type) (*Shape, error) {
	if t.Kind() != reflect.Struct {
		return nil, ErrNotApplicable
	}
	fields, err := collectFields(f, t, nil)
	if err != nil {
		return nil, err
	}
	return &Shape{Type: t, Fields: fields}, nil
}

func collectFields(f *Factory, t reflect.Type, index []int) ([]*Field, error) {
	var res []*Field
	for i := range t.NumField() {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)
		tag, hasTag := sf.Tag.Lookup(TagKey)
		if tag == "-" {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !hasTag {
			sub, err := collectFields(f, sf.Type, idx)
			if err != nil {
				return nil, err
			}
			res = append(res, sub...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			return nil, &DiscoveryError{Type: t, Field: sf.Name, Message: fmt.Sprintf("unmappable kind %s", sf.Type.Kind())}
		}
		fd := &Field{Name: sf.Name, Key: f.naming(sf.Name), Index: idx, Type: sf.Type}
		if err := annotate(fd, tag); err != nil {
			return nil, &DiscoveryError{Type: t, Field: sf.Name, Err: err}
		}
		res = append(res, fd)
	}
	return res, nil
}

func annotate(fd *Field, tag string) error {
	opts, err := ParseStructTag(tag)
	if err != nil {
		return err
	}
	for k, v := range opts {
		switch k {
		case "name":
			if v == "" {
				return fmt.Errorf("empty name")
			}
			fd.Key = v
		case "required":
			fd.Required = true
		case "comment":
			fd.Comment = v
		case "default":
			fd.Default, fd.HasDefault = v, true
		case "omitdefault":
			fd.OmitDefault = true
		case "validate":
			fd.Validate = v
		default:
			return fmt.Errorf("unknown tag option %q", k)
		}
	}
	if fd.Required && fd.HasDefault {
		return fmt.Errorf("required field cannot have a default")
	}
	return fd.compileValidate()
}

func checkShape(s *Shape) error {
	if len(s.Fields) == 0 {
		return &DiscoveryError{Type: s.Type, Message: "no exported fields"}
	}
	seen := make(map[string]string, len(s.Fields))
	for _, fd := range s.Fields {
		if prev, ok := seen[fd.Key]; ok {
			return &DiscoveryError{
				Type:    s.Type,
				Field:   fd.Name,
				Message: fmt.Sprintf("key %q is also used by %s", fd.Key, prev),
			}
		}
		seen[fd.Key] = fd.Name
	}
	return nil
}
