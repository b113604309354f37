package objectmap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Shape is the discovered, inspectable description of a mappable
// type.
type Shape struct {
	Type   reflect.Type
	Fields []*Field
	// Constructor is set for record types; it takes one argument per
	// field, in order.
	Constructor reflect.Value
	// ctorErr is set if Constructor also returns an error.
	ctorErr bool
}

// IsRecord reports whether values are built through a constructor.
func (s *Shape) IsRecord() bool {
	return s.Constructor.IsValid()
}

// Field returns the field serialized under key, or nil.
func (s *Shape) Field(key string) *Field {
	for _, f := range s.Fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

func (s *Shape) String() string {
	var b strings.Builder
	b.WriteString(s.Type.String())
	b.WriteString("{")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Key, f.Type)
		if f.Required {
			b.WriteString(" required")
		}
	}
	b.WriteString("}")
	return b.String()
}

// Field is the metadata of one component of a Shape.
type Field struct {
	// Name is the Go field name.
	Name string
	// Key is the name of the child node.
	Key   string
	Index []int
	Type  reflect.Type

	Required    bool
	Comment     string
	Default     string
	HasDefault  bool
	OmitDefault bool
	// Validate is an expr boolean expression over "value" checked after
	// loading.
	Validate string

	program *vm.Program
}

func (f *Field) compileValidate() error {
	if f.Validate == "" {
		return nil
	}
	env := map[string]any{"value": reflect.Zero(f.Type).Interface()}
	prog, err := expr.Compile(f.Validate, expr.Env(env), expr.AsBool())
	if err != nil {
		return err
	}
	f.program = prog
	return nil
}

func (f *Field) validate(v reflect.Value) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	res, err := expr.Run(f.program, map[string]any{"value": v.Interface()})
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool)
	return ok, nil
}
