package serialize

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/cfgtree/ir"
)

var (
	nodeType            = reflect.TypeFor[*ir.Node]()
	durationType        = reflect.TypeFor[time.Duration]()
	urlType             = reflect.TypeFor[url.URL]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Builtins returns the built-in entries, most specific first.
// Struct types are not covered; see package objectmap.
func Builtins() []Entry {
	return []Entry{
		Exact(nodeType, nodeSerializer{}),
		Exact(durationType, durationSerializer{}),
		Exact(urlType, urlSerializer{}),
		Match("text", isText, constant(textSerializer{})),
		Match("scalar", Kinds(
			reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String,
		), constant(scalarSerializer{})),
		Match("bytes", isBytes, constant(bytesSerializer{})),
		Match("any", isEmptyInterface, constant(rawSerializer{})),
		Match("pointer", Kinds(reflect.Pointer), pointerFactory),
		Match("set", isSet, setFactory),
		Match("list", Kinds(reflect.Slice, reflect.Array), listFactory),
		Match("map", Kinds(reflect.Map), mapFactory),
	}
}

// Default returns a registry holding only the built-in entries.
func Default() *Registry {
	return NewBuilder().Register(Builtins()...).Build()
}

func constant(s ir.Serializer) Factory {
	return func(ir.Resolver, reflect.Type) (ir.Serializer, error) { return s, nil }
}

func isText(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(textUnmarshalerType) &&
		(t.Implements(textMarshalerType) || pt.Implements(textMarshalerType))
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

func isEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func conversionError(n *ir.Node, t reflect.Type, format string, args ...any) error {
	return &ir.ConversionError{Path: n.Path(), Type: t, Message: fmt.Sprintf(format, args...)}
}

type nodeSerializer struct{}

func (nodeSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	return reflect.ValueOf(n.Copy()), nil
}

func (nodeSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	src, _ := v.Interface().(*ir.Node)
	n.SetNode(src)
	return nil
}

// durationSerializer reads "1m30s" style strings, or integers as
// nanoseconds.
type durationSerializer struct{}

func (durationSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	if n.Type() == ir.NumberType {
		i, err := n.AsInt64()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(time.Duration(i)), nil
	}
	s, err := n.AsString()
	if err != nil {
		return reflect.Value{}, err
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return reflect.Value{}, &ir.ConversionError{Path: n.Path(), Type: t, Err: err}
	}
	return reflect.ValueOf(d), nil
}

func (durationSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	n.SetString(time.Duration(v.Int()).String())
	return nil
}

type urlSerializer struct{}

func (urlSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	s, err := n.AsString()
	if err != nil {
		return reflect.Value{}, err
	}
	u, err := url.Parse(s)
	if err != nil {
		return reflect.Value{}, &ir.ConversionError{Path: n.Path(), Type: t, Err: err}
	}
	return reflect.ValueOf(*u), nil
}

func (urlSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	u := v.Interface().(url.URL)
	n.SetString(u.String())
	return nil
}

type textSerializer struct{}

func (textSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	s, err := n.AsString()
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, &ir.ConversionError{Path: n.Path(), Type: t, Err: err}
	}
	return p.Elem(), nil
}

func (textSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	var m encoding.TextMarshaler
	if t.Implements(textMarshalerType) {
		m = v.Interface().(encoding.TextMarshaler)
	} else {
		p := reflect.New(t)
		p.Elem().Set(v)
		m = p.Interface().(encoding.TextMarshaler)
	}
	d, err := m.MarshalText()
	if err != nil {
		return &ir.ConversionError{Path: n.Path(), Type: t, Err: err}
	}
	n.SetString(string(d))
	return nil
}

// scalarSerializer handles bool, number and string kinds, including
// named types.  Values whose type is not native to the node's options
// are stored as strings.
type scalarSerializer struct{}

func (scalarSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	res := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		b, err := n.AsBool()
		if err != nil {
			return res, err
		}
		res.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := n.AsInt64()
		if err != nil {
			return res, err
		}
		if res.OverflowInt(i) {
			return res, conversionError(n, t, "%d overflows %s", i, t)
		}
		res.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := asUint64(n)
		if err != nil {
			return res, err
		}
		if res.OverflowUint(u) {
			return res, conversionError(n, t, "%d overflows %s", u, t)
		}
		res.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := n.AsFloat64()
		if err != nil {
			return res, err
		}
		if res.OverflowFloat(f) {
			return res, conversionError(n, t, "%g overflows %s", f, t)
		}
		res.SetFloat(f)
	case reflect.String:
		s, err := n.AsString()
		if err != nil {
			return res, err
		}
		res.SetString(s)
	}
	return res, nil
}

func asUint64(n *ir.Node) (uint64, error) {
	if n.Type() == ir.StringType {
		s, _ := n.AsString()
		if u, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64); err == nil {
			return u, nil
		}
	}
	x, err := n.AsNumber()
	if err != nil {
		return 0, err
	}
	if i, ok := x.Int64(); ok && !x.IsFloat() {
		if i < 0 {
			return 0, conversionError(n, reflect.TypeFor[uint64](), "negative value %d", i)
		}
		return uint64(i), nil
	}
	f := x.Float64()
	if f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, conversionError(n, reflect.TypeFor[uint64](), "%s is not an unsigned integer", x)
	}
	return uint64(f), nil
}

func (scalarSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	native := n.Options().AcceptsType(t)
	switch t.Kind() {
	case reflect.Bool:
		if native {
			n.SetBool(v.Bool())
		} else {
			n.SetString(strconv.FormatBool(v.Bool()))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if native {
			n.SetInt64(v.Int())
		} else {
			n.SetString(strconv.FormatInt(v.Int(), 10))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if native && u <= math.MaxInt64 {
			n.SetInt64(int64(u))
		} else {
			n.SetString(strconv.FormatUint(u, 10))
		}
	case reflect.Float32, reflect.Float64:
		bits := 64
		if t.Kind() == reflect.Float32 {
			bits = 32
		}
		if native {
			f, _ := strconv.ParseFloat(strconv.FormatFloat(v.Float(), 'g', -1, bits), 64)
			n.SetFloat64(f)
		} else {
			n.SetString(strconv.FormatFloat(v.Float(), 'g', -1, bits))
		}
	case reflect.String:
		n.SetString(v.String())
	}
	return nil
}

type bytesSerializer struct{}

func (bytesSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	b, err := n.AsBytes()
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(b).Convert(t), nil
}

func (bytesSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if v.IsNil() {
		n.SetNull()
		return nil
	}
	if n.Options().AcceptsType(t) {
		n.SetBytes(v.Bytes())
		return nil
	}
	n.SetString(base64.StdEncoding.EncodeToString(v.Bytes()))
	return nil
}

// rawSerializer handles interface{} by reading plain data and
// writing with the serializer of the dynamic type.
type rawSerializer struct{}

func (rawSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	res := reflect.New(t).Elem()
	if raw := n.Raw(); raw != nil {
		res.Set(reflect.ValueOf(raw))
	}
	return res, nil
}

func (rawSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			n.SetNull()
			return nil
		}
		v = v.Elem()
	}
	return n.SetValue(v.Type(), v)
}
