package serialize

import (
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/cfgtree/ir"
)

// loadElem reads an element, mapping absent nodes to zero values.
func loadElem(s ir.Serializer, t reflect.Type, n *ir.Node) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(t), nil
	}
	return s.Deserialize(t, n)
}

// saveElem writes an element, leaving at least a null in place so
// that list positions are kept.
func saveElem(s ir.Serializer, t reflect.Type, v reflect.Value, n *ir.Node) error {
	if err := s.Serialize(t, v, n); err != nil {
		return err
	}
	if n.IsVirtual() {
		n.SetNull()
	}
	return nil
}

func pointerFactory(r ir.Resolver, t reflect.Type) (ir.Serializer, error) {
	es, err := r.Resolve(t.Elem())
	if err != nil {
		return nil, err
	}
	return &pointerSerializer{elem: es}, nil
}

type pointerSerializer struct {
	elem ir.Serializer
}

func (p *pointerSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(t), nil
	}
	ev, err := p.elem.Deserialize(t.Elem(), n)
	if err != nil {
		return reflect.Value{}, err
	}
	res := reflect.New(t.Elem())
	res.Elem().Set(ev)
	return res, nil
}

func (p *pointerSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if v.IsNil() {
		n.SetNull()
		return nil
	}
	return p.elem.Serialize(t.Elem(), v.Elem(), n)
}

func (p *pointerSerializer) Empty(t reflect.Type, opts *ir.Options) (reflect.Value, bool) {
	e, ok := p.elem.(ir.Emptier)
	if !ok {
		return reflect.Value{}, false
	}
	ev, ok := e.Empty(t.Elem(), opts)
	if !ok {
		return reflect.Value{}, false
	}
	res := reflect.New(t.Elem())
	res.Elem().Set(ev)
	return res, true
}

func listFactory(r ir.Resolver, t reflect.Type) (ir.Serializer, error) {
	es, err := r.Resolve(t.Elem())
	if err != nil {
		return nil, err
	}
	return &listSerializer{elem: es}, nil
}

// listSerializer handles slices and arrays.  A scalar node is read as
// a list of one element.
type listSerializer struct {
	elem ir.Serializer
}

func (l *listSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	et := t.Elem()
	var elems []*ir.Node
	switch {
	case n.IsList():
		elems = n.ChildrenList()
	case n.IsScalar():
		ev, err := l.elem.Deserialize(et, n)
		if err != nil {
			return reflect.Value{}, &ir.CoercionError{Path: n.Path(), From: n.Type(), To: t.String(), Err: err}
		}
		return l.build(t, []reflect.Value{ev}, n)
	default:
		return reflect.Value{}, &ir.CoercionError{Path: n.Path(), From: n.Type(), To: t.String()}
	}
	vals := make([]reflect.Value, len(elems))
	for i, c := range elems {
		ev, err := loadElem(l.elem, et, c)
		if err != nil {
			return reflect.Value{}, err
		}
		vals[i] = ev
	}
	return l.build(t, vals, n)
}

func (l *listSerializer) build(t reflect.Type, vals []reflect.Value, n *ir.Node) (reflect.Value, error) {
	if t.Kind() == reflect.Array {
		if len(vals) > t.Len() {
			return reflect.Value{}, conversionError(n, t, "%d elements do not fit in %s", len(vals), t)
		}
		res := reflect.New(t).Elem()
		for i, v := range vals {
			res.Index(i).Set(v)
		}
		return res, nil
	}
	res := reflect.MakeSlice(t, len(vals), len(vals))
	for i, v := range vals {
		res.Index(i).Set(v)
	}
	return res, nil
}

func (l *listSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if t.Kind() == reflect.Slice && v.IsNil() {
		n.SetNull()
		return nil
	}
	n.SetEmptyList()
	for i := range v.Len() {
		if err := saveElem(l.elem, t.Elem(), v.Index(i), n.AppendListNode()); err != nil {
			return err
		}
	}
	return nil
}

func (l *listSerializer) Empty(t reflect.Type, _ *ir.Options) (reflect.Value, bool) {
	if t.Kind() == reflect.Array {
		return reflect.Zero(t), true
	}
	return reflect.MakeSlice(t, 0, 0), true
}

// keyCodec converts map keys to and from strings.
type keyCodec struct {
	parse  func(s string) (reflect.Value, error)
	format func(v reflect.Value) (string, error)
}

func keyCodecFor(t reflect.Type) (*keyCodec, error) {
	switch {
	case isText(t):
		return &keyCodec{
			parse: func(s string) (reflect.Value, error) {
				p := reflect.New(t)
				if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
					return reflect.Value{}, err
				}
				return p.Elem(), nil
			},
			format: func(v reflect.Value) (string, error) {
				p := reflect.New(t)
				p.Elem().Set(v)
				d, err := p.Interface().(encoding.TextMarshaler).MarshalText()
				return string(d), err
			},
		}, nil
	case t.Kind() == reflect.String:
		return &keyCodec{
			parse:  func(s string) (reflect.Value, error) { return reflect.ValueOf(s).Convert(t), nil },
			format: func(v reflect.Value) (string, error) { return v.String(), nil },
		}, nil
	case Kinds(reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64)(t):
		return &keyCodec{
			parse: func(s string) (reflect.Value, error) {
				res := reflect.New(t).Elem()
				i, err := strconv.ParseInt(s, 10, t.Bits())
				res.SetInt(i)
				return res, err
			},
			format: func(v reflect.Value) (string, error) { return strconv.FormatInt(v.Int(), 10), nil },
		}, nil
	case Kinds(reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64)(t):
		return &keyCodec{
			parse: func(s string) (reflect.Value, error) {
				res := reflect.New(t).Elem()
				u, err := strconv.ParseUint(s, 10, t.Bits())
				res.SetUint(u)
				return res, err
			},
			format: func(v reflect.Value) (string, error) { return strconv.FormatUint(v.Uint(), 10), nil },
		}, nil
	}
	return nil, &ir.NoMatchingSerializerError{Type: t, Err: fmt.Errorf("unsupported map key type")}
}

func mapFactory(r ir.Resolver, t reflect.Type) (ir.Serializer, error) {
	kc, err := keyCodecFor(t.Key())
	if err != nil {
		return nil, err
	}
	vs, err := r.Resolve(t.Elem())
	if err != nil {
		return nil, err
	}
	return &mapSerializer{keys: kc, elem: vs}, nil
}

type mapSerializer struct {
	keys *keyCodec
	elem ir.Serializer
}

func (m *mapSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	if !n.IsMap() {
		return reflect.Value{}, &ir.CoercionError{Path: n.Path(), From: n.Type(), To: t.String()}
	}
	res := reflect.MakeMapWithSize(t, n.Len())
	for k, c := range n.All() {
		kv, err := m.keys.parse(k.Name())
		if err != nil {
			return reflect.Value{}, &ir.ConversionError{Path: c.Path(), Type: t.Key(), Err: err}
		}
		ev, err := loadElem(m.elem, t.Elem(), c)
		if err != nil {
			return reflect.Value{}, err
		}
		res.SetMapIndex(kv, ev)
	}
	return res, nil
}

// Serialize writes entries in key order.  Children of an existing map
// are updated in place so that their comments are kept; keys missing
// from v are removed.
func (m *mapSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if v.IsNil() {
		n.SetNull()
		return nil
	}
	keys := make([]string, 0, v.Len())
	byKey := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := m.keys.format(iter.Key())
		if err != nil {
			return &ir.ConversionError{Path: n.Path(), Type: t.Key(), Err: err}
		}
		keys = append(keys, k)
		byKey[k] = iter.Value()
	}
	slices.Sort(keys)
	if !n.IsMap() {
		n.SetEmptyMap()
	}
	for _, k := range n.Keys() {
		if _, ok := byKey[k]; !ok {
			n.RemoveChild(k)
		}
	}
	for _, k := range keys {
		if err := saveElem(m.elem, t.Elem(), byKey[k], n.Node(k)); err != nil {
			return err
		}
	}
	return nil
}

func (m *mapSerializer) Empty(t reflect.Type, _ *ir.Options) (reflect.Value, bool) {
	return reflect.MakeMap(t), true
}

func isSet(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func setFactory(r ir.Resolver, t reflect.Type) (ir.Serializer, error) {
	ks, err := r.Resolve(t.Key())
	if err != nil {
		return nil, err
	}
	return &setSerializer{elem: ks}, nil
}

// setSerializer stores map[K]struct{} as a list of keys.
type setSerializer struct {
	elem ir.Serializer
}

func (s *setSerializer) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	var elems []*ir.Node
	switch {
	case n.IsList():
		elems = n.ChildrenList()
	case n.IsScalar():
		elems = []*ir.Node{n}
	default:
		return reflect.Value{}, &ir.CoercionError{Path: n.Path(), From: n.Type(), To: t.String()}
	}
	res := reflect.MakeMapWithSize(t, len(elems))
	member := reflect.New(t.Elem()).Elem()
	for _, c := range elems {
		kv, err := loadElem(s.elem, t.Key(), c)
		if err != nil {
			return reflect.Value{}, err
		}
		res.SetMapIndex(kv, member)
	}
	return res, nil
}

func (s *setSerializer) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if v.IsNil() {
		n.SetNull()
		return nil
	}
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return compareKeys(a, b)
	})
	n.SetEmptyList()
	for _, k := range keys {
		if err := saveElem(s.elem, t.Key(), k, n.AppendListNode()); err != nil {
			return err
		}
	}
	return nil
}

func (s *setSerializer) Empty(t reflect.Type, _ *ir.Options) (reflect.Value, bool) {
	return reflect.MakeMap(t), true
}

func compareKeys(a, b reflect.Value) int {
	switch {
	case a.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	case a.CanFloat():
		return cmp.Compare(a.Float(), b.Float())
	case a.Kind() == reflect.String:
		return cmp.Compare(a.String(), b.String())
	}
	return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}
