package ir

import "fmt"

// Type is the variant held by a node's value cell.
type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	BytesType
	ListType
	MapType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		NullType:   "Null",
		BoolType:   "Bool",
		NumberType: "Number",
		StringType: "String",
		BytesType:  "Bytes",
		ListType:   "List",
		MapType:    "Map",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Null":   NullType,
		"Bool":   BoolType,
		"Number": NumberType,
		"String": StringType,
		"Bytes":  BytesType,
		"List":   ListType,
		"Map":    MapType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		NumberType,
		StringType,
		BytesType,
		ListType,
		MapType,
	}
}

// IsLeaf reports whether t holds no children.
func (t Type) IsLeaf() bool {
	switch t {
	case ListType, MapType:
		return false
	default:
		return true
	}
}
