package ir

import (
	"encoding/base64"
	"strconv"
	"strings"
)

func (n *Node) coercionError(to, msg string, err error) *CoercionError {
	return &CoercionError{Path: n.Path(), From: n.Type(), To: to, Message: msg, Err: err}
}

var (
	trueStrings  = []string{"true", "t", "yes", "y", "on", "1"}
	falseStrings = []string{"false", "f", "no", "n", "off", "0"}
)

// AsBool returns n as a bool.  Strings such as "yes" and "off" and
// the numbers 0 and 1 are accepted.
func (n *Node) AsBool() (bool, error) {
	switch n.Type() {
	case BoolType:
		return n.val.b, nil
	case StringType:
		s := strings.ToLower(strings.TrimSpace(n.val.s))
		for i := range trueStrings {
			switch s {
			case trueStrings[i]:
				return true, nil
			case falseStrings[i]:
				return false, nil
			}
		}
		return false, n.coercionError("bool", strconv.Quote(n.val.s), nil)
	case NumberType:
		i, ok := n.val.num.Int64()
		if ok && (i == 0 || i == 1) {
			return i == 1, nil
		}
		return false, n.coercionError("bool", n.val.num.String(), nil)
	}
	return false, n.coercionError("bool", "", nil)
}

// AsInt64 returns n as an int64.  Floats must be integral, strings
// are parsed with Go base prefixes or as integral floats.
func (n *Node) AsInt64() (int64, error) {
	switch n.Type() {
	case NumberType:
		i, ok := n.val.num.Int64()
		if !ok {
			return 0, n.coercionError("int", n.val.num.String()+" is not integral", nil)
		}
		return i, nil
	case StringType:
		s := strings.TrimSpace(n.val.s)
		i, err := strconv.ParseInt(s, 0, 64)
		if err == nil {
			return i, nil
		}
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr == nil {
			if i, ok := Float(f).Int64(); ok {
				return i, nil
			}
		}
		return 0, n.coercionError("int", strconv.Quote(n.val.s), err)
	}
	return 0, n.coercionError("int", "", nil)
}

// AsFloat64 returns n as a float64, parsing strings.
func (n *Node) AsFloat64() (float64, error) {
	switch n.Type() {
	case NumberType:
		return n.val.num.Float64(), nil
	case StringType:
		f, err := strconv.ParseFloat(strings.TrimSpace(n.val.s), 64)
		if err != nil {
			return 0, n.coercionError("float", strconv.Quote(n.val.s), err)
		}
		return f, nil
	}
	return 0, n.coercionError("float", "", nil)
}

// AsNumber returns the number held by n, parsing strings.
func (n *Node) AsNumber() (Number, error) {
	if n.Type() == NumberType {
		return n.val.num, nil
	}
	if n.Type() == StringType {
		s := strings.TrimSpace(n.val.s)
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
		return Number{}, n.coercionError("number", strconv.Quote(n.val.s), nil)
	}
	return Number{}, n.coercionError("number", "", nil)
}

// AsString returns n as a string, formatting numbers and bools.
func (n *Node) AsString() (string, error) {
	switch n.Type() {
	case StringType:
		return n.val.s, nil
	case NumberType:
		return n.val.num.String(), nil
	case BoolType:
		return strconv.FormatBool(n.val.b), nil
	case BytesType:
		return string(n.val.bytes), nil
	}
	return "", n.coercionError("string", "", nil)
}

// AsBytes returns n as bytes.  Strings are decoded as standard
// base64.
func (n *Node) AsBytes() ([]byte, error) {
	switch n.Type() {
	case BytesType:
		return append([]byte(nil), n.val.bytes...), nil
	case StringType:
		d, err := base64.StdEncoding.DecodeString(n.val.s)
		if err != nil {
			return nil, n.coercionError("bytes", "invalid base64", err)
		}
		return d, nil
	}
	return nil, n.coercionError("bytes", "", nil)
}
