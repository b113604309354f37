package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a single path segment: either a map key or a list index.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Field returns a map key segment.
func Field(name string) Key {
	return Key{name: name}
}

// Index returns a list index segment.
func Index(i int) Key {
	return Key{index: i, isIndex: true}
}

func (k Key) IsIndex() bool { return k.isIndex }
func (k Key) Name() string { return k.name }
func (k Key) Idx() int { return k.index }

// String returns the map key, or the decimal form of the index.
func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// KeyOf converts a navigation argument into a Key.  Integers
// become indexes, strings become fields and any other value is
// used by its fmt representation.
func KeyOf(v any) Key {
	switch x := v.(type) {
	case Key:
		return x
	case string:
		return Field(x)
	case int:
		return Index(x)
	case int8:
		return Index(int(x))
	case int16:
		return Index(int(x))
	case int32:
		return Index(int(x))
	case int64:
		return Index(int(x))
	case uint:
		return Index(int(x))
	case uint8:
		return Index(int(x))
	case uint16:
		return Index(int(x))
	case uint32:
		return Index(int(x))
	case uint64:
		return Index(int(x))
	case fmt.Stringer:
		return Field(x.String())
	default:
		return Field(fmt.Sprint(v))
	}
}

// Path is a sequence of segments from a root.
type Path []Key

// P builds a path from navigation arguments, see KeyOf.
func P(segs ...any) Path {
	res := make(Path, len(segs))
	for i, s := range segs {
		res[i] = KeyOf(s)
	}
	return res
}

// Child returns a copy of p extended with k.
func (p Path) Child(k Key) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, k)
}

// Args returns p as navigation arguments for Node.Node.
func (p Path) Args() []any {
	res := make([]any, len(p))
	for i, k := range p {
		res[i] = k
	}
	return res
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders p as "$.a.b[0]", quoting fields which contain
// path syntax.
func (p Path) String() string {
	buf := &strings.Builder{}
	buf.WriteByte('$')
	for _, k := range p {
		if k.isIndex {
			buf.WriteString("[" + strconv.Itoa(k.index) + "]")
			continue
		}
		buf.WriteByte('.')
		buf.WriteString(pathString(k.name))
	}
	return buf.String()
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[] \t\n") == -1 {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// ParsePath parses the form produced by Path.String.  The leading
// '$' is optional, so "a.b[1]" and "$.a.b[1]" are equivalent.
func ParsePath(p string) (Path, error) {
	p = strings.TrimPrefix(p, "$")
	res := Path{}
	if p == "" {
		return res, nil
	}
	if p[0] != '.' && p[0] != '[' {
		p = "." + p
	}
	for len(p) > 0 {
		switch p[0] {
		case '.':
			field, rest, err := parseField(p[1:])
			if err != nil {
				return nil, err
			}
			res = append(res, Field(field))
			p = rest
		case '[':
			i := strings.IndexByte(p, ']')
			if i == -1 {
				return nil, fmt.Errorf("expected '[' <index> ']' in %q", p)
			}
			idx, err := strconv.ParseUint(p[1:i], 10, 31)
			if err != nil {
				return nil, fmt.Errorf("bad index %q: %w", p[1:i], err)
			}
			res = append(res, Index(int(idx)))
			p = p[i+1:]
		default:
			return nil, fmt.Errorf("expected '.' or '[' at %q", p)
		}
	}
	return res, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case c == '\\' && !escaped:
			escaped = true
		case c == '\'' && !escaped:
			return string(res), frag[i+1:], nil
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// Path returns n's position relative to its root.  It is computed
// from the live tree on each call.
func (n *Node) Path() Path {
	depth := 0
	for x := n; x.parent != nil; x = x.parent {
		depth++
	}
	res := make(Path, depth)
	for x := n; x.parent != nil; x = x.parent {
		depth--
		res[depth] = x.key
	}
	return res
}
