package ir

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// String renders n on one line in a JSON-like form, for debugging and
// error messages.  Comments are shown as trailing "# ..." on the
// commented node.
func (n *Node) String() string {
	buf := &strings.Builder{}
	n.writeTo(buf)
	return buf.String()
}

func (n *Node) writeTo(buf *strings.Builder) {
	switch n.Type() {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(n.val.b))
	case NumberType:
		buf.WriteString(n.val.num.String())
	case StringType:
		buf.WriteString(strconv.Quote(n.val.s))
	case BytesType:
		buf.WriteString("!!binary ")
		buf.WriteString(base64.StdEncoding.EncodeToString(n.val.bytes))
	case ListType:
		buf.WriteByte('[')
		for i, c := range n.val.list {
			if i > 0 {
				buf.WriteString(", ")
			}
			c.writeTo(buf)
		}
		buf.WriteByte(']')
	case MapType:
		buf.WriteByte('{')
		for i, k := range n.Keys() {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(pathString(k))
			buf.WriteString(": ")
			n.val.m[k].writeTo(buf)
		}
		buf.WriteByte('}')
	}
	if n.hasComment {
		buf.WriteString(" # ")
		buf.WriteString(strings.ReplaceAll(n.comment, "\n", " "))
	}
}
