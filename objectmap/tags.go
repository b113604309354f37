package objectmap

import (
	"fmt"
	"strings"
)

// TagKey is the struct tag key consulted during discovery.
const TagKey = "conf"

// ParseStructTag parses a tag value into a map of options.  Options
// are separated by commas or spaces; values may be quoted with single
// or double quotes to contain either:
//
//	conf:"name=url required comment='Where to fetch from'"
//
// Options without a value map to "".
func ParseStructTag(tag string) (map[string]string, error) {
	res := map[string]string{}
	var (
		parts []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			parts = append(parts, p)
		}
		cur.Reset()
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == ',' || c == ' ':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in tag %q", tag)
	}
	flush()
	for _, part := range parts {
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("empty key in tag option %q", part)
		}
		if !ok {
			res[k] = ""
			continue
		}
		res[k] = unquote(strings.TrimSpace(v))
	}
	return res, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
