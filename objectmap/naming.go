package objectmap

import (
	"strings"
	"unicode"
)

// Naming derives a serialized key from a Go field name.
type Naming func(string) string

var (
	// KebabCase maps FetchURL to fetch-url.
	KebabCase Naming = func(s string) string { return join(words(s), "-", strings.ToLower) }
	// SnakeCase maps FetchURL to fetch_url.
	SnakeCase Naming = func(s string) string { return join(words(s), "_", strings.ToLower) }
	// LowerCamelCase maps FetchURL to fetchUrl.
	LowerCamelCase Naming = lowerCamel
	// Identity keeps the Go name.
	Identity Naming = func(s string) string { return s }
)

func join(ws []string, sep string, f func(string) string) string {
	for i := range ws {
		ws[i] = f(ws[i])
	}
	return strings.Join(ws, sep)
}

func lowerCamel(s string) string {
	ws := words(s)
	for i, w := range ws {
		w = strings.ToLower(w)
		if i > 0 {
			rs := []rune(w)
			rs[0] = unicode.ToUpper(rs[0])
			w = string(rs)
		}
		ws[i] = w
	}
	return strings.Join(ws, "")
}

// words splits s at underscores and at case changes, keeping
// acronyms together: "MaxURLLength" gives Max, URL, Length.
func words(s string) []string {
	var res []string
	for _, part := range strings.Split(s, "_") {
		rs := []rune(part)
		start := 0
		for i := 1; i < len(rs); i++ {
			prev, cur := rs[i-1], rs[i]
			switch {
			case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			case unicode.IsUpper(cur) && unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
			default:
				continue
			}
			res = append(res, string(rs[start:i]))
			start = i
		}
		if start < len(rs) {
			res = append(res, string(rs[start:]))
		}
	}
	return res
}
