package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Merge   bool
	Mapper  bool
	Resolve bool
	Watch   bool
	Format  bool
	Match   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Merge = boolEnv("CFGTREE_DEBUG_MERGE")
	d.Mapper = boolEnv("CFGTREE_DEBUG_MAPPER")
	d.Resolve = boolEnv("CFGTREE_DEBUG_RESOLVE")
	d.Watch = boolEnv("CFGTREE_DEBUG_WATCH")
	d.Format = boolEnv("CFGTREE_DEBUG_FORMAT")
	d.Match = boolEnv("CFGTREE_DEBUG_MATCH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Merge() bool {
	return d.Merge
}
func Mapper() bool {
	return d.Mapper
}
func Resolve() bool {
	return d.Resolve
}
func Watch() bool {
	return d.Watch
}
func Format() bool {
	return d.Format
}
func Match() bool {
	return d.Match
}
