// Package objectmap maps Go struct types to and from configuration
// nodes.
//
// A Factory discovers the Shape of each type once, through an ordered
// list of Discoverers, and caches the resulting Mapper.  Struct fields
// are annotated with the conf tag:
//
//	type Server struct {
//		Addr    string        `conf:"required,comment='listen address'"`
//		Timeout time.Duration `conf:"default=5s,omitdefault"`
//		Workers int           `conf:"validate='value > 0'"`
//		Debug   bool          `conf:"-"`
//	}
//
// Fields without a name option are named by the factory's Naming,
// kebab-case by default.  Record types, whose values are built by a
// constructor, are registered with WithConstructor.
//
// Factory.Entry plugs the factory into a serialize.Registry so that
// struct types nested in other values are mapped too.
package objectmap
