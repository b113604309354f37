// Package codecs looks up the codec of each format.
package codecs

import (
	"fmt"
	"os"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/format/ini"
	"github.com/signadot/cfgtree/format/json"
	"github.com/signadot/cfgtree/format/properties"
	"github.com/signadot/cfgtree/format/toml"
	"github.com/signadot/cfgtree/format/yaml"
	"github.com/signadot/cfgtree/ir"
)

var byFormat = map[format.Format]format.Codec{
	format.JSONFormat:       json.Codec,
	format.YAMLFormat:       yaml.Codec,
	format.TOMLFormat:       toml.Codec,
	format.INIFormat:        ini.Codec,
	format.PropertiesFormat: properties.Codec,
}

func For(f format.Format) (format.Codec, error) {
	c, ok := byFormat[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, int(f))
	}
	return c, nil
}

// ForPath returns the codec for the extension of path.
func ForPath(path string) (format.Codec, error) {
	f, err := format.FromPath(path)
	if err != nil {
		return nil, err
	}
	return For(f)
}

// ReadFile parses the file at path into n, choosing the codec by
// extension.
func ReadFile(n *ir.Node, path string) error {
	c, err := ForPath(path)
	if err != nil {
		return err
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.ParseInto(n, d)
}
