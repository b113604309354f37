package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/cfgtree"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/format/codecs"
	"github.com/signadot/cfgtree/ir"
)

// readNode parses the file at path, or standard input for "-", and
// returns it with the format it was read as.
func readNode(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, format.Format, error) {
	f, err := cfg.inFormat(path)
	if err != nil {
		return nil, 0, err
	}
	c, err := codecs.For(f)
	if err != nil {
		return nil, 0, err
	}
	var r io.Reader
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer fh.Close()
		r = fh
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading %q: %w", path, err)
	}
	n := cfgtree.NewRoot()
	if err := c.ParseInto(n, d); err != nil {
		return nil, 0, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return n, f, nil
}

func writeSep(w io.Writer) error {
	_, err := w.Write([]byte("---\n"))
	return err
}
