package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/format/codecs"
	"github.com/signadot/cfgtree/ir"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='color diff output'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat returns the format for reading path: -I if given, else
// the extension of path.  Standard input without -I is read as YAML.
func (cfg *MainConfig) inFormat(path string) (format.Format, error) {
	if cfg.InFormat != nil {
		return *cfg.InFormat, nil
	}
	if path == "-" {
		return format.YAMLFormat, nil
	}
	f, err := format.FromPath(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w (use -I)", cli.ErrUsage, err)
	}
	return f, nil
}

// outFormat returns -O if given, else in.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return in
}

func (cfg *MainConfig) render(w io.Writer, n *ir.Node, in format.Format) error {
	c, err := codecs.For(cfg.outFormat(in))
	if err != nil {
		return err
	}
	d, err := c.Render(n)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	_, err = w.Write(d)
	return err
}

// colors reports whether to color output written to w: -color if
// given, else whether w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type MergeConfig struct {
	*MainConfig
	Append bool `cli:"name=append desc='append lists instead of replacing them'"`
	Strict bool `cli:"name=strict desc='fail when a map meets a list or scalar'"`

	Merge *cli.Command
}

func (cfg *MergeConfig) mergeOpts() []ir.MergeOption {
	res := []ir.MergeOption{ir.Strict(cfg.Strict)}
	if cfg.Append {
		res = append(res, ir.MergeLists(ir.ListAppend))
	}
	return res
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='patch is a JSON merge patch'"`

	Patch *cli.Command
}

type MatchConfig struct {
	*cli.Command
	*MainConfig

	Trim bool `cli:"name=trim desc='trim the results to the match'"`
}
