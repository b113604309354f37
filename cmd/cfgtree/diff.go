package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/cfgtree/format/codecs"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, fa, err := readNode(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	b, _, err := readNode(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	// both sides are rendered alike so only content differences show
	c, err := codecs.For(cfg.outFormat(fa))
	if err != nil {
		return err
	}
	ta, err := c.Render(a)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", args[0], err)
	}
	tb, err := c.Render(b)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", args[1], err)
	}
	diffs := lineDiff(string(ta), string(tb))
	if !differs(diffs) {
		return nil
	}
	fmt.Fprintf(cc.Out, "--- %s\n+++ %s\n", args[0], args[1])
	if err := writeDiff(cc.Out, diffs, cfg.colors(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func lineDiff(a, b string) []diffpatch.Diff {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func differs(diffs []diffpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}

func writeDiff(w io.Writer, diffs []diffpatch.Diff, colored bool) error {
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}
	buf := &bytes.Buffer{}
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffpatch.DiffDelete:
				del.Fprintf(buf, "-%s", line)
			case diffpatch.DiffInsert:
				ins.Fprintf(buf, "+%s", line)
			default:
				fmt.Fprintf(buf, " %s", line)
			}
			buf.WriteByte('\n')
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
