package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/cfgtree"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: match requires 1 argument, a pattern file", cli.ErrUsage)
	}
	pattern, _, err := readNode(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error reading pattern: %w", err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	matched := 0
	for _, file := range files {
		doc, f, err := readNode(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		if !cfgtree.Match(doc, pattern) {
			continue
		}
		if matched > 0 {
			if err := writeSep(cc.Out); err != nil {
				return err
			}
		}
		matched++
		if cfg.Trim {
			doc = cfgtree.Trim(pattern, doc)
		}
		if err := cfg.render(cc.Out, doc, f); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	if matched == 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
