package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/cfgtree"
)

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: merge requires at least one file", cli.ErrUsage)
	}
	res := cfgtree.NewRoot()
	first, f, err := readNode(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	res.SetNode(first)
	for _, file := range args[1:] {
		n, _, err := readNode(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		if err := res.MergeFrom(n, cfg.mergeOpts()...); err != nil {
			return fmt.Errorf("error merging %s: %w", file, err)
		}
	}
	return cfg.render(cc.Out, res, f)
}
