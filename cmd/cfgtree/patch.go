package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/cfgtree/format/json"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a file and a JSON patch to apply to it", cli.ErrUsage)
	}
	if args[0] == "-" && args[1] == "-" {
		return fmt.Errorf("%w: only one of file and patch may be read from stdin", cli.ErrUsage)
	}
	target, f, err := readNode(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	p, err := readPatch(cc, args[1])
	if err != nil {
		return err
	}
	apply := json.Patch
	if cfg.Merge {
		apply = json.MergePatch
	}
	if err := apply(target, p); err != nil {
		return fmt.Errorf("error patching %s: %w", args[0], err)
	}
	return cfg.render(cc.Out, target, f)
}

func readPatch(cc *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading patch: %w", err)
	}
	return d, nil
}
