package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/cfgtree/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path, err := parseQuery(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	missing, wrote := false, false
	for _, file := range files {
		n, f, err := readNode(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		if len(path) > 0 && !n.HasChild(path.Args()...) {
			fmt.Fprintf(os.Stderr, "%s: nothing at %s\n", file, path)
			missing = true
			continue
		}
		if wrote {
			if err := writeSep(cc.Out); err != nil {
				return err
			}
		}
		wrote = true
		if err := cfg.render(cc.Out, n.Node(path.Args()...).Copy(), f); err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, path, err)
		}
	}
	if missing {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func parseQuery(q string) (ir.Path, error) {
	if q == "" {
		return nil, fmt.Errorf("invalid path %q", q)
	}
	return ir.ParsePath(q)
}
