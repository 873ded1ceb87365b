package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/codec/jsonfmt"
	"github.com/signadot/xmpdom/dom"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a JSON Patch argument", cli.ErrUsage)
	}
	ops, err := getish(cfg.String, cfg.File, cc, args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return eachDoc(cfg.MainConfig, cc, args[1:], func(_ int, md *dom.Metadata) error {
		res, err := jsonfmt.Patch(md, ops)
		if err != nil {
			return fmt.Errorf("error patching: %w", err)
		}
		defer res.Release()
		return writeDoc(cfg.MainConfig, cc.Out, res)
	})
}
