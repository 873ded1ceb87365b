package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/encode"
	"github.com/signadot/xmpdom/eval"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Funcs {
		fmt.Fprintf(cc.Out, "available functions:\n")
		for _, s := range eval.Symbols() {
			fmt.Fprintf(cc.Out, "\t- %s\n", s)
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires one argument, an expression", cli.ErrUsage)
	}
	src := args[0]
	if _, err := eval.Compile(src); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return eachDoc(cfg.MainConfig, cc, args[1:], func(_ int, md *dom.Metadata) error {
		ns, err := eval.Select(md.Node, src)
		if err != nil {
			return err
		}
		m := prefixes(md)
		for _, n := range ns {
			if cfg.Values {
				if err := encode.Encode(n, cc.Out, cfg.encOpts(cc.Out, md)...); err != nil {
					return err
				}
				continue
			}
			p, err := n.Path().String(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(cc.Out, p)
		}
		return nil
	})
}
