package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/dom"
)

func ns(cfg *NSConfig, cc *cli.Context, args []string) error {
	args, err := cfg.NS.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachDoc(cfg.MainConfig, cc, args, func(i int, md *dom.Metadata) error {
		if i > 0 {
			fmt.Fprintln(cc.Out, "---")
		}
		used := map[string]bool{}
		for _, ns := range md.Namespaces() {
			used[ns] = true
		}
		for _, e := range md.Prefixes().Entries() {
			mark := " "
			if used[e.Namespace] {
				mark = "*"
			}
			fmt.Fprintf(cc.Out, "%s %s\t%s\n", mark, e.Prefix, e.Namespace)
		}
		return nil
	})
}
