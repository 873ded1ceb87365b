package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom"
)

func newDoc(cfg *NewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.New.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: new takes no arguments, got %v", cli.ErrUsage, args)
	}
	md, err := xmpdom.NewDocument()
	if err != nil {
		return err
	}
	defer md.Release()
	md.SetAboutURI(cfg.About)
	return writeDoc(cfg.MainConfig, cc.Out, md)
}
