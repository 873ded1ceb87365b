package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/dom"
)

func conv(cfg *ConvConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Conv.Parse(cc, args)
	if err != nil {
		return err
	}
	s, err := cfg.serializer(cc.Out)
	if err != nil {
		return err
	}
	return eachDoc(cfg.MainConfig, cc, args, func(_ int, md *dom.Metadata) error {
		return writeWith(s, cc.Out, md)
	})
}
