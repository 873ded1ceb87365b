package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/encode"
	"github.com/signadot/xmpdom/format"
	"github.com/signadot/xmpdom/plugin"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	s, err := cfg.serializerFor(format.OutlineFormat, cc.Out)
	if err != nil {
		return err
	}
	if cfg.NoQualifiers {
		if err := plugin.Configure(s, map[string]any{encode.OptQualifiers: false}); err != nil {
			return err
		}
	}
	return eachDoc(cfg.MainConfig, cc, args, func(i int, md *dom.Metadata) error {
		if i > 0 {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		return writeWith(s, cc.Out, md)
	})
}
