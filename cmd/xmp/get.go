package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/encode"
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
	path := args[0]
	return eachDoc(cfg.MainConfig, cc, args[1:], func(_ int, md *dom.Metadata) error {
		n, err := dom.ResolveString(md.Node, path)
		if err != nil {
			return fmt.Errorf("error resolving %s: %w", path, err)
		}
		return encode.Encode(n, cc.Out, cfg.encOpts(cc.Out, md)...)
	})
}

func (cfg *MainConfig) encOpts(w io.Writer, md *dom.Metadata) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodePrefixes(prefixes(md))}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}
