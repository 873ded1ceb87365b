package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/libdiff"
	"github.com/signadot/xmpdom/mpath"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	defer a.Release()
	b, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	defer b.Release()

	cs := libdiff.Diff(a.Node, b.Node)
	if len(cs) == 0 {
		return nil
	}
	if cfg.Reverse {
		cs = libdiff.Reverse(cs)
	}
	m := prefixes(a)
	m.Merge(b.Prefixes())
	if err := writeChanges(cc.Out, cs, m, cfg.colors(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

var opColors = map[libdiff.Op]*color.Color{
	libdiff.Insert:  color.New(color.FgGreen),
	libdiff.Delete:  color.New(color.FgRed),
	libdiff.Replace: color.New(color.FgYellow),
	libdiff.Edit:    color.New(color.FgCyan),
	libdiff.Retag:   color.New(color.FgMagenta),
}

func writeChanges(w io.Writer, cs []libdiff.Change, m mpath.Prefixes, colors bool) error {
	for _, c := range cs {
		line := c.Format(m)
		if colors {
			line = opColors[c.Op].Sprint(line)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
