package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/plugin"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: match requires 1 argument, a match document", cli.ErrUsage)
	}
	m, err := getMatch(cfg, cc, args[0])
	if err != nil {
		return err
	}
	defer m.Release()
	opts := []xmpdom.MatchOpt{
		xmpdom.MatchHints(cfg.Hints),
		xmpdom.MatchQualifiers(!cfg.NoQualifiers),
	}
	found := 0
	return eachDoc(cfg.MainConfig, cc, args[1:], func(_ int, md *dom.Metadata) error {
		if !xmpdom.Match(md.Node, m.Node, opts...) {
			return nil
		}
		if found > 0 {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		found++
		if cfg.Trim {
			t, err := xmpdom.TrimDocument(m, md)
			if err != nil {
				return fmt.Errorf("error trimming document: %w", err)
			}
			defer t.Release()
			md = t
		}
		return writeDoc(cfg.MainConfig, cc.Out, md)
	})
}

func getMatch(cfg *MatchConfig, cc *cli.Context, arg string) (*dom.Metadata, error) {
	d, err := getish(cfg.String, cfg.File, cc, arg)
	if err != nil {
		return nil, err
	}
	p, err := cfg.parser()
	if err != nil {
		return nil, err
	}
	res, err := plugin.Parse(p, d)
	if err != nil {
		return nil, fmt.Errorf("error decoding match: %w", err)
	}
	return res, nil
}

// getish reads arg as a string with -s, as a file with -f, and otherwise
// as a string when it looks like inline markup.
func getish(s, f bool, cc *cli.Context, arg string) ([]byte, error) {
	if s && f {
		return nil, fmt.Errorf("%w: only one of -s, -f may be specified", cli.ErrUsage)
	}
	if !s && !f {
		t := strings.TrimSpace(arg)
		s = t != "" && strings.ContainsRune("[{<", rune(t[0]))
	}
	if s {
		return []byte(arg), nil
	}
	return readArg(cc, arg)
}
