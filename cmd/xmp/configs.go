package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/encode"
	"github.com/signadot/xmpdom/format"
	"github.com/signadot/xmpdom/plugin"
)

type MainConfig struct {
	Color  bool   `cli:"name=color desc='encode outlines with color'"`
	Strict bool   `cli:"name=strict desc='treat warnings as errors'"`
	Config string `cli:"name=config desc='yaml file of parser and serializer options by format'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	options map[string]FormatOptions

	Main *cli.Command
}

// FormatOptions is the entry of one format in the -config file:
//
//	rdf:
//	  parser: {strictAliasing: true}
//	  serializer: {omitPacketWrapper: true, indent: "  "}
type FormatOptions struct {
	Parser     map[string]any `yaml:"parser"`
	Serializer map[string]any `yaml:"serializer"`
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) loadOptions() error {
	if cfg.Config == "" {
		return nil
	}
	d, err := os.ReadFile(cfg.Config)
	if err != nil {
		return fmt.Errorf("could not read config: %w", err)
	}
	opts := map[string]FormatOptions{}
	if err := yaml.Unmarshal(d, &opts); err != nil {
		return fmt.Errorf("could not decode config %s: %w", cfg.Config, err)
	}
	for k, v := range opts {
		f, err := format.ParseFormat(k)
		if err != nil {
			return fmt.Errorf("config %s: %w", cfg.Config, err)
		}
		cfg.options[f.ID()] = v
	}
	return nil
}

func (cfg *MainConfig) inFormat() format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	return format.RDFFormat
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return cfg.inFormat()
}

func (cfg *MainConfig) parser() (plugin.Parser, error) {
	id := cfg.inFormat().ID()
	p, err := plugin.NewParser(id)
	if err != nil {
		return nil, err
	}
	if err := plugin.Configure(p, cfg.options[id].Parser); err != nil {
		return nil, fmt.Errorf("%s parser options: %w", id, err)
	}
	return p, nil
}

func (cfg *MainConfig) serializer(w io.Writer) (plugin.Serializer, error) {
	return cfg.serializerFor(cfg.outFormat(), w)
}

func (cfg *MainConfig) serializerFor(f format.Format, w io.Writer) (plugin.Serializer, error) {
	id := f.ID()
	s, err := plugin.NewSerializer(id)
	if err != nil {
		return nil, err
	}
	if err := plugin.Configure(s, cfg.options[id].Serializer); err != nil {
		return nil, fmt.Errorf("%s serializer options: %w", id, err)
	}
	if f == format.OutlineFormat && cfg.colors(w) {
		if err := plugin.Configure(s, map[string]any{encode.OptColor: true}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// colors reports whether outlines written to w get colors: -color, or a
// terminal when -color was not given.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ConvConfig struct {
	*MainConfig

	Conv *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type DumpConfig struct {
	*MainConfig
	NoQualifiers bool `cli:"name=nq desc='leave out qualifiers'"`
	Dump         *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Values bool `cli:"name=v desc='print the matching nodes, not only their paths'"`
	Funcs  bool `cli:"name=funcs desc='show available functions'"`

	Query *cli.Command
}

type PatchConfig struct {
	*MainConfig
	String bool `cli:"name=s desc='patch arg as string'"`
	File   bool `cli:"name=f desc='patch arg as file'"`

	Patch *cli.Command
}

type MatchConfig struct {
	*cli.Command
	*MainConfig

	Trim         bool `cli:"name=trim desc='trim the results to the match'"`
	Hints        bool `cli:"name=hints desc='compare type hints and uri flags'"`
	NoQualifiers bool `cli:"name=nq desc='ignore qualifiers'"`
	String       bool `cli:"name=s desc='consider match a string argument'"`
	File         bool `cli:"name=f desc='consider match a file path'"`
}

type NSConfig struct {
	*MainConfig

	NS *cli.Command
}

type NewConfig struct {
	*MainConfig
	About string `cli:"name=about desc='rdf:about of the new document'"`

	New *cli.Command
}
