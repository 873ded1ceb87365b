package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
)

func readArg(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", path, err)
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func getObjFile(cfg *MainConfig, cc *cli.Context, path string) (*dom.Metadata, error) {
	d, err := readArg(cc, path)
	if err != nil {
		return nil, err
	}
	p, err := cfg.parser()
	if err != nil {
		return nil, err
	}
	md, err := plugin.Parse(p, d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return md, nil
}

// eachDoc parses every file, or stdin when there are none, and hands
// the documents to f in order. Documents are released after f.
func eachDoc(cfg *MainConfig, cc *cli.Context, files []string, f func(i int, md *dom.Metadata) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for i, file := range files {
		md, err := getObjFile(cfg, cc, file)
		if err != nil {
			return err
		}
		err = f(i, md)
		md.Release()
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
	}
	return nil
}

// writeDoc serializes md with the output format.
func writeDoc(cfg *MainConfig, w io.Writer, md *dom.Metadata) error {
	s, err := cfg.serializer(w)
	if err != nil {
		return err
	}
	return writeWith(s, w, md)
}

func writeWith(s plugin.Serializer, w io.Writer, md *dom.Metadata) error {
	d, err := plugin.Serialize(s, md)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	if len(d) != 0 && d[len(d)-1] != '\n' {
		d = append(d, '\n')
	}
	_, err = w.Write(d)
	return err
}

// prefixes is md's prefix map backed by the default one.
func prefixes(md *dom.Metadata) *nsmap.Map {
	m := md.Prefixes().Clone()
	m.Merge(nsmap.Default())
	return m
}
