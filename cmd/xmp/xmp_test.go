package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom/libdiff"
	"github.com/signadot/xmpdom/mpath"
	"github.com/signadot/xmpdom/nsmap"
)

func TestGetish(t *testing.T) {
	for _, arg := range []string{`[{"op": "remove"}]`, ` {"about": ""}`, "<x:xmpmeta/>"} {
		d, err := getish(false, false, nil, arg)
		if err != nil {
			t.Fatal(err)
		}
		if string(d) != arg {
			t.Errorf("got %q", d)
		}
	}
	d, err := getish(true, false, nil, "file.json")
	if err != nil || string(d) != "file.json" {
		t.Errorf("got %q %v", d, err)
	}
	if _, err := getish(true, true, nil, "x"); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("got %v", err)
	}
}

func TestWriteChanges(t *testing.T) {
	p := mpath.New(mpath.Property(nsmap.NSDC, "title"))
	cs := []libdiff.Change{
		{Op: libdiff.Delete, Path: p},
	}
	buf := &bytes.Buffer{}
	if err := writeChanges(buf, cs, nsmap.Default(), false); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cs[0].Format(nsmap.Default())+"\n", buf.String()); diff != "" {
		t.Error(diff)
	}
}
