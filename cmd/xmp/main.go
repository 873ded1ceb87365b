package main

import (
	"context"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xmpdom"
)

func main() {
	if err := xmpdom.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "xmp: %v\n", err)
		os.Exit(1)
	}
	defer xmpdom.Terminate()
	cli.MainContext(context.Background(), MainCommand())
}
