// Command console plays a hot-seat game in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

func main() {
	noColor := flag.Bool("no-color", false, "print the board without colours")
	flag.Parse()

	var opts []termenv.OutputOption
	if *noColor {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}

	if err := run(os.Stdin, os.Stdout, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}
