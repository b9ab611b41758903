// Package main provides the rollcrc-demo tool, which prints the rolling
// checksum at every position of a string next to a from-scratch recompute.
//
// Usage:
//
//	rollcrc-demo [-window N] [TEXT]
//
// Each line holds the index of the byte just pushed. Until the window fills
// the line ends with "-"; after that it shows the rolling CRC and the CRC
// recomputed over the same window, in hex.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aalhour/rollcrc"
)

var (
	window = flag.Int("window", 3, "Rolling window size in bytes")
	help   = flag.Bool("help", false, "Print help")
)

const defaultText = "hello world"

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *help {
		printUsage()
		return
	}
	if *window < 0 {
		fmt.Fprintf(os.Stderr, "Error: window must not be negative, got %d\n", *window)
		printUsage()
		os.Exit(1)
	}

	text := defaultText
	if flag.NArg() > 0 {
		text = flag.Arg(0)
	}
	if err := run(os.Stdout, *window, []byte(text)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "rollcrc-demo - show rolling CRC-32 values against recomputed ones")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: rollcrc-demo [-window N] [TEXT]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
}

// run writes one line per byte of text and fails if a rolling value ever
// disagrees with the recomputed one.
func run(w io.Writer, window int, text []byte) error {
	ctx := rollcrc.NewContext(window)
	roller := rollcrc.NewRoller(ctx)

	out := bufio.NewWriter(w)
	defer out.Flush()

	for i, c := range text {
		sum, ok := roller.Push(c)
		if !ok {
			fmt.Fprintf(out, "%d -\n", i)
			continue
		}
		want := ctx.Checksum(text[i+1-window : i+1])
		fmt.Fprintf(out, "%d %08x %08x\n", i, sum, want)
		if sum != want {
			return fmt.Errorf("mismatch at %d: rolled %08x, recomputed %08x", i, sum, want)
		}
	}
	return nil
}
