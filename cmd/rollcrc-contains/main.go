// Package main provides the rollcrc-contains tool, which reports every
// position at which a target string occurs in its inputs.
//
// Usage:
//
//	rollcrc-contains [flags] TARGET [FILE...]
//
// With no files, standard input is searched and each match is printed as its
// zero-based byte offset. For files, matches are printed as "FILE: OFFSET".
// Compressed inputs (.sz, .zz, .lz4, .zst) are decoded on the fly.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aalhour/rollcrc"
	"github.com/aalhour/rollcrc/internal/input"
	"github.com/aalhour/rollcrc/internal/logging"
	"github.com/aalhour/rollcrc/internal/scan"
)

var (
	verify   = flag.Bool("verify", true, "Compare window bytes on checksum hits to rule out CRC collisions")
	logLevel = flag.String("log-level", "warn", "Log level: error, warn, info, debug")
	help     = flag.Bool("help", false, "Print help")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	logger := newLogger()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: TARGET is required")
		printUsage()
		os.Exit(1)
	}

	opener := &input.Opener{Logger: logger}
	if err := run(os.Stdout, opener, logger, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Fatalf("%v", err)
	}
}

func printUsage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "rollcrc-contains - find a string in files by rolling CRC-32")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: rollcrc-contains [flags] TARGET [FILE...]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
}

func newLogger() logging.Logger {
	level, err := logging.ParseLevel(*logLevel)
	logger := logging.NewCharmLogger(os.Stderr, level, "rollcrc-contains")
	logger.SetFatalHandler(func(string) { os.Exit(1) })
	if err != nil {
		logger.Warnf("%v", err)
	}
	return logger
}

// run searches each named input for target and writes matches to w.
// No names means standard input.
func run(w io.Writer, opener *input.Opener, logger logging.Logger, target string, names []string) error {
	finder, err := scan.NewFinder([]byte(target), scan.Options{Verify: *verify, Logger: logger})
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	defer out.Flush()

	if len(names) == 0 {
		return search(out, opener, finder, input.Stdin, "")
	}
	for _, name := range names {
		if err := search(out, opener, finder, name, name+": "); err != nil {
			return err
		}
	}
	return nil
}

func search(out *bufio.Writer, opener *input.Opener, finder *scan.Finder, name, prefix string) (err error) {
	r, err := opener.Open(name)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, r.Close()) }()

	for pos, ferr := range finder.Find(rollcrc.Bytes(bufio.NewReader(r))) {
		if ferr != nil {
			return fmt.Errorf("%s: %w", name, ferr)
		}
		if _, err := fmt.Fprintf(out, "%s%d\n", prefix, pos); err != nil {
			return err
		}
	}
	return nil
}
