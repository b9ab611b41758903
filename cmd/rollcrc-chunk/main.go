// Package main provides the rollcrc-chunk tool, which splits files into
// content-defined chunks and optionally stores them deduplicated.
//
// Usage:
//
//	rollcrc-chunk [flags] FILE...
//
// Each chunk is printed as
//
//	FILE OFFSET LENGTH WEAK STRONG [new|dup]
//
// where WEAK is the chunk's CRC-32 and STRONG its 128-bit fingerprint, both in
// hex. The last column appears only with -db.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aalhour/rollcrc/internal/chunker"
	"github.com/aalhour/rollcrc/internal/chunkstore"
	"github.com/aalhour/rollcrc/internal/compression"
	"github.com/aalhour/rollcrc/internal/input"
	"github.com/aalhour/rollcrc/internal/logging"
)

var (
	dbPath    = flag.String("db", "", "Badger directory for deduplicated chunk storage (optional)")
	compress  = flag.String("compress", "snappy", "Payload compression for -db: none, snappy, zlib, lz4, lz4hc, zstd")
	window    = flag.Int("window", 64, "Rolling window size in bytes")
	minSize   = flag.Int("min", 2<<10, "Minimum chunk size")
	avgSize   = flag.Int("avg", 8<<10, "Average chunk size (power of two)")
	maxSize   = flag.Int("max", 64<<10, "Maximum chunk size")
	logLevel  = flag.String("log-level", "warn", "Log level: error, warn, info, debug")
	showStats = flag.Bool("stats", true, "Print store totals after chunking (with -db)")
	help      = flag.Bool("help", false, "Print help")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	logger := newLogger()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one FILE is required")
		printUsage()
		os.Exit(1)
	}

	opener := &input.Opener{Logger: logger}
	if err := run(os.Stdout, opener, logger, flag.Args()); err != nil {
		logger.Fatalf("%v", err)
	}
}

func printUsage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "rollcrc-chunk - content-defined chunking with rolling CRC-32")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: rollcrc-chunk [flags] FILE...")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
}

func newLogger() logging.Logger {
	level, err := logging.ParseLevel(*logLevel)
	logger := logging.NewCharmLogger(os.Stderr, level, "rollcrc-chunk")
	logger.SetFatalHandler(func(string) { os.Exit(1) })
	if err != nil {
		logger.Warnf("%v", err)
	}
	return logger
}

func chunkerOptions(logger logging.Logger) chunker.Options {
	return chunker.Options{
		Window:  *window,
		MinSize: *minSize,
		AvgSize: *avgSize,
		MaxSize: *maxSize,
		Logger:  logger,
	}
}

// openStore opens the -db store, or returns nil when no path is set.
func openStore(logger logging.Logger) (*chunkstore.Store, error) {
	if *dbPath == "" {
		return nil, nil
	}
	ct, err := compression.ParseType(*compress)
	if err != nil {
		return nil, err
	}
	opts := chunkstore.DefaultOptions(*dbPath)
	opts.Compression = ct
	opts.Logger = logger
	return chunkstore.Open(opts)
}

// run chunks every named input and writes one line per chunk to w.
func run(w io.Writer, opener *input.Opener, logger logging.Logger, names []string) (err error) {
	ch, err := chunker.New(chunkerOptions(logger))
	if err != nil {
		return err
	}
	store, err := openStore(logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { err = errors.Join(err, store.Close()) }()
	}

	out := bufio.NewWriter(w)
	defer out.Flush()

	for _, name := range names {
		if err := chunkFile(out, opener, logger, ch, store, name); err != nil {
			return err
		}
	}

	if store != nil && *showStats {
		st, err := store.Stats()
		if err != nil {
			return err
		}
		logger.Infof(logging.NSStore+"%d chunks, %d bytes raw, %d bytes stored", st.Chunks, st.RawBytes, st.StoredBytes)
	}
	return nil
}

func chunkFile(out *bufio.Writer, opener *input.Opener, logger logging.Logger, ch *chunker.Chunker, store *chunkstore.Store, name string) (err error) {
	r, err := opener.Open(name)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, r.Close()) }()

	var chunks, added int
	for c, cerr := range ch.Split(r) {
		if cerr != nil {
			return fmt.Errorf("%s: %w", name, cerr)
		}
		chunks++
		fmt.Fprintf(out, "%s %d %d %08x %s", name, c.Offset, len(c.Data), c.Weak, c.Strong)
		if store != nil {
			isNew, err := store.Put(c)
			if err != nil {
				return err
			}
			if isNew {
				added++
				fmt.Fprint(out, " new")
			} else {
				fmt.Fprint(out, " dup")
			}
		}
		fmt.Fprintln(out)
	}
	logger.Infof(logging.NSChunk+"%s: %d chunks, %d new", name, chunks, added)
	return nil
}
