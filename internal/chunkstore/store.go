// Package chunkstore keeps deduplicated chunks in a badger database, keyed by
// their fingerprint.
//
// Each chunk is stored once. Payloads are compressed with the configured
// codec and carry the CRC-32 of the raw bytes, which Get checks on the way
// out.
//
// Record layout:
//
//	+------+-----------------+-------------------+---------+
//	| type | weak (fixed32)  | raw len (varint64)| payload |
//	+------+-----------------+-------------------+---------+
package chunkstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/aalhour/rollcrc/internal/checksum"
	"github.com/aalhour/rollcrc/internal/chunker"
	"github.com/aalhour/rollcrc/internal/compression"
	"github.com/aalhour/rollcrc/internal/logging"
)

var (
	// ErrNotFound is returned when no chunk has the requested fingerprint.
	ErrNotFound = errors.New("chunkstore: chunk not found")

	// ErrCorrupt is returned when a stored record fails to decode or its
	// payload no longer matches the recorded CRC.
	ErrCorrupt = errors.New("chunkstore: corrupt record")

	// ErrInvalidOptions is returned for unusable Options.
	ErrInvalidOptions = errors.New("chunkstore: invalid options")
)

const (
	chunkPrefix = "c/"
	statsKey    = "m/stats"
)

// Options configures a Store.
type Options struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory; nothing is written to disk.
	InMemory bool

	// Compression is applied to payloads on Put.
	Compression compression.Type

	// Logger receives store events and badger's own log output.
	Logger logging.Logger
}

// DefaultOptions returns Options for an on-disk store at path with snappy
// compressed payloads.
func DefaultOptions(path string) Options {
	return Options{Path: path, Compression: compression.SnappyCompression}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if !o.InMemory && o.Path == "" {
		return fmt.Errorf("%w: path required for an on-disk store", ErrInvalidOptions)
	}
	if !o.Compression.IsSupported() {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Compression)
	}
	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	// Chunks is the number of distinct chunks stored.
	Chunks uint64
	// RawBytes is the total uncompressed size of stored chunks.
	RawBytes uint64
	// StoredBytes is the total size of stored records.
	StoredBytes uint64
}

// Store is a chunk store. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	opts   Options
	logger logging.Logger

	// mu serializes writers so the stats record never sees a txn conflict.
	mu sync.Mutex
}

// Open opens or creates a store.
func Open(opts Options) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := logging.OrDefault(opts.Logger)

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{logger})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: open %q: %w", opts.Path, err)
	}
	logger.Debugf(logging.NSStore+"opened %q (in-memory=%v, compression=%s)", opts.Path, opts.InMemory, opts.Compression)
	return &Store{db: db, opts: opts, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func chunkKey(fp checksum.Fingerprint) []byte {
	return append([]byte(chunkPrefix), fp[:]...)
}

// Put stores c unless a chunk with the same fingerprint is already present.
// It reports whether the chunk was new.
func (s *Store) Put(c chunker.Chunk) (bool, error) {
	rec, err := encodeRecord(s.opts.Compression, c.Weak, c.Data)
	if err != nil {
		return false, err
	}
	key := chunkKey(c.Strong)

	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		st, err := readStats(txn)
		if err != nil {
			return err
		}
		st.Chunks++
		st.RawBytes += uint64(len(c.Data))
		st.StoredBytes += uint64(len(rec))

		if err := txn.SetEntry(badger.NewEntry(key, rec)); err != nil {
			return err
		}
		added = true
		return txn.Set([]byte(statsKey), encodeStats(st))
	})
	if err != nil {
		return false, fmt.Errorf("chunkstore: put %s: %w", c.Strong, err)
	}
	if added {
		s.logger.Debugf(logging.NSStore+"put %s: %d bytes as %d", c.Strong, len(c.Data), len(rec))
	}
	return added, nil
}

// Get returns the raw bytes of the chunk with fingerprint fp.
func (s *Store) Get(fp checksum.Fingerprint) ([]byte, error) {
	var rec []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(fp))
		if err != nil {
			return err
		}
		rec, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fp)
	}
	if err != nil {
		return nil, fmt.Errorf("chunkstore: get %s: %w", fp, err)
	}

	data, err := decodeRecord(rec)
	if err != nil {
		s.logger.Errorf(logging.NSStore+"chunk %s: %v", fp, err)
		return nil, fmt.Errorf("chunk %s: %w", fp, err)
	}
	return data, nil
}

// Has reports whether a chunk with fingerprint fp is stored.
func (s *Store) Has(fp checksum.Fingerprint) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(chunkKey(fp))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("chunkstore: has %s: %w", fp, err)
	}
	return true, nil
}

// Stats returns the running totals for the store.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		st, err = readStats(txn)
		return err
	})
	return st, err
}

// Verify decodes every stored chunk and checks it against its CRC and
// fingerprint. It returns the number of chunks checked and the fingerprints
// of the ones that failed.
func (s *Store) Verify() (checked int, bad []checksum.Fingerprint, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var fp checksum.Fingerprint
			copy(fp[:], item.Key()[len(chunkPrefix):])

			err := item.Value(func(val []byte) error {
				data, err := decodeRecord(val)
				if err != nil || checksum.NewFingerprint(data) != fp {
					bad = append(bad, fp)
				}
				return nil
			})
			if err != nil {
				return err
			}
			checked++
		}
		return nil
	})
	if len(bad) > 0 {
		s.logger.Warnf(logging.NSStore+"verify: %d of %d chunks corrupt", len(bad), checked)
	}
	return checked, bad, err
}

func readStats(txn *badger.Txn) (Stats, error) {
	item, err := txn.Get([]byte(statsKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	err = item.Value(func(val []byte) error {
		var ok bool
		st, ok = decodeStats(val)
		if !ok {
			return fmt.Errorf("%w: stats record", ErrCorrupt)
		}
		return nil
	})
	return st, err
}

// badgerLogger routes badger's log output into a logging.Logger.
type badgerLogger struct {
	logging.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.Logger.Errorf(logging.NSStore+format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Logger.Warnf(logging.NSStore+format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.Logger.Debugf(logging.NSStore+format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.Logger.Debugf(logging.NSStore+format, args...)
}
