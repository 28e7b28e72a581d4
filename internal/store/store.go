// Package store wraps BadgerDB as the durable, byte-ordered home of the
// path ledger and the serialized membership set. The two live in
// independently-namespaced key ranges ("trees") of one database: the
// ledger maps path string -> last-visited timestamp, and the main tree
// holds a single key with the membership set's serialized image.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes namespace the trees inside the shared keyspace.
const (
	pathsPrefix = "paths!"
	mainPrefix  = "main!"

	// indexKey is the single main-tree key holding the membership blob.
	indexKey = "index"
)

// ErrCorrupt reports stored bytes that fail to decode.
var ErrCorrupt = errors.New("corrupt index data")

// Options configures a Store.
type Options struct {
	// Path is the directory for database files. Required unless InMemory.
	Path string

	// InMemory opens the database without disk persistence. For tests.
	InMemory bool

	// Logger receives badger's internal logging. Nil disables it.
	Logger *slog.Logger
}

// Store owns the badger handle for its lifetime. Safe for concurrent use;
// the engine on top of it is synchronous anyway.
type Store struct {
	db *badger.DB
}

// Entry is one ledger row.
type Entry struct {
	Path        string    `json:"path"`
	LastVisited time.Time `json:"lastVisited"`
}

// Open creates or opens the database. The caller must Close it.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("store: path is required for a persistent database")
	}

	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0700); err != nil {
			return nil, fmt.Errorf("store: create data directory: %w", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithSyncWrites(true)
	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close database: %w", err)
	}
	return nil
}

// --- Path ledger ---

// GetVisit returns the last-visited timestamp recorded for path.
func (s *Store) GetVisit(path string) (time.Time, bool, error) {
	var ts time.Time
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pathKey(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		ts, err = decodeTimestamp(val)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("store: get visit %q: %w", path, err)
	}
	return ts, found, nil
}

// UpsertVisit records a visit to path at ts. existed reports whether the
// path was already in the ledger; prev is its previous timestamp when it
// was. Callers rebuild the membership set only for new keys.
func (s *Store) UpsertVisit(path string, ts time.Time) (prev time.Time, existed bool, err error) {
	err = s.db.Update(func(txn *badger.Txn) error {
		key := pathKey(path)
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			prev, err = decodeTimestamp(val)
			if err != nil {
				return err
			}
			existed = true
		}
		return txn.Set(key, encodeTimestamp(ts))
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("store: upsert visit %q: %w", path, err)
	}
	return prev, existed, nil
}

// RemoveVisit deletes path from the ledger and reports whether it was
// present. Removing an absent path is not an error.
func (s *Store) RemoveVisit(path string) (bool, error) {
	existed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := pathKey(path)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("store: remove visit %q: %w", path, err)
	}
	return existed, nil
}

// Entries returns the full ledger in ascending key byte order. This is
// not recency order; callers wanting recency must sort.
func (s *Store) Entries() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Prefix = []byte(pathsPrefix)
		it := txn.NewIterator(itOpts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			ts, err := decodeTimestamp(val)
			if err != nil {
				return err
			}
			out = append(out, Entry{
				Path:        string(key[len(pathsPrefix):]),
				LastVisited: ts,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list entries: %w", err)
	}
	return out, nil
}

// --- Membership blob ---

// MembershipBlob returns the serialized membership set, or nil when none
// has been written yet.
func (s *Store) MembershipBlob() ([]byte, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(mainKey(indexKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store: read membership blob: %w", err)
	}
	return blob, nil
}

// PutMembershipBlob replaces the serialized membership set wholesale.
func (s *Store) PutMembershipBlob(blob []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(mainKey(indexKey), blob)
	})
	if err != nil {
		return fmt.Errorf("store: write membership blob: %w", err)
	}
	return nil
}

func pathKey(path string) []byte {
	return append([]byte(pathsPrefix), path...)
}

func mainKey(name string) []byte {
	return append([]byte(mainPrefix), name...)
}

// --- Timestamp codec ---

const timestampLen = 8

// encodeTimestamp serializes t as an 8-byte big-endian UnixNano.
func encodeTimestamp(t time.Time) []byte {
	buf := make([]byte, timestampLen)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return buf
}

func decodeTimestamp(val []byte) (time.Time, error) {
	if len(val) != timestampLen {
		return time.Time{}, fmt.Errorf("timestamp is %d bytes: %w", len(val), ErrCorrupt)
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(val))), nil
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
