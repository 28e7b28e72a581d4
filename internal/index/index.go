// Package index is the engine that keeps the path ledger and the
// membership set synchronized and answers fuzzy directory queries.
//
// Every operation is one-shot and synchronous. A ledger mutation and the
// conditional membership rebuild it triggers are two separate store
// writes; there is no cross-structure transaction, so a crash between
// them can leave the structures divergent until the next mutation of the
// same path (or RebuildMembership) repairs it. That window is a
// documented property of the design, not a bug to patch silently.
package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/asheshgoplani/beam/internal/logging"
	"github.com/asheshgoplani/beam/internal/matchset"
	"github.com/asheshgoplani/beam/internal/store"
)

var indexLog = logging.ForComponent(logging.CompIndex)

// Options configures an Index.
type Options struct {
	// DataDir is the directory for the backing database. Required unless
	// InMemory.
	DataDir string

	// InMemory opens the backing store without persistence. For tests.
	InMemory bool

	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// Index owns its store handle for its lifetime.
type Index struct {
	store *store.Store
	now   func() time.Time
}

// Open acquires the backing store. The caller must Close the index on
// every exit path.
func Open(opts Options) (*Index, error) {
	s, err := store.Open(store.Options{
		Path:     opts.DataDir,
		InMemory: opts.InMemory,
		Logger:   logging.ForComponent(logging.CompStore),
	})
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Index{store: s, now: now}, nil
}

// Close flushes and releases the backing store.
func (ix *Index) Close() error {
	return ix.store.Close()
}

// Add records a visit to path. The path must be an absolute path to a
// directory that currently exists; it is stored byte-exact, never
// canonicalized, so "/a/b" and "/a/b/c/.." are distinct entries. The
// membership set is rebuilt only when the path was not already indexed.
func (ix *Index) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return &PathNotDirectoryError{Path: path}
	}
	if !filepath.IsAbs(path) {
		return &RelativePathError{Path: path}
	}

	_, existed, err := ix.store.UpsertVisit(path, ix.now())
	if err != nil {
		return err
	}
	if existed {
		// Repeat visit: only the timestamp moved.
		indexLog.Debug("visit refreshed", slog.String("path", path))
		return nil
	}
	indexLog.Debug("path indexed", slog.String("path", path))
	return ix.updateMembership(path, matchset.CombineUnion)
}

// Delete removes path from the index. Deleting a path that was never
// added succeeds without touching anything; the jump loop relies on that
// to stay idempotent.
func (ix *Index) Delete(path string) error {
	existed, err := ix.store.RemoveVisit(path)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}
	indexLog.Debug("path deleted", slog.String("path", path))
	return ix.updateMembership(path, matchset.CombineDifference)
}

// FindAll returns every indexed path the query accepts, in membership-set
// stream order. The result is a candidate set, not a ranking.
func (ix *Index) FindAll(target, exclude string) ([]string, error) {
	return ix.search(target, exclude)
}

// FindOne returns the single best indexed path for target, or ok=false
// when nothing matches. Candidates are scored by fuzzy-match quality;
// score ties are broken by last-visited recency (timestamp lookups are
// bounded to the tie set) and, failing that, deterministically by path.
func (ix *Index) FindOne(target, exclude string) (string, bool, error) {
	if target == "" {
		return "", false, nil
	}

	candidates, err := ix.search(target, exclude)
	if err != nil {
		return "", false, err
	}
	scored := scoreCandidates(candidates, target)
	best, ok, err := ix.bestScore(scored)
	if err != nil || !ok {
		return "", false, err
	}
	return best.path, true, nil
}

// List returns the full ledger in key byte order, not recency order.
func (ix *Index) List() ([]store.Entry, error) {
	return ix.store.Entries()
}

// RebuildMembership reconstructs the membership set from the ledger's
// keys. This is the maintenance escape hatch for the crash window between
// a ledger write and its membership rebuild; it never runs implicitly.
func (ix *Index) RebuildMembership() error {
	entries, err := ix.store.Entries()
	if err != nil {
		return err
	}
	// Ledger iteration is ascending byte order, exactly what the set
	// builder requires.
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	set, err := matchset.FromStrings(paths)
	if err != nil {
		return err
	}
	return ix.store.PutMembershipBlob(set.Bytes())
}

// search runs the composed query against the membership set and returns
// the matching strings in stream order. An empty target short-circuits
// before any matcher is built.
func (ix *Index) search(target, exclude string) ([]string, error) {
	if target == "" {
		return nil, nil
	}

	blob, err := ix.store.MembershipBlob()
	if err != nil {
		return nil, err
	}
	set, err := matchset.Load(blob)
	if err != nil {
		return nil, err
	}

	// Favor recall: a candidate matches when the target is an in-order
	// subsequence or a case-insensitive substring.
	query := matchset.Union(matchset.Subsequence(target), matchset.Substring(target))
	var m matchset.Matcher = query
	if exclude != "" {
		m = matchset.Intersect(query, matchset.Complement(matchset.Exact(exclude)))
	}
	return set.Search(m)
}

func (ix *Index) updateMembership(path string, op matchset.Combinator) error {
	blob, err := ix.store.MembershipBlob()
	if err != nil {
		return err
	}
	existing, err := matchset.Load(blob)
	if err != nil {
		return err
	}
	delta, err := matchset.FromStrings([]string{path})
	if err != nil {
		return err
	}
	next, err := matchset.Rebuild(existing, delta, op)
	if err != nil {
		return err
	}
	return ix.store.PutMembershipBlob(next.Bytes())
}
