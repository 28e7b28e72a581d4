package index

import (
	"log/slog"
	"os"
)

// Jump resolves target to the best matching directory that still exists
// on disk. Search itself never touches the filesystem; when a winner
// turns out to have vanished, Jump deletes it from the index and retries,
// so stale entries heal themselves. When every candidate is exhausted it
// fails with NoResultsError.
func (ix *Index) Jump(target, exclude string) (string, error) {
	pruned := ""
	for {
		path, ok, err := ix.FindOne(target, exclude)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", &NoResultsError{Pattern: target}
		}
		// A winner that survived its own prune means the membership set
		// holds a path the ledger no longer knows; bail instead of
		// spinning on it.
		if path == pruned {
			return "", &NoResultsError{Pattern: target}
		}

		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			return path, nil
		}

		indexLog.Debug("pruning dead entry", slog.String("path", path))
		if err := ix.Delete(path); err != nil {
			return "", err
		}
		pruned = path
	}
}
