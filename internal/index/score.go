package index

import (
	"math"
	"sort"
	"time"

	"github.com/sahilm/fuzzy"
)

// noMatchScore is the defined minimum for candidates the fuzzy matcher
// rejects. They still rank, they just lose to anything that matched.
const noMatchScore = math.MinInt

// candidateScore ranks one search result during a single FindOne call.
// The timestamp is filled in lazily, and only for score ties.
type candidateScore struct {
	path      string
	score     int
	timestamp time.Time
}

// scoreCandidates computes the fuzzy-match quality of every candidate
// against target. A candidate the matcher rejects gets noMatchScore,
// never an error.
func scoreCandidates(candidates []string, target string) []candidateScore {
	scored := make([]candidateScore, len(candidates))
	for i, c := range candidates {
		scored[i] = candidateScore{path: c, score: noMatchScore}
	}
	for _, m := range fuzzy.Find(target, candidates) {
		scored[m.Index].score = m.Score
	}
	return scored
}

// bestScore picks the top-scoring candidate. Timestamp lookups are
// bounded to the tie set rather than the full result set; remaining ties
// break deterministically by path string.
func (ix *Index) bestScore(scored []candidateScore) (candidateScore, bool, error) {
	if len(scored) == 0 {
		return candidateScore{}, false, nil
	}

	max := scored[0].score
	for _, s := range scored[1:] {
		if s.score > max {
			max = s.score
		}
	}

	ties := scored[:0:0]
	for _, s := range scored {
		if s.score == max {
			ties = append(ties, s)
		}
	}

	if len(ties) > 1 {
		for i := range ties {
			ts, found, err := ix.store.GetVisit(ties[i].path)
			if err != nil {
				return candidateScore{}, false, err
			}
			if found {
				ties[i].timestamp = ts
			}
		}
		sort.Slice(ties, func(i, j int) bool {
			if !ties[i].timestamp.Equal(ties[j].timestamp) {
				return ties[i].timestamp.After(ties[j].timestamp)
			}
			return ties[i].path < ties[j].path
		})
	}

	return ties[0], true, nil
}
