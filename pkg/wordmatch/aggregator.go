package wordmatch

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Aggregator accumulates matches from any number of concurrent producers
// into one deduplicated set keyed by (candidate, lookup). Every mutation
// takes a single short lock window; re-adding a known pair is a no-op, so
// the content after any interleaving is the union of everything added.
type Aggregator struct {
	mu       sync.Mutex
	byLookup map[string]*redblacktree.Tree
	size     int
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		byLookup: make(map[string]*redblacktree.Tree),
	}
}

// Add unions one match into the set.
func (a *Aggregator) Add(m Match) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.add(m)
}

// AddAll unions a batch of matches atomically: concurrent readers observe
// either none or all of it.
func (a *Aggregator) AddAll(matches []Match) {
	if len(matches) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, m := range matches {
		a.add(m)
	}
}

// add requires a.mu to be held.
func (a *Aggregator) add(m Match) {
	candidates, ok := a.byLookup[m.Lookup]
	if !ok {
		candidates = redblacktree.NewWithStringComparator()
		a.byLookup[m.Lookup] = candidates
	}

	if _, exists := candidates.Get(m.Candidate); exists {
		return
	}
	candidates.Put(m.Candidate, nil)
	a.size++
}

// Size is the number of distinct (candidate, lookup) pairs added so far.
func (a *Aggregator) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.size
}

// Snapshot returns the current contents grouped by lookup word, each
// bucket holding the distinct matched candidates in sorted order. The
// returned map is a copy and stays stable while producers keep adding.
func (a *Aggregator) Snapshot() map[string][]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := make(map[string][]string, len(a.byLookup))
	for lookup, candidates := range a.byLookup {
		words := make([]string, 0, candidates.Size())
		for _, key := range candidates.Keys() {
			words = append(words, key.(string))
		}
		snap[lookup] = words
	}
	return snap
}
