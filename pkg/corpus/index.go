package corpus

import (
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Index is a set of known corpus entries backed by a patricia trie, counting
// how often each entry was added. It is safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	trie *patricia.Trie
	size int
}

// NewIndex creates an Index holding entries.
func NewIndex(entries ...string) *Index {
	ix := &Index{trie: patricia.NewTrie()}
	for _, entry := range entries {
		ix.Add(entry)
	}
	return ix
}

// Add records one occurrence of entry, compared case-insensitively. It reports
// whether the entry was new. Empty entries are ignored.
func (ix *Index) Add(entry string) bool {
	entry = strings.ToLower(entry)
	if entry == "" {
		return false
	}
	key := patricia.Prefix(entry)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if item := ix.trie.Get(key); item != nil {
		ix.trie.Set(key, item.(int)+1)
		return false
	}
	ix.trie.Insert(key, 1)
	ix.size++
	return true
}

// Contains reports whether entry is known, compared case-insensitively, so a
// capitalized generated word matches its lowercase corpus entry.
func (ix *Index) Contains(entry string) bool {
	return ix.Count(entry) > 0
}

// Count returns how many times entry was added.
func (ix *Index) Count(entry string) int {
	entry = strings.ToLower(entry)
	if entry == "" {
		return 0
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if item := ix.trie.Get(patricia.Prefix(entry)); item != nil {
		return item.(int)
	}
	return 0
}

// WithPrefix returns every known entry starting with prefix, including prefix
// itself when it is an entry.
func (ix *Index) WithPrefix(prefix string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var entries []string
	_ = ix.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(p patricia.Prefix, _ patricia.Item) error {
		entries = append(entries, string(p))
		return nil
	})
	return entries
}

// Len returns the number of distinct entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.size
}
