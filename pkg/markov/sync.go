package markov

import (
	"io"
	"math/rand/v2"
	"sync"
)

// SyncChain guards a Chain for use by several goroutines. Training takes the
// write lock; generation only reads the table and takes the read lock, so any
// number of generators may run at once.
type SyncChain struct {
	mu    sync.RWMutex
	chain *Chain
}

// lockedSource serializes access to a random source, since concurrent
// generators all draw from the chain's single source.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// NewSyncChain wraps c. The SyncChain takes ownership of c; the caller must not
// use c directly afterwards.
func NewSyncChain(c *Chain) *SyncChain {
	c.rng = rand.New(&lockedSource{src: c.rng})
	return &SyncChain{chain: c}
}

// Train trains the underlying chain under the write lock.
func (s *SyncChain) Train(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain.Train(text)
}

// TrainAll trains the underlying chain on every text under a single write lock.
func (s *SyncChain) TrainAll(texts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain.TrainAll(texts)
}

// Generate generates a word under the read lock.
func (s *SyncChain) Generate(length int, opts ...GenerateOption) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.Generate(length, opts...)
}

// GenerateN generates count words under a single read lock.
func (s *SyncChain) GenerateN(count, length int, opts ...GenerateOption) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.GenerateN(count, length, opts...)
}

// Order returns the order of the underlying chain.
func (s *SyncChain) Order() int {
	return s.chain.order
}

// Stats returns a snapshot of the underlying chain's statistics.
func (s *SyncChain) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.Stats()
}

// WriteTo writes the underlying chain's table listing to w.
func (s *SyncChain) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.WriteTo(w)
}

var (
	_ NameGenerator = (*Chain)(nil)
	_ NameGenerator = (*SyncChain)(nil)
)
