package markov

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
)

var (
	// ErrInvalidOrder is returned by New when the requested order is not positive.
	ErrInvalidOrder = errors.New("markov: chain order must be positive")
	// ErrUntrained is returned by Generate when the chain has no transitions to
	// seed from, either because it was never trained or because every training
	// text was shorter than order+1 symbols.
	ErrUntrained = errors.New("markov: chain has no transitions to generate from")
)

// NameGenerator is the contract shared by every trainable word generator in
// this package.
type NameGenerator interface {
	// Train extends the generator's statistics with one training text.
	Train(text string)
	// Generate produces a new word of at most length symbols.
	Generate(length int, opts ...GenerateOption) (string, error)
}

// Chain is an order-N Markov chain over symbols. It maps every window of N
// consecutive symbols seen during training to the distribution of symbols
// that followed it.
type Chain struct {
	order       int
	transitions map[Window]*Distribution
	// keys records every window in first-seen order so a seed can be drawn
	// uniformly by index.
	keys   []Window
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Chain at construction time.
type Option func(*Chain)

// WithRand sets the random source used for seed selection and sampling.
// Supplying a seeded source makes generation reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(c *Chain) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithLogger sets the logger for the Chain. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty Chain of the given order. The order is fixed for the
// lifetime of the chain.
func New(order int, opts ...Option) (*Chain, error) {
	if order <= 0 {
		return nil, ErrInvalidOrder
	}
	c := &Chain{
		order:       order,
		transitions: make(map[Window]*Distribution),
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetLogger sets the logger for the Chain. A nil logger is ignored.
func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Order returns the number of symbols in each window.
func (c *Chain) Order() int {
	return c.order
}

// Len returns the number of distinct windows in the transition table.
func (c *Chain) Len() int {
	return len(c.keys)
}

// Keys returns every window in the table, in the order they were first seen.
func (c *Chain) Keys() []Window {
	out := make([]Window, len(c.keys))
	copy(out, c.keys)
	return out
}

// Lookup returns a copy of the successor entries recorded for window, sorted
// by descending count. The boolean is false when the window was never seen.
func (c *Chain) Lookup(window string) ([]Entry, bool) {
	dist, ok := c.transitions[Window(window)]
	if !ok {
		return nil, false
	}
	return dist.Entries(), true
}
