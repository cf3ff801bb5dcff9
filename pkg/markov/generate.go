package markov

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"unicode"
)

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	temperature float64
	topK        int
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in Generate and GenerateN.
type GenerateOption func(*generateOptions)

// WithTemperature adjusts the randomness of the symbol selection.
// A value of 1.0 is standard count-weighted random selection.
// Values > 1.0 increase randomness (making less frequent symbols more likely).
// Values < 1.0 decrease randomness (making more frequent symbols even more likely).
// A value of 0 or less results in deterministic selection (always choosing the
// first, most frequent entry).
func WithTemperature(t float64) GenerateOption {
	return func(o *generateOptions) { o.temperature = t }
}

// WithTopK restricts the selection pool to the top `k` most frequent symbols
// at each step. A value of 0 disables Top-K sampling.
func WithTopK(k int) GenerateOption {
	return func(o *generateOptions) { o.topK = k }
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		temperature: 1.0,
		topK:        0,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generate produces a new word of at most length symbols.
//
// A seed window is drawn uniformly from every window in the table and is always
// emitted in full, so the result is never shorter than the chain order even
// when length is smaller. The word is then extended one symbol at a time from
// the distribution of its trailing window until it reaches length or the
// trailing window has never been seen, in which case the shorter word is
// returned without error. The first symbol of the result is upper-cased.
//
// Generate returns ErrUntrained if the table is empty.
func (c *Chain) Generate(length int, opts ...GenerateOption) (string, error) {
	if len(c.keys) == 0 {
		return "", ErrUntrained
	}
	options := newGenerateOptions(opts)

	name := c.keys[c.rng.IntN(len(c.keys))].Symbols()

	for len(name) < length {
		window := NewWindow(name[len(name)-c.order:])
		dist, ok := c.transitions[window]
		if !ok { // Dead end in chain
			c.logger.Debug("Generation terminated due to dead-end",
				slog.String("last_window", window.String()),
				slog.Int("generated_length", len(name)),
				slog.Int("target_length", length),
			)
			break
		}
		name = append(name, chooseNextSymbol(c.rng, dist.entries, dist.total, options))
	}

	name[0] = unicode.ToUpper(name[0])
	return string(name), nil
}

// GenerateN calls Generate count times and collects the results.
func (c *Chain) GenerateN(count, length int, opts ...GenerateOption) ([]string, error) {
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, err := c.Generate(length, opts...)
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// chooseNextSymbol draws one symbol from entries, which must be non-empty and
// sorted by descending count. With the default options an entry of count w is
// chosen with probability w/total.
func chooseNextSymbol(rng *rand.Rand, entries []Entry, total int, options *generateOptions) rune {
	// topK filtering; entries are already in descending order
	if options.topK > 0 && options.topK < len(entries) {
		entries = entries[:options.topK]
		total = 0
		for _, e := range entries {
			total += e.Count
		}
	}

	switch {
	case options.temperature <= 0: // Deterministic
		return entries[0].Symbol
	case options.temperature == 1.0: // Standard weighted random
		randChoice := rng.IntN(total)
		for _, e := range entries {
			randChoice -= e.Count
			if randChoice < 0 {
				return e.Symbol
			}
		}
	default: // Temperature-based sampling
		logProbabilities := make([]float64, len(entries))
		epsilon := math.Inf(-1)
		for i, e := range entries {
			lp := math.Log(float64(e.Count)) / options.temperature
			logProbabilities[i] = lp
			if lp > epsilon {
				epsilon = lp
			}
		}
		var totalWeight float64
		weights := make([]float64, len(entries))
		for i, lp := range logProbabilities {
			w := math.Exp(lp - epsilon)
			weights[i] = w
			totalWeight += w
		}
		randChoice := rng.Float64() * totalWeight
		for i, e := range entries {
			randChoice -= weights[i]
			if randChoice < 0 {
				return e.Symbol
			}
		}
	}
	// Only reachable through float rounding in the temperature branch.
	return entries[len(entries)-1].Symbol
}
