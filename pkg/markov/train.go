package markov

import (
	"log/slog"
)

// Train slides a window of order+1 symbols across text. For every position the
// first order symbols form the key and the last symbol is recorded as an
// observed successor. Texts shorter than order+1 symbols add nothing.
//
// Calls are cumulative. After each call, every distribution touched by it is
// re-sorted by descending count with a stable tie-break; untouched
// distributions are already in that order.
func (c *Chain) Train(text string) {
	symbols := []rune(text)
	if len(symbols) <= c.order {
		c.logger.Debug("Training text shorter than chain window, skipped",
			slog.Int("order", c.order),
			slog.Int("symbols", len(symbols)),
		)
		return
	}

	touched := make(map[Window]*Distribution)
	for i := 0; i+c.order < len(symbols); i++ {
		key := NewWindow(symbols[i : i+c.order])
		next := symbols[i+c.order]

		dist, ok := c.transitions[key]
		if !ok {
			dist = &Distribution{}
			c.transitions[key] = dist
			c.keys = append(c.keys, key)
		}
		dist.Observe(next)
		touched[key] = dist
	}

	for _, dist := range touched {
		dist.Resort()
	}
}

// TrainAll trains the chain on each text in turn.
func (c *Chain) TrainAll(texts []string) {
	before := len(c.keys)
	for _, text := range texts {
		c.Train(text)
	}

	c.logger.Info("Training completed",
		slog.Int("order", c.order),
		slog.Int("texts_processed", len(texts)),
		slog.Int("windows_added", len(c.keys)-before),
		slog.Int("windows_total", len(c.keys)),
	)
}
