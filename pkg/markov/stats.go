package markov

// Stats holds aggregated statistics for a Chain's transition table.
type Stats struct {
	Order        int // The number of symbols in each window
	Windows      int // The number of distinct windows (table keys)
	Transitions  int // The number of unique window->symbol links
	Observations int // The sum of all counts; the total number of trained transitions
	MaxFanOut    int // The largest number of distinct successors of any one window
}

// Stats returns a snapshot of statistics for the transition table.
func (c *Chain) Stats() Stats {
	stats := Stats{
		Order:   c.order,
		Windows: len(c.keys),
	}
	for _, dist := range c.transitions {
		stats.Transitions += dist.Len()
		stats.Observations += dist.Total()
		if dist.Len() > stats.MaxFanOut {
			stats.MaxFanOut = dist.Len()
		}
	}
	return stats
}
