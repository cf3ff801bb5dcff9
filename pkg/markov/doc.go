/*
Package markov provides an in-memory, character-level Markov chain for
generating plausible novel words such as names.

A Chain of order N learns, for every run of N symbols seen in its training
text, how often each symbol followed that run. Generation picks one of the
learned runs at random as a seed and then repeatedly draws the next symbol
weighted by those observed counts, stopping once the requested length is
reached or the chain runs into a run it has never seen.

	chain, err := markov.New(3)
	if err != nil {
		return err
	}
	chain.TrainAll([]string{"brigid", "bridget", "brennan"})
	name, err := chain.Generate(7)

A Chain is not safe for concurrent use. Wrap it in a SyncChain when it must be
shared between goroutines.
*/
package markov
