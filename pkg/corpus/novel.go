package corpus

import (
	"github.com/CTAG07/Nomenclator/pkg/markov"
)

// GenerateNovel draws count words of at most length symbols from gen. When
// index is non-nil, words already in the index are discarded and redrawn, up
// to maxAttempts draws per word; a word that cannot be made novel in that many
// draws is skipped, so fewer than count words may be returned.
func GenerateNovel(gen markov.NameGenerator, index *Index, count, length, maxAttempts int, opts ...markov.GenerateOption) ([]string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			name, err := gen.Generate(length, opts...)
			if err != nil {
				return names, err
			}
			if index == nil || !index.Contains(name) {
				names = append(names, name)
				break
			}
		}
	}
	return names, nil
}
