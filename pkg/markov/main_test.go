package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode"
)

// newTestChain creates a Chain with a fixed random seed and trains it on texts.
func newTestChain(t *testing.T, order int, texts ...string) *Chain {
	t.Helper()
	c, err := New(order, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("New(%d) error = %v", order, err)
	}
	for _, text := range texts {
		c.Train(text)
	}
	return c
}

// testNames is a small corpus of lowercase names used across tests.
var testNames = []string{
	"aedan", "aidan", "brigid", "bridget", "brennan", "ciaran", "conall",
	"conan", "deirdre", "donal", "eithne", "fergus", "fionn", "niall",
}

// setupTestChainBench creates a seeded chain for benchmarking.
func setupTestChainBench(b *testing.B, order int) *Chain {
	c, err := New(order, WithRand(rand.New(rand.NewPCG(7, 11))))
	if err != nil {
		b.Fatalf("New(%d) error = %v", order, err)
	}
	return c
}

var (
	benchmarkCorpus []string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files and splits them into lowercase
// alphabetic words to create a corpus for benchmarking.
func createBenchmarkCorpus() []string {
	corpusOnce.Do(func() {
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = append(benchmarkCorpus[:0], testNames...)
				return
			}
			words := strings.FieldsFunc(strings.ToLower(string(content)), func(r rune) bool {
				return !unicode.IsLetter(r)
			})
			benchmarkCorpus = append(benchmarkCorpus, words...)
		}
	})
	return benchmarkCorpus
}
