package markov

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	for _, order := range []int{0, -1} {
		if _, err := New(order); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("New(%d): expected ErrInvalidOrder, got %v", order, err)
		}
	}

	c, err := New(3)
	if err != nil {
		t.Fatalf("New(3) failed: %v", err)
	}
	if c.Order() != 3 || c.Len() != 0 {
		t.Errorf("expected empty chain of order 3, got order %d with %d windows", c.Order(), c.Len())
	}
}

func TestTrain(t *testing.T) {
	testCases := []struct {
		name     string
		order    int
		texts    []string
		expected map[string][]Entry
	}{
		{
			name:  "Order 1 sorts by count",
			order: 1,
			texts: []string{"aaab"},
			expected: map[string][]Entry{
				"a": {{'a', 2}, {'b', 1}},
			},
		},
		{
			name:  "Order 2 alternating",
			order: 2,
			texts: []string{"abab"},
			expected: map[string][]Entry{
				"ab": {{'a', 1}},
				"ba": {{'b', 1}},
			},
		},
		{
			name:     "Text shorter than window",
			order:    3,
			texts:    []string{"abc", "ab", ""},
			expected: map[string][]Entry{},
		},
		{
			name:  "Text exactly one window long",
			order: 3,
			texts: []string{"abcd"},
			expected: map[string][]Entry{
				"abc": {{'d', 1}},
			},
		},
		{
			name:  "Calls are cumulative and re-sorted",
			order: 1,
			texts: []string{"ab", "ac", "ac"},
			expected: map[string][]Entry{
				"a": {{'c', 2}, {'b', 1}},
			},
		},
		{
			name:  "Ties keep the order from before the sort",
			order: 1,
			texts: []string{"ab", "ac", "ac", "ab"},
			expected: map[string][]Entry{
				"a": {{'c', 2}, {'b', 2}},
			},
		},
		{
			name:  "Multi-byte symbols",
			order: 1,
			texts: []string{"éaé"},
			expected: map[string][]Entry{
				"é": {{'a', 1}},
				"a": {{'é', 1}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestChain(t, tc.order, tc.texts...)
			if c.Len() != len(tc.expected) {
				t.Errorf("expected %d windows, got %d", len(tc.expected), c.Len())
			}
			for key, want := range tc.expected {
				got, ok := c.Lookup(key)
				if !ok {
					t.Errorf("expected window %q to exist", key)
					continue
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("window %q: expected %+v, got %+v", key, want, got)
				}
			}
		})
	}
}

func TestTrainKeysFirstSeenOrder(t *testing.T) {
	c := newTestChain(t, 2, "abcab", "zab")
	expected := []Window{"ab", "bc", "ca", "za"}
	if !reflect.DeepEqual(c.Keys(), expected) {
		t.Errorf("expected keys %v, got %v", expected, c.Keys())
	}
}

// TestTrainCountsMatchObservations checks that every window's total equals the
// number of times it was seen as a prefix across all training calls.
func TestTrainCountsMatchObservations(t *testing.T) {
	const order = 2
	c := newTestChain(t, order, testNames...)

	expected := make(map[string]int)
	for _, name := range testNames {
		symbols := []rune(name)
		for i := 0; i+order < len(symbols); i++ {
			expected[string(symbols[i:i+order])]++
		}
	}

	if c.Len() != len(expected) {
		t.Fatalf("expected %d windows, got %d", len(expected), c.Len())
	}
	for key, want := range expected {
		entries, ok := c.Lookup(key)
		if !ok {
			t.Errorf("missing window %q", key)
			continue
		}
		total := 0
		for _, e := range entries {
			total += e.Count
		}
		if total != want {
			t.Errorf("window %q: expected %d observations, got %d", key, want, total)
		}
	}
}

// TestTrainSortInvariant checks that after every call each distribution is
// non-increasing in count, and that entries with equal counts keep the order
// they had before the call, new symbols ranking after existing ones in the
// order they were first observed.
func TestTrainSortInvariant(t *testing.T) {
	c := newTestChain(t, 1)
	texts := append([]string{"ab", "ac", "ac", "ab", "ad", "ab", "ad"}, testNames...)

	for _, text := range texts {
		before := make(map[string]map[rune]int)
		for _, key := range c.Keys() {
			entries, _ := c.Lookup(string(key))
			before[string(key)] = make(map[rune]int, len(entries))
			for i, e := range entries {
				before[string(key)][e.Symbol] = i
			}
		}
		symbols := []rune(text)
		for i := 0; i+1 < len(symbols); i++ {
			key := string(symbols[i])
			if before[key] == nil {
				before[key] = make(map[rune]int)
			}
			if _, ok := before[key][symbols[i+1]]; !ok {
				before[key][symbols[i+1]] = len(before[key])
			}
		}

		c.Train(text)

		for _, key := range c.Keys() {
			entries, _ := c.Lookup(string(key))
			pos := before[string(key)]
			for i := 1; i < len(entries); i++ {
				prev, cur := entries[i-1], entries[i]
				if prev.Count < cur.Count {
					t.Fatalf("after %q: window %q not sorted: %+v", text, key, entries)
				}
				if prev.Count == cur.Count && pos[prev.Symbol] > pos[cur.Symbol] {
					t.Fatalf("after %q: window %q tie out of prior order: %+v", text, key, entries)
				}
			}
		}
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := createBenchmarkCorpus()

	for _, order := range []int{1, 2, 3, 4, 5} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			var size int64
			for _, word := range corpus {
				size += int64(len(word))
			}
			b.SetBytes(size)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				c := setupTestChainBench(b, order)
				c.TrainAll(corpus)
			}
		})
	}
}
