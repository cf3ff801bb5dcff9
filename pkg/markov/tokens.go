package markov

import (
	"sort"
	"unicode/utf8"
)

// Window is an ordered run of symbols used as a transition table key. It is
// backed by a string so that two windows are equal exactly when their
// symbols are equal, element by element and in order.
type Window string

// NewWindow builds a Window from a slice of symbols.
func NewWindow(symbols []rune) Window {
	return Window(symbols)
}

// Len returns the number of symbols in the window.
func (w Window) Len() int {
	return utf8.RuneCountInString(string(w))
}

// Symbols returns a copy of the window's symbols.
func (w Window) Symbols() []rune {
	return []rune(string(w))
}

func (w Window) String() string {
	return string(w)
}

// Entry is a single observed successor symbol and the number of times it was
// seen following a window.
type Entry struct {
	Symbol rune
	Count  int
}

// Distribution is the ordered list of successors observed after one window.
// It holds at most one Entry per symbol, and every Entry has a count of at
// least one.
type Distribution struct {
	entries []Entry
	total   int
}

// Observe records one more occurrence of symbol. A symbol seen for the first
// time is appended with a count of 1, after every symbol already present.
func (d *Distribution) Observe(symbol rune) {
	d.total++
	for i := range d.entries {
		if d.entries[i].Symbol == symbol {
			d.entries[i].Count++
			return
		}
	}
	d.entries = append(d.entries, Entry{Symbol: symbol, Count: 1})
}

// Resort orders the entries by descending count. The sort is stable, so
// entries with equal counts keep their current relative order.
func (d *Distribution) Resort() {
	sort.SliceStable(d.entries, func(i, j int) bool {
		return d.entries[i].Count > d.entries[j].Count
	})
}

// Entries returns a copy of the distribution's entries in their current order.
func (d *Distribution) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of distinct successor symbols.
func (d *Distribution) Len() int {
	return len(d.entries)
}

// Total returns the sum of all counts, i.e. the number of observations.
func (d *Distribution) Total() int {
	return d.total
}
