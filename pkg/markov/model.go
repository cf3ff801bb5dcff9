package markov

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteTo writes a human-readable listing of the transition table to w.
// Windows appear in first-seen order, each followed by its successors in
// descending count order:
//
//	bri:
//		g => 2
//		d => 1
func (c *Chain) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for _, key := range c.keys {
		n, err := fmt.Fprintf(bw, "%s:\n", key)
		written += int64(n)
		if err != nil {
			return written, err
		}
		for _, e := range c.transitions[key].entries {
			n, err = fmt.Fprintf(bw, "\t%c => %d\n", e.Symbol, e.Count)
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
		n, err = bw.WriteString("\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// String returns the same listing as WriteTo.
func (c *Chain) String() string {
	var sb strings.Builder
	_, _ = c.WriteTo(&sb)
	return sb.String()
}
