package markov

import (
	"bytes"
	"testing"
)

func TestWriteTo(t *testing.T) {
	c := newTestChain(t, 1, "aaab", "ba")

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}

	expected := "a:\n\ta => 2\n\tb => 1\n\nb:\n\ta => 1\n\n"
	if buf.String() != expected {
		t.Errorf("expected listing %q, got %q", expected, buf.String())
	}
	if c.String() != expected {
		t.Errorf("String() = %q, want %q", c.String(), expected)
	}
}

func TestWriteToEmpty(t *testing.T) {
	c := newTestChain(t, 2)
	if s := c.String(); s != "" {
		t.Errorf("expected empty listing for an untrained chain, got %q", s)
	}
}
