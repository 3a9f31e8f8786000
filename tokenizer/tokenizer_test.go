package tokenizer

import "testing"

func TestHeuristicCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"12345678", 2},
	}
	for _, c := range cases {
		if got := (Heuristic{}).Count(c.text); got != c.want {
			t.Errorf("Count(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestTiktokenFallsBack(t *testing.T) {
	// A bogus encoding name can never load, so the estimator must fall
	// back to the heuristic instead of failing.
	est := NewTiktoken("no_such_encoding")
	if got := est.Count("abcdefgh"); got != 2 {
		t.Errorf("Count = %d, want heuristic fallback 2", got)
	}
}

func TestTiktokenDefaultEncoding(t *testing.T) {
	est := NewTiktoken("")
	if est.encoding != "cl100k_base" {
		t.Errorf("Default encoding = %q", est.encoding)
	}
}
