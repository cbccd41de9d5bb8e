package fuzzy

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"marylebone", "marylebone", 0},
		{"marylebone", "marleybone", 2},
		{"Kensington", "kensington", 0},
		{"", "abc", 3},
		{"abc", "", 3},
	}
	for _, tc := range cases {
		if got := LevenshteinDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMatchesWord(t *testing.T) {
	if !MatchesWord("reviews for marleybone clinic", "marylebone", 2) {
		t.Error("expected misspelling within 2 edits to match")
	}
	if MatchesWord("reviews for kensington clinic", "marylebone", 2) {
		t.Error("expected unrelated word not to match")
	}
	if !MatchesWord("any complaints about marleybone?", "marylebone", 2) {
		t.Error("expected trailing punctuation to be ignored")
	}
}
