package textutil

import (
	"math"
	"testing"
)

func TestSimilarityIdentical(t *testing.T) {
	for _, s := range []string{"", "OK Computer", "Kid A", "ÁÉÍ"} {
		if got := Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Radiohead", "Radio head"},
		{"OK Computer", "OK Computrr"},
		{"abc", "xyz"},
		{"", "something"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"a", ""},
		{"completely", "different"},
		{"The Bends", "The Bends (Deluxe)"},
	}
	for _, tc := range cases {
		got := Similarity(tc.a, tc.b)
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", tc.a, tc.b, got)
		}
	}
}

func TestSimilarityCaseInsensitive(t *testing.T) {
	if got := Similarity("OK COMPUTER", "ok computer"); got != 1 {
		t.Fatalf("expected case-folded match to score 1, got %v", got)
	}
}

func TestSimilarityOneEdit(t *testing.T) {
	got := Similarity("OK Computer", "OK Computrr")
	want := 1 - 1.0/11.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Similarity = %v, want %v", got, want)
	}
	if got <= 0.85 {
		t.Fatalf("one-character edit should score above 0.85, got %v", got)
	}
}

func TestSimilarityEmptyVsNonEmpty(t *testing.T) {
	if got := Similarity("", "abc"); got != 0 {
		t.Fatalf("Similarity(\"\", \"abc\") = %v, want 0", got)
	}
}
