package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOverlap_Identical(t *testing.T) {
	s := "machine learning models require large training datasets"
	if got := Overlap(s, s); !almostEqual(got, 1.0) {
		t.Errorf("Overlap(s, s) = %f, want 1.0", got)
	}
}

func TestOverlap_Disjoint(t *testing.T) {
	if got := Overlap("quantum entanglement physics", "medieval castle architecture"); !almostEqual(got, 0) {
		t.Errorf("Overlap of disjoint texts = %f, want 0", got)
	}
}

func TestOverlap_EmptySides(t *testing.T) {
	if got := Overlap("", "some words here"); got != 0 {
		t.Errorf("Overlap with empty side = %f, want 0", got)
	}
	if got := Overlap("the is a", "some words here"); got != 0 {
		t.Errorf("Overlap with stop-word-only side = %f, want 0", got)
	}
}

func TestOverlap_Containment(t *testing.T) {
	chunk := "the solar system contains eight planets orbiting the sun along with countless asteroids"
	snippet := "eight planets orbiting"
	// Every meaningful snippet token appears in the chunk, so the overlap
	// coefficient scores full containment.
	if got := Overlap(chunk, snippet); !almostEqual(got, 1.0) {
		t.Errorf("Overlap containment = %f, want 1.0", got)
	}
}

func TestOverlap_Symmetric(t *testing.T) {
	a := "the quick brown fox jumps over the lazy dog"
	b := "a lazy dog sleeps while the quick fox runs"
	if x, y := Overlap(a, b), Overlap(b, a); !almostEqual(x, y) {
		t.Errorf("Overlap not symmetric: %f vs %f", x, y)
	}
}

func TestNGram_Symmetric(t *testing.T) {
	a := "the quick brown fox jumps over the lazy dog tonight"
	b := "quick brown fox jumps over lazy dog tonight again"
	if x, y := NGram(a, b, DefaultNGramSize), NGram(b, a, DefaultNGramSize); !almostEqual(x, y) {
		t.Errorf("NGram not symmetric: %f vs %f", x, y)
	}
}

func TestNGram_SelfSimilarity(t *testing.T) {
	s := "continental drift reshaped earth over millions of years"
	if got := NGram(s, s, DefaultNGramSize); !almostEqual(got, 1.0) {
		t.Errorf("NGram(s, s) = %f, want 1.0", got)
	}
}

func TestNGram_FallsBackBelowN(t *testing.T) {
	// Two meaningful tokens per side, below the trigram floor.
	a := "brown fox"
	b := "brown fox"
	ngram := NGram(a, b, DefaultNGramSize)
	overlap := Overlap(a, b)
	if !almostEqual(ngram, overlap) {
		t.Errorf("Expected fallback to overlap score %f, got %f", overlap, ngram)
	}
}

func TestCombined_SelfSimilarity(t *testing.T) {
	s := "continental drift reshaped the surface of earth over millions of years"
	if got := Combined(s, s); !almostEqual(got, 1.0) {
		t.Errorf("Combined(s, s) = %f, want 1.0", got)
	}
}

func TestCombined_NearExactPhraseShortCircuits(t *testing.T) {
	chunk := "The quick brown fox jumps over the lazy dog"
	snippet := "quick brown fox jumps over lazy dog"

	ngram := NGram(chunk, snippet, DefaultNGramSize)
	if ngram <= 0.5 {
		t.Fatalf("Expected decisive n-gram score (>0.5) for near-exact match, got %f", ngram)
	}
	if got := Combined(chunk, snippet); !almostEqual(got, ngram) {
		t.Errorf("Expected combined score to short-circuit to n-gram score %f, got %f", ngram, got)
	}
	if got := Combined(chunk, snippet); got <= 0.30 {
		t.Errorf("Near-exact match combined score %f should exceed the 0.30 threshold", got)
	}
}

func TestCombined_WeightedBlend(t *testing.T) {
	// Shared vocabulary but no shared trigram: ngram stays low so the
	// blend path (0.4*overlap + 0.6*ngram) applies.
	a := "solar panels convert sunlight efficiently into usable power"
	b := "power sunlight panels generate electricity homes solar rooftop"
	overlap := Overlap(a, b)
	ngram := NGram(a, b, DefaultNGramSize)
	if ngram > 0.5 {
		t.Fatalf("Test fixture broken: ngram %f unexpectedly decisive", ngram)
	}
	want := overlap*0.4 + ngram*0.6
	if got := Combined(a, b); !almostEqual(got, want) {
		t.Errorf("Combined = %f, want %f", got, want)
	}
}

func TestIsSubstantial(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "three shared meaningful words",
			a:    "renewable energy sources reduce carbon emissions",
			b:    "carbon emissions drop with renewable sources",
			want: true,
		},
		{
			name: "only stop words shared",
			a:    "the cat is here",
			b:    "the dog is there",
			want: false,
		},
		{
			name: "two shared words insufficient",
			a:    "brown fox runs",
			b:    "brown fox sleeps",
			want: false,
		},
		{
			name: "empty sides",
			a:    "",
			b:    "anything at all",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubstantial(tt.a, tt.b); got != tt.want {
				t.Errorf("IsSubstantial(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
