package tokens

import "testing"

func TestEstimateFallback(t *testing.T) {
	if got := EstimateFallback(""); got != 0 {
		t.Fatalf("empty text must estimate to 0, got %d", got)
	}
	if got := EstimateFallback("abcd"); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := EstimateFallback("abcde"); got != 2 {
		t.Fatalf("expected rounding up, got %d", got)
	}
}

func TestEstimateUnknownModelFallsBack(t *testing.T) {
	// An unmappable model name must degrade to the heuristic instead of
	// failing.
	if got := Estimate("abcdefgh", "no-such-model"); got != 2 {
		t.Fatalf("expected fallback estimate 2, got %d", got)
	}
}
