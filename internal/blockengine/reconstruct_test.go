package blockengine

import (
	"context"
	"testing"
)

func roundTrip(t *testing.T, text string) string {
	t.Helper()
	e := newTestEngine(nil, nil)
	blocks, err := e.Materialize(context.Background(), text, MaterializeOptions{})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	return Reconstruct(blocks[0].GroupID, blocks)
}

func TestReconstructRoundTripReservedOnly(t *testing.T) {
	text := "{{TEXT_BLOCK=hello}}{{FILE_BLOCK}}"
	if got := roundTrip(t, text); got != text {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestReconstructRoundTripMixed(t *testing.T) {
	text := "Intro text {{TEXT_BLOCK=Say hi}} more text"
	if got := roundTrip(t, text); got != text {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestReconstructRoundTripAllKinds(t *testing.T) {
	text := "a{{TEXT_BLOCK=x}}b{{FILE_BLOCK}}c{{TEMPLATE_BLOCK=t}}d{{PROMPT_RESPONSE=r.txt}}e"
	if got := roundTrip(t, text); got != text {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestReconstructEmptyUserText(t *testing.T) {
	text := "{{TEXT_BLOCK}}"
	if got := roundTrip(t, text); got != text {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestReconstructNamedReferenceCollapses(t *testing.T) {
	src := &fakeSource{project: map[string]string{"greet": "Hello {{TEXT_BLOCK=there}}!"}}
	e := newTestEngine(src, nil)

	blocks, err := e.Materialize(context.Background(), "pre {{greet}} post", MaterializeOptions{})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}

	got := Reconstruct(blocks[0].GroupID, blocks)
	if got != "pre {{greet}} post" {
		t.Fatalf("expected the reference name to be recovered, got %q", got)
	}
}

func TestReconstructAdjacentReferenceExpansions(t *testing.T) {
	src := &fakeSource{project: map[string]string{"p": "xy"}}
	e := newTestEngine(src, nil)

	blocks, err := e.Materialize(context.Background(), "{{p}}{{p}}", MaterializeOptions{})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}

	got := Reconstruct(blocks[0].GroupID, blocks)
	if got != "{{p}}{{p}}" {
		t.Fatalf("adjacent expansions must each survive, got %q", got)
	}
}

func TestReconstructFiltersOtherGroups(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()

	first := materializeInto(t, e, d, "first")
	materializeInto(t, e, d, "second")

	if got := d.ReconstructGroup(first[0].GroupID); got != "first" {
		t.Fatalf("expected only first group's text, got %q", got)
	}
}

func TestReconstructUnresolvedReferenceStaysLiteral(t *testing.T) {
	text := "keep {{UNKNOWN_REF}} literal"
	if got := roundTrip(t, text); got != text {
		t.Fatalf("round trip mismatch: %q", got)
	}
}
