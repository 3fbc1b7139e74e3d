package blockengine

import (
	"context"
	"testing"
)

func materializeInto(t *testing.T, e *Engine, d *Document, text string) []*Block {
	t.Helper()
	blocks, err := e.Materialize(context.Background(), text, MaterializeOptions{})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	d.Append(blocks...)
	return blocks
}

func TestDocumentInvariantsAfterMaterialize(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	materializeInto(t, e, d, "a {{TEXT_BLOCK}} b")
	materializeInto(t, e, d, "c {{FILE_BLOCK}} d")

	if err := d.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestRemoveBlockRules(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "a {{TEXT_BLOCK}} b")

	// Grouped blocks cannot be removed individually, not even the lead.
	if err := d.RemoveBlock(group[1].ID); err == nil {
		t.Fatalf("expected removal of grouped block to fail")
	}
	if err := d.RemoveBlock(group[0].ID); err == nil {
		t.Fatalf("expected removal of grouped lead via RemoveBlock to fail")
	}

	// An ungrouped unlocked block is free to go.
	free := &Block{ID: "free", Kind: KindUserText, Content: "x"}
	d.Append(free)
	if err := d.RemoveBlock("free"); err != nil {
		t.Fatalf("remove ungrouped block: %v", err)
	}

	locked := &Block{ID: "locked", Kind: KindUserText, Locked: true}
	d.Append(locked)
	if err := d.RemoveBlock("locked"); err == nil {
		t.Fatalf("expected removal of locked block to fail")
	}
}

func TestRemoveGroupViaLead(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	first := materializeInto(t, e, d, "a {{TEXT_BLOCK}} b")
	second := materializeInto(t, e, d, "tail")

	if err := d.RemoveGroup(first[1].ID); err == nil {
		t.Fatalf("only the lead may remove the group")
	}
	if err := d.RemoveGroup(first[0].ID); err != nil {
		t.Fatalf("remove group: %v", err)
	}
	if d.Len() != len(second) {
		t.Fatalf("expected only second group to remain, len=%d", d.Len())
	}
	if err := d.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestMoveGroupKeepsContiguity(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	first := materializeInto(t, e, d, "a {{TEXT_BLOCK}} b")
	second := materializeInto(t, e, d, "solo")

	if err := d.MoveGroup(second[0].ID, 0); err != nil {
		t.Fatalf("move group: %v", err)
	}
	if d.Blocks()[0].ID != second[0].ID {
		t.Fatalf("expected moved group first")
	}
	if err := d.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}

	// Non-lead members may not move the group.
	if err := d.MoveGroup(first[1].ID, 0); err == nil {
		t.Fatalf("only the lead may move the group")
	}
}

func TestVisibleBlocksSuppressedDuringRawEdit(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "a {{TEXT_BLOCK}} b")
	other := materializeInto(t, e, d, "other")

	if _, err := d.BeginRawEdit(group[0].ID); err != nil {
		t.Fatalf("begin raw edit: %v", err)
	}

	visible := d.VisibleBlocks()
	want := 1 + len(other)
	if len(visible) != want {
		t.Fatalf("expected %d visible blocks, got %d", want, len(visible))
	}
	if visible[0].ID != group[0].ID {
		t.Fatalf("lead must stay visible during raw edit")
	}
	// Suppressed siblings remain in the document unchanged.
	if d.Len() != len(group)+len(other) {
		t.Fatalf("raw edit must not remove blocks")
	}

	if err := d.CancelRawEdit(group[0].ID); err != nil {
		t.Fatalf("cancel raw edit: %v", err)
	}
	if len(d.VisibleBlocks()) != d.Len() {
		t.Fatalf("expected all blocks visible after cancel")
	}
}

func TestBeginRawEditRequiresLead(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "a {{TEXT_BLOCK}} b")

	if _, err := d.BeginRawEdit(group[1].ID); err == nil {
		t.Fatalf("non-lead must not enter raw edit")
	}
}

func TestRenderConcatenatesInOrder(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	materializeInto(t, e, d, "Hello {{TEXT_BLOCK=world}}!")

	if got := d.Render(); got != "Hello world!" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderFileSet(t *testing.T) {
	d := NewDocument()
	d.Append(&Block{
		ID:                  "fs",
		Kind:                KindFileSet,
		IncludeDirectoryMap: true,
		DirectoryMap:        "root\n└── main.go",
		Files: []FileEntry{
			{Path: "main.go", Content: "package main\n", Language: "go"},
		},
	})

	got := d.Render()
	want := "<file_map>\nroot\n└── main.go\n</file_map>\n\nFile: main.go\n```go\npackage main\n```\n"
	if got != want {
		t.Fatalf("unexpected render:\n%q\nwant:\n%q", got, want)
	}
}
