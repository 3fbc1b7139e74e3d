package blockengine

import (
	"context"
	"testing"
)

func TestReplaceGroupNoOpPath(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "a {{TEXT_BLOCK=x}} b")
	lead := group[0]

	text, err := d.BeginRawEdit(lead.ID)
	if err != nil {
		t.Fatalf("begin raw edit: %v", err)
	}

	before := d.Blocks()
	if err := e.ReplaceGroup(context.Background(), d, lead.ID, lead.GroupID, text, text, nil); err != nil {
		t.Fatalf("replace: %v", err)
	}

	after := d.Blocks()
	if len(before) != len(after) {
		t.Fatalf("no-op replace must not change block count")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("no-op replace must keep block identity at %d", i)
		}
	}
	if lead.EditingRaw {
		t.Fatalf("no-op replace must clear the raw-edit flag")
	}
}

func TestReplaceGroupPreservesLeadIdentity(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "a {{TEXT_BLOCK=x}} b")
	leadID := group[0].ID
	groupID := group[0].GroupID

	old, err := d.BeginRawEdit(leadID)
	if err != nil {
		t.Fatalf("begin raw edit: %v", err)
	}

	edited := "changed {{FILE_BLOCK}} tail"
	if err := e.ReplaceGroup(context.Background(), d, leadID, groupID, edited, old, nil); err != nil {
		t.Fatalf("replace: %v", err)
	}

	lead, ok := d.GroupLead(groupID)
	if !ok {
		t.Fatalf("group lost its lead")
	}
	if lead.ID != leadID {
		t.Fatalf("lead identity must survive replacement: %q != %q", lead.ID, leadID)
	}
	if lead.EditingRaw {
		t.Fatalf("new lead must start in normal mode")
	}
	if lead.Content != "changed " {
		t.Fatalf("unexpected new lead content: %q", lead.Content)
	}
	if err := d.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestReplaceGroupSplicesInPlace(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	first := materializeInto(t, e, d, "first")
	middle := materializeInto(t, e, d, "m1 {{TEXT_BLOCK}} m2")
	last := materializeInto(t, e, d, "last")

	err := e.ReplaceGroup(context.Background(), d, middle[0].ID, middle[0].GroupID, "replaced", "m1 {{TEXT_BLOCK}} m2", nil)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	blocks := d.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].ID != first[0].ID || blocks[2].ID != last[0].ID {
		t.Fatalf("surrounding groups must keep position and identity")
	}
	if blocks[1].Content != "replaced" {
		t.Fatalf("unexpected replacement content: %q", blocks[1].Content)
	}
}

func TestReplaceGroupMissingGroupAppends(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "original")
	lead := group[0]

	// Remove the group entirely; the replacement should land at the end
	// instead of failing.
	if err := d.RemoveGroup(lead.ID); err != nil {
		t.Fatalf("remove group: %v", err)
	}
	other := materializeInto(t, e, d, "other")

	err := e.ReplaceGroup(context.Background(), d, lead.ID, lead.GroupID, "fresh", "stale", nil)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	blocks := d.Blocks()
	if blocks[len(blocks)-1].Content != "fresh" {
		t.Fatalf("expected replacement appended at end")
	}
	if blocks[0].ID != other[0].ID {
		t.Fatalf("other group must keep its place")
	}
	newLead, ok := d.GroupLead(lead.GroupID)
	if !ok || newLead.ID != lead.ID {
		t.Fatalf("appended replacement must keep the lead id")
	}
}

func TestReplaceGroupMismatchedGroupIsError(t *testing.T) {
	e := newTestEngine(nil, nil)
	d := NewDocument()
	group := materializeInto(t, e, d, "text")

	if err := e.ReplaceGroup(context.Background(), d, group[0].ID, "other-group", "a", "b", nil); err == nil {
		t.Fatalf("expected error for lead outside the named group")
	}
}

func TestDiffStats(t *testing.T) {
	ins, del := DiffStats("hello world", "hello brave world")
	if ins == 0 || del != 0 {
		t.Fatalf("unexpected stats: +%d/-%d", ins, del)
	}
	ins, del = DiffStats("same", "same")
	if ins != 0 || del != 0 {
		t.Fatalf("identical text must diff clean: +%d/-%d", ins, del)
	}
}
