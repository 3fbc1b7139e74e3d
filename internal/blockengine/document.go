package blockengine

import (
	"fmt"
	"strings"

	"github.com/kayz/promptstack/internal/logger"
)

// Document is an ordered sequence of blocks; order is concatenation order
// for the final prompt. All mutation goes through Document methods, which
// enforce the group invariants: one lead per group at rest, contiguous
// group ranges at rest, and lead-only group operations.
//
// A Document is single-writer; it is not safe for concurrent mutation.
type Document struct {
	blocks []*Block
}

func NewDocument() *Document {
	return &Document{}
}

// Blocks returns the underlying block sequence. Callers must treat it as
// read-only; mutation belongs to Document methods.
func (d *Document) Blocks() []*Block {
	return d.blocks
}

func (d *Document) Len() int {
	return len(d.blocks)
}

// BlockByID finds a block anywhere in the document.
func (d *Document) BlockByID(id string) (*Block, bool) {
	for _, b := range d.blocks {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Append adds blocks at the end of the document.
func (d *Document) Append(blocks ...*Block) {
	d.blocks = append(d.blocks, blocks...)
}

// GroupRange returns the index range [start, end) occupied by groupID.
func (d *Document) GroupRange(groupID string) (start, end int, ok bool) {
	start, end = -1, -1
	for i, b := range d.blocks {
		if b.GroupID != groupID {
			continue
		}
		if start == -1 {
			start = i
		}
		end = i + 1
	}
	if start == -1 {
		return 0, 0, false
	}
	return start, end, true
}

// GroupLead returns the lead block of a group.
func (d *Document) GroupLead(groupID string) (*Block, bool) {
	for _, b := range d.blocks {
		if b.GroupID == groupID && b.IsGroupLead {
			return b, true
		}
	}
	return nil, false
}

// GroupMembers returns a group's blocks in document order.
func (d *Document) GroupMembers(groupID string) []*Block {
	var members []*Block
	for _, b := range d.blocks {
		if b.GroupID == groupID {
			members = append(members, b)
		}
	}
	return members
}

// RemoveBlock deletes a single ungrouped, unlocked block. Grouped blocks
// are only removed as a whole group through their lead.
func (d *Document) RemoveBlock(id string) error {
	for i, b := range d.blocks {
		if b.ID != id {
			continue
		}
		if b.GroupID != "" {
			return fmt.Errorf("block %s belongs to group %s; remove the group via its lead", id, b.GroupID)
		}
		if b.Locked {
			return fmt.Errorf("block %s is locked", id)
		}
		d.blocks = append(d.blocks[:i:i], d.blocks[i+1:]...)
		return nil
	}
	return fmt.Errorf("no block with id %s", id)
}

// RemoveGroup deletes a group's full contiguous range. Only the lead is
// authorized to trigger it.
func (d *Document) RemoveGroup(leadID string) error {
	lead, ok := d.BlockByID(leadID)
	if !ok {
		return fmt.Errorf("no block with id %s", leadID)
	}
	if !lead.IsGroupLead {
		return fmt.Errorf("block %s is not a group lead", leadID)
	}
	start, end, ok := d.GroupRange(lead.GroupID)
	if !ok {
		return fmt.Errorf("group %s not found", lead.GroupID)
	}
	d.splice(start, end, nil)
	return nil
}

// MoveBlock moves a single ungrouped, unlocked block to index to.
func (d *Document) MoveBlock(id string, to int) error {
	from := -1
	for i, b := range d.blocks {
		if b.ID == id {
			if b.GroupID != "" {
				return fmt.Errorf("block %s belongs to group %s; move the group via its lead", id, b.GroupID)
			}
			if b.Locked {
				return fmt.Errorf("block %s is locked", id)
			}
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("no block with id %s", id)
	}
	if to < 0 || to >= len(d.blocks) {
		return fmt.Errorf("move target %d out of range", to)
	}
	b := d.blocks[from]
	rest := append(d.blocks[:from:from], d.blocks[from+1:]...)
	d.blocks = append(rest[:to:to], append([]*Block{b}, rest[to:]...)...)
	return nil
}

// MoveGroup moves a group's whole contiguous range so that it starts at
// index to (expressed against the document with the group removed). Only
// the lead is authorized to trigger it.
func (d *Document) MoveGroup(leadID string, to int) error {
	lead, ok := d.BlockByID(leadID)
	if !ok {
		return fmt.Errorf("no block with id %s", leadID)
	}
	if !lead.IsGroupLead {
		return fmt.Errorf("block %s is not a group lead", leadID)
	}
	start, end, ok := d.GroupRange(lead.GroupID)
	if !ok {
		return fmt.Errorf("group %s not found", lead.GroupID)
	}
	group := make([]*Block, end-start)
	copy(group, d.blocks[start:end])
	rest := append(d.blocks[:start:start], d.blocks[end:]...)
	if to < 0 || to > len(rest) {
		return fmt.Errorf("move target %d out of range", to)
	}
	d.blocks = append(rest[:to:to], append(group, rest[to:]...)...)
	return nil
}

// VisibleBlocks returns the blocks eligible for rendering and interaction.
// While a lead is in raw-edit mode its non-lead siblings are suppressed but
// remain in the document unchanged.
func (d *Document) VisibleBlocks() []*Block {
	editing := map[string]bool{}
	for _, b := range d.blocks {
		if b.IsGroupLead && b.EditingRaw {
			editing[b.GroupID] = true
		}
	}
	var visible []*Block
	for _, b := range d.blocks {
		if b.GroupID != "" && editing[b.GroupID] && !b.IsGroupLead {
			continue
		}
		visible = append(visible, b)
	}
	return visible
}

// splice replaces the index range [start, end) with repl as one atomic
// slice assignment, so observers never see a remove-then-insert gap.
func (d *Document) splice(start, end int, repl []*Block) {
	next := make([]*Block, 0, len(d.blocks)-(end-start)+len(repl))
	next = append(next, d.blocks[:start]...)
	next = append(next, repl...)
	next = append(next, d.blocks[end:]...)
	d.blocks = next
}

// CheckInvariants verifies the at-rest group invariants: exactly one lead
// per group and contiguous group ranges.
func (d *Document) CheckInvariants() error {
	leads := map[string]int{}
	counts := map[string]int{}
	for _, b := range d.blocks {
		if b.GroupID == "" {
			continue
		}
		counts[b.GroupID]++
		if b.IsGroupLead {
			leads[b.GroupID]++
		}
	}
	for groupID, n := range counts {
		if leads[groupID] != 1 {
			return fmt.Errorf("group %s has %d leads", groupID, leads[groupID])
		}
		start, end, _ := d.GroupRange(groupID)
		if end-start != n {
			return fmt.Errorf("group %s is not contiguous", groupID)
		}
	}
	return nil
}

// Render concatenates the document's blocks in order into the final prompt
// text.
func (d *Document) Render() string {
	var out strings.Builder
	for _, b := range d.blocks {
		switch b.Kind {
		case KindLiteralSegment, KindUserText, KindSavedResponse:
			out.WriteString(b.Content)
		case KindFileSet:
			out.WriteString(renderFileSet(b))
		default:
			logger.Error("render: %v", ValidKind(b.Kind))
		}
	}
	return out.String()
}

// renderFileSet formats a file snapshot: the directory map first when
// requested, then each file fenced with its language tag.
func renderFileSet(b *Block) string {
	var out strings.Builder
	if b.IncludeDirectoryMap && b.DirectoryMap != "" {
		out.WriteString("<file_map>\n")
		out.WriteString(b.DirectoryMap)
		out.WriteString("\n</file_map>\n\n")
	}
	for i, f := range b.Files {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString("File: " + f.Path + "\n")
		out.WriteString("```" + f.Language + "\n")
		out.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			out.WriteString("\n")
		}
		out.WriteString("```\n")
	}
	return out.String()
}
