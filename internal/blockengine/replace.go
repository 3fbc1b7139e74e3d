package blockengine

import (
	"context"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kayz/promptstack/internal/logger"
)

// BeginRawEdit moves a group lead into raw-edit mode and returns the
// reconstructed placeholder text for editing. Only the lead may enter
// raw-edit; its siblings stay in the document but are suppressed from
// VisibleBlocks until the edit ends.
func (d *Document) BeginRawEdit(leadID string) (string, error) {
	lead, ok := d.BlockByID(leadID)
	if !ok {
		return "", fmt.Errorf("no block with id %s", leadID)
	}
	if !lead.IsGroupLead {
		return "", fmt.Errorf("block %s is not a group lead", leadID)
	}
	lead.EditingRaw = true
	return d.ReconstructGroup(lead.GroupID), nil
}

// CancelRawEdit leaves raw-edit mode without any other document mutation.
func (d *Document) CancelRawEdit(leadID string) error {
	lead, ok := d.BlockByID(leadID)
	if !ok {
		return fmt.Errorf("no block with id %s", leadID)
	}
	lead.EditingRaw = false
	return nil
}

// ReplaceGroup commits a raw edit: it re-resolves and re-materializes
// newText under the same groupID and leadID, then atomically substitutes
// the group's contiguous range in the document. Identical text is a no-op
// beyond clearing the lead's raw-edit flag, which keeps unrelated block
// identities stable. A group that is no longer present has its replacement
// appended at the end rather than failing.
func (e *Engine) ReplaceGroup(ctx context.Context, doc *Document, leadID, groupID, newText, oldText string, warn WarningFunc) error {
	lead, ok := doc.BlockByID(leadID)
	if ok && lead.GroupID != groupID {
		return fmt.Errorf("block %s does not lead group %s", leadID, groupID)
	}

	if newText == oldText {
		if ok {
			lead.EditingRaw = false
		}
		return nil
	}

	ins, del := DiffStats(oldText, newText)
	logger.Debug("replace group %s: +%d/-%d chars", groupID, ins, del)

	blocks, err := e.Materialize(ctx, newText, MaterializeOptions{
		GroupID:   groupID,
		LeadID:    leadID,
		OnWarning: warn,
	})
	if err != nil {
		return err
	}

	start, end, found := doc.GroupRange(groupID)
	if !found {
		doc.Append(blocks...)
		return nil
	}
	doc.splice(start, end, blocks)
	return nil
}

// DiffStats reports how many characters a raw edit inserted and deleted.
func DiffStats(oldText, newText string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	for _, diff := range dmp.DiffMain(oldText, newText, false) {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			deleted += len(diff.Text)
		}
	}
	return inserted, deleted
}
