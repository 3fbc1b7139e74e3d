package compose

import (
	"context"
	"fmt"

	"github.com/kayz/promptstack/internal/blockengine"
)

// Composition is one prompt being assembled: a named document plus the
// engine that materializes template text into it. Warnings raised by any
// operation accumulate on the composition for the caller to inspect.
type Composition struct {
	Name string

	engine   *blockengine.Engine
	doc      *blockengine.Document
	warnings []blockengine.Warning
}

// New creates an empty composition backed by the given engine.
func New(name string, engine *blockengine.Engine) *Composition {
	return &Composition{
		Name:   name,
		engine: engine,
		doc:    blockengine.NewDocument(),
	}
}

// Document exposes the underlying block document.
func (c *Composition) Document() *blockengine.Document {
	return c.doc
}

// Warnings returns every warning raised so far, in order.
func (c *Composition) Warnings() []blockengine.Warning {
	return c.warnings
}

func (c *Composition) onWarning(w blockengine.Warning) {
	c.warnings = append(c.warnings, w)
}

// InsertTemplate materializes raw template text as a new group appended to
// the document and returns the new group's id.
func (c *Composition) InsertTemplate(ctx context.Context, rawText string) (string, error) {
	blocks, err := c.engine.Materialize(ctx, rawText, blockengine.MaterializeOptions{
		OnWarning: c.onWarning,
	})
	if err != nil {
		return "", err
	}
	c.doc.Append(blocks...)
	return blocks[0].GroupID, nil
}

// InsertNamedTemplate inserts a template by name, so the resulting group
// reconstructs back to {{name}} rather than its resolved content.
func (c *Composition) InsertNamedTemplate(ctx context.Context, name string) (string, error) {
	if blockengine.IsReservedName(name) {
		return "", fmt.Errorf("%s is a reserved placeholder name", name)
	}
	return c.InsertTemplate(ctx, "{{"+name+"}}")
}

// BeginRawEdit enters raw-edit mode for the group led by leadID and
// returns the reconstructed placeholder text.
func (c *Composition) BeginRawEdit(leadID string) (string, error) {
	return c.doc.BeginRawEdit(leadID)
}

// CommitRawEdit replaces the group with the re-materialized edited text.
// Unchanged text only clears the raw-edit flag.
func (c *Composition) CommitRawEdit(ctx context.Context, leadID, newText, oldText string) error {
	lead, ok := c.doc.BlockByID(leadID)
	if !ok {
		return fmt.Errorf("no block with id %s", leadID)
	}
	return c.engine.ReplaceGroup(ctx, c.doc, leadID, lead.GroupID, newText, oldText, c.onWarning)
}

// CancelRawEdit leaves raw-edit mode without mutating the document.
func (c *Composition) CancelRawEdit(leadID string) error {
	return c.doc.CancelRawEdit(leadID)
}

// SaveResponse updates a savedResponse block's content and persists it to
// its companion file. The in-memory block is only updated after the write
// succeeds, so a persistence failure never corrupts block state.
func (c *Composition) SaveResponse(ctx context.Context, blockID, content string) error {
	b, ok := c.doc.BlockByID(blockID)
	if !ok {
		return fmt.Errorf("no block with id %s", blockID)
	}
	if b.Kind != blockengine.KindSavedResponse {
		return fmt.Errorf("block %s is not a saved response", blockID)
	}
	if err := c.engine.Companions.WriteCompanionFile(ctx, b.SourceFile, content); err != nil {
		c.onWarning(blockengine.Warning{
			Kind:    blockengine.WarnPersistenceFailure,
			Name:    b.SourceFile,
			Message: err.Error(),
		})
		return err
	}
	b.Content = content
	return nil
}

// FileSetBlocks returns every fileSet block in document order, for callers
// that populate snapshots.
func (c *Composition) FileSetBlocks() []*blockengine.Block {
	var out []*blockengine.Block
	for _, b := range c.doc.Blocks() {
		if b.Kind == blockengine.KindFileSet {
			out = append(out, b)
		}
	}
	return out
}

// Render concatenates the document into the final prompt text.
func (c *Composition) Render() string {
	return c.doc.Render()
}
