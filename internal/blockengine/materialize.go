package blockengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/kayz/promptstack/internal/logger"
)

// DefaultResponseFile is substituted when a PROMPT_RESPONSE value does not
// look like a filename.
const DefaultResponseFile = "prompt_response.txt"

// MaterializeOptions carries the optional identity overrides for one
// materialization. A group replacement passes the old GroupID and LeadID so
// the group keeps its external identity across the swap.
type MaterializeOptions struct {
	GroupID   string
	LeadID    string
	OnWarning WarningFunc
}

// Materialize flattens raw template text and turns it into an ordered list
// of typed blocks forming one group. The first block is the unlocked group
// lead; every other block is locked to the group. Empty input still yields
// a single empty lead so a group is never empty.
func (e *Engine) Materialize(ctx context.Context, text string, opts MaterializeOptions) ([]*Block, error) {
	warn := opts.OnWarning

	segs, err := e.flattenSegments(ctx, text, warn)
	if err != nil {
		return nil, err
	}

	var blocks []*Block
	for _, seg := range segs {
		res := Scan(seg.text)
		for _, tok := range res.Tokens {
			if tok.LiteralBefore != "" {
				blocks = append(blocks, e.literalBlock(tok.LiteralBefore, seg.origin))
			}
			blocks = append(blocks, e.blockForToken(tok, seg.origin, warn))
		}
		if res.Trailing != "" {
			blocks = append(blocks, e.literalBlock(res.Trailing, seg.origin))
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, e.literalBlock("", Origin{}))
	}

	groupID := opts.GroupID
	if groupID == "" {
		groupID = e.newID()
	}
	for i, b := range blocks {
		b.GroupID = groupID
		b.Locked = i > 0
		b.IsGroupLead = i == 0
	}
	if opts.LeadID != "" {
		blocks[0].ID = opts.LeadID
	}

	e.loadSavedResponses(ctx, blocks)

	return blocks, nil
}

// blockForToken is the exhaustive reserved-name dispatch. Non-reserved
// names reaching this point are references the resolver could not expand;
// they degrade to literal blocks carrying the raw placeholder text.
func (e *Engine) blockForToken(tok Token, origin Origin, warn WarningFunc) *Block {
	switch tok.Name {
	case PlaceholderText:
		return &Block{
			ID:      e.newID(),
			Kind:    KindUserText,
			Label:   "Text Block",
			Content: tok.Value,
			Origin:  origin,
		}

	case PlaceholderFile:
		return &Block{
			ID:                  e.newID(),
			Kind:                KindFileSet,
			Label:               "File Block",
			IncludeDirectoryMap: true,
			Origin:              origin,
		}

	case PlaceholderTemplate:
		markerOrigin := origin
		if markerOrigin.Kind == OriginNone {
			markerOrigin = Origin{Kind: OriginInline}
		}
		return &Block{
			ID:      e.newID(),
			Kind:    KindLiteralSegment,
			Label:   "Nested Template",
			Content: tok.Value,
			Origin:  markerOrigin,
		}

	case PlaceholderResponse:
		file := strings.TrimSpace(tok.Value)
		if strings.ContainsAny(file, "\n\r") {
			warn.emit(Warning{
				Kind:    WarnMalformedResponseFile,
				Name:    tok.Name,
				Message: fmt.Sprintf("response filename looks like content; using %s", DefaultResponseFile),
			})
			file = DefaultResponseFile
		}
		if file == "" {
			file = DefaultResponseFile
		}
		return &Block{
			ID:         e.newID(),
			Kind:       KindSavedResponse,
			Label:      file,
			SourceFile: file,
			Origin:     origin,
		}

	default:
		if origin.Kind == OriginNone {
			warn.emit(Warning{
				Kind:    WarnUnrecognizedPlaceholder,
				Name:    tok.Name,
				Message: fmt.Sprintf("unrecognized placeholder %s", tok.Raw),
			})
		}
		return e.literalBlock(tok.Raw, origin)
	}
}

func (e *Engine) literalBlock(content string, origin Origin) *Block {
	label := "Template Segment"
	if origin.Kind == OriginReference {
		label = "Template: " + origin.Name
	}
	return &Block{
		ID:      e.newID(),
		Kind:    KindLiteralSegment,
		Label:   label,
		Content: content,
		Origin:  origin,
	}
}

// loadSavedResponses pulls initial content for savedResponse blocks from the
// companion store. A failed or missing read leaves the content empty rather
// than failing materialization.
func (e *Engine) loadSavedResponses(ctx context.Context, blocks []*Block) {
	if e.Companions == nil {
		return
	}
	for _, b := range blocks {
		if b.Kind != KindSavedResponse {
			continue
		}
		content, ok, err := e.Companions.ReadCompanionFile(ctx, b.SourceFile)
		if err != nil {
			logger.Debug("load companion file %s: %v", b.SourceFile, err)
			continue
		}
		if ok {
			b.Content = content
		}
	}
}
