package blockengine

import "strings"

// Reconstruct rebuilds placeholder text for one group so the user can edit
// it as a single document. Members are taken in their document order.
//
// A run of blocks expanded from the same named reference collapses back to
// a single {{name}}: only the reference name is recoverable, not the
// resolved content, mirroring how the reference was authored. Any in-place
// edits inside such a run are therefore dropped here.
func Reconstruct(groupID string, blocks []*Block) string {
	var out strings.Builder
	var last Origin
	for _, b := range blocks {
		if b.GroupID != groupID {
			continue
		}
		if b.Origin.Kind == OriginReference {
			if b.Origin != last {
				out.WriteString("{{" + b.Origin.Name + "}}")
				last = b.Origin
			}
			continue
		}
		last = Origin{}
		switch b.Kind {
		case KindLiteralSegment:
			if b.Origin.Kind == OriginInline {
				out.WriteString("{{" + PlaceholderTemplate + "=" + b.Content + "}}")
			} else {
				out.WriteString(b.Content)
			}
		case KindUserText:
			if b.Content == "" {
				out.WriteString("{{" + PlaceholderText + "}}")
			} else {
				out.WriteString("{{" + PlaceholderText + "=" + b.Content + "}}")
			}
		case KindFileSet:
			out.WriteString("{{" + PlaceholderFile + "}}")
		case KindSavedResponse:
			out.WriteString("{{" + PlaceholderResponse + "=" + b.SourceFile + "}}")
		}
	}
	return out.String()
}

// ReconstructGroup is the document-level convenience form.
func (d *Document) ReconstructGroup(groupID string) string {
	return Reconstruct(groupID, d.blocks)
}
