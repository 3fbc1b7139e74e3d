package blockengine

import "fmt"

// Kind discriminates the block variants.
type Kind string

const (
	// KindLiteralSegment is plain text with no further structure. Nested
	// template markers are literal-kind blocks carrying an Origin tag.
	KindLiteralSegment Kind = "literal_segment"
	// KindUserText is freeform text the end user edits in place.
	KindUserText Kind = "user_text"
	// KindFileSet is a snapshot of selected files plus an optional ASCII
	// directory rendering.
	KindFileSet Kind = "file_set"
	// KindSavedResponse is content mirrored to and from a persisted
	// companion file.
	KindSavedResponse Kind = "saved_response"
)

// Reserved placeholder names with built-in block semantics. Any other
// placeholder name is treated as a reference to another template file.
const (
	PlaceholderText     = "TEXT_BLOCK"
	PlaceholderFile     = "FILE_BLOCK"
	PlaceholderTemplate = "TEMPLATE_BLOCK"
	PlaceholderResponse = "PROMPT_RESPONSE"
)

// IsReservedName reports whether name has built-in block semantics.
func IsReservedName(name string) bool {
	switch name {
	case PlaceholderText, PlaceholderFile, PlaceholderTemplate, PlaceholderResponse:
		return true
	}
	return false
}

// OriginKind tags how a nested-template block came to exist.
type OriginKind string

const (
	// OriginNone marks ordinary blocks.
	OriginNone OriginKind = ""
	// OriginInline marks a nested-template marker authored directly as a
	// TEMPLATE_BLOCK placeholder.
	OriginInline OriginKind = "inline"
	// OriginReference marks blocks materialized from the expansion of a
	// named reference placeholder.
	OriginReference OriginKind = "reference"
)

// Origin records the provenance of nested-template content. Blocks expanded
// from the same reference occurrence share Name and Expansion, so the
// reconstructor can collapse the run back to a single {{name}}.
type Origin struct {
	Kind OriginKind
	// Name is the reference placeholder name; empty unless Kind is
	// OriginReference.
	Name string
	// Expansion distinguishes adjacent expansions of the same name within
	// one materialization.
	Expansion int
}

// FileEntry is one file inside a fileSet snapshot.
type FileEntry struct {
	Path     string
	Content  string
	Language string
}

// Block is one element of a Document. The payload fields in use depend on
// Kind.
type Block struct {
	ID          string
	Kind        Kind
	Label       string
	Locked      bool
	GroupID     string
	IsGroupLead bool
	EditingRaw  bool

	// Origin is set on nested-template markers and on blocks derived from
	// a named reference expansion.
	Origin Origin

	// Content is the literalSegment / userText / savedResponse payload,
	// and the body of an inline nested-template marker.
	Content string

	// fileSet payload.
	Files               []FileEntry
	DirectoryMap        string
	IncludeDirectoryMap bool

	// SourceFile is the savedResponse companion file, relative to the
	// response store.
	SourceFile string
}

// ValidKind is the exhaustive match point for Kind; extending the block
// model starts here.
func ValidKind(k Kind) error {
	switch k {
	case KindLiteralSegment, KindUserText, KindFileSet, KindSavedResponse:
		return nil
	}
	return fmt.Errorf("unhandled block kind: %q", k)
}
