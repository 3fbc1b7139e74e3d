package compose

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/kayz/promptstack/internal/blockengine"
)

// xmlComposition is the on-disk export format for a full composition.
type xmlComposition struct {
	XMLName xml.Name   `xml:"composition"`
	Name    string     `xml:"name,attr"`
	Blocks  []xmlBlock `xml:"block"`
}

type xmlBlock struct {
	ID          string `xml:"id,attr"`
	Kind        string `xml:"kind,attr"`
	Label       string `xml:"label,attr,omitempty"`
	Locked      bool   `xml:"locked,attr,omitempty"`
	GroupID     string `xml:"groupId,attr,omitempty"`
	IsGroupLead bool   `xml:"lead,attr,omitempty"`

	OriginKind      string `xml:"originKind,attr,omitempty"`
	OriginName      string `xml:"originName,attr,omitempty"`
	OriginExpansion int    `xml:"originExpansion,attr,omitempty"`

	Content    string `xml:"content,omitempty"`
	SourceFile string `xml:"sourceFile,omitempty"`

	IncludeDirectoryMap bool      `xml:"includeDirectoryMap,attr,omitempty"`
	DirectoryMap        string    `xml:"directoryMap,omitempty"`
	Files               []xmlFile `xml:"file"`
}

type xmlFile struct {
	Path     string `xml:"path,attr"`
	Language string `xml:"language,attr,omitempty"`
	Content  string `xml:",chardata"`
}

// ExportXML writes the composition, blocks and group structure included,
// so it can be re-imported elsewhere.
func (c *Composition) ExportXML(w io.Writer) error {
	out := xmlComposition{Name: c.Name}
	for _, b := range c.doc.Blocks() {
		xb := xmlBlock{
			ID:                  b.ID,
			Kind:                string(b.Kind),
			Label:               b.Label,
			Locked:              b.Locked,
			GroupID:             b.GroupID,
			IsGroupLead:         b.IsGroupLead,
			OriginKind:          string(b.Origin.Kind),
			OriginName:          b.Origin.Name,
			OriginExpansion:     b.Origin.Expansion,
			Content:             b.Content,
			SourceFile:          b.SourceFile,
			IncludeDirectoryMap: b.IncludeDirectoryMap,
			DirectoryMap:        b.DirectoryMap,
		}
		for _, f := range b.Files {
			xb.Files = append(xb.Files, xmlFile{Path: f.Path, Language: f.Language, Content: f.Content})
		}
		out.Blocks = append(out.Blocks, xb)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode composition: %w", err)
	}
	return enc.Close()
}

// ImportXML reads a previously exported composition. Group invariants are
// verified after loading; a document that violates them is rejected.
func ImportXML(r io.Reader, engine *blockengine.Engine) (*Composition, error) {
	var in xmlComposition
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}

	c := New(in.Name, engine)
	for _, xb := range in.Blocks {
		kind := blockengine.Kind(xb.Kind)
		if err := blockengine.ValidKind(kind); err != nil {
			return nil, err
		}
		b := &blockengine.Block{
			ID:          xb.ID,
			Kind:        kind,
			Label:       xb.Label,
			Locked:      xb.Locked,
			GroupID:     xb.GroupID,
			IsGroupLead: xb.IsGroupLead,
			Origin: blockengine.Origin{
				Kind:      blockengine.OriginKind(xb.OriginKind),
				Name:      xb.OriginName,
				Expansion: xb.OriginExpansion,
			},
			Content:             xb.Content,
			SourceFile:          xb.SourceFile,
			IncludeDirectoryMap: xb.IncludeDirectoryMap,
			DirectoryMap:        xb.DirectoryMap,
		}
		for _, f := range xb.Files {
			b.Files = append(b.Files, blockengine.FileEntry{Path: f.Path, Language: f.Language, Content: f.Content})
		}
		c.doc.Append(b)
	}

	if err := c.doc.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("imported composition invalid: %w", err)
	}
	return c, nil
}
