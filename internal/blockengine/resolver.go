package blockengine

import (
	"context"
	"fmt"
	"strings"
)

// segment is a run of flattened text together with its provenance. Text the
// user authored directly stays in inline segments; each top-level reference
// expansion becomes one reference segment so the materializer can tag the
// blocks it produces.
type segment struct {
	text   string
	origin Origin
}

// Flatten returns text with every resolvable reference placeholder replaced
// by the referenced template's own recursively flattened content. Reserved
// placeholders pass through untouched. Unresolvable references are left
// literal and reported through warn; expansion is bounded by cycle
// detection and the depth limit, so Flatten always terminates.
func (e *Engine) Flatten(ctx context.Context, text string, warn WarningFunc) (string, error) {
	segs, err := e.flattenSegments(ctx, text, warn)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, seg := range segs {
		out.WriteString(seg.text)
		if seg.origin.Kind == OriginNone {
			// Residual non-reserved placeholders in inline text are
			// references that failed to resolve.
			for _, tok := range Scan(seg.text).Tokens {
				if !IsReservedName(tok.Name) {
					warn.emit(Warning{
						Kind:    WarnUnresolvedReference,
						Name:    tok.Name,
						Message: fmt.Sprintf("no template named %q; leaving placeholder unchanged", tok.Name),
					})
				}
			}
		}
	}
	return out.String(), nil
}

// flattenSegments walks the top-level token stream. References found
// directly in the input each become their own segment; everything expanded
// below them is dissolved into that segment's text, which is why only the
// top-level reference name survives into reconstruction.
//
// Failed top-level lookups are left literal without a warning here: the
// materializer reports them, and warning exactly once is what callers
// expect.
func (e *Engine) flattenSegments(ctx context.Context, text string, warn WarningFunc) ([]segment, error) {
	res := Scan(text)

	var segs []segment
	var inline strings.Builder
	flushInline := func() {
		if inline.Len() > 0 {
			segs = append(segs, segment{text: inline.String()})
			inline.Reset()
		}
	}

	expansion := 0
	for _, tok := range res.Tokens {
		inline.WriteString(tok.LiteralBefore)
		if IsReservedName(tok.Name) {
			inline.WriteString(tok.Raw)
			continue
		}

		content, ok, err := e.lookupTemplate(ctx, tok.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			inline.WriteString(tok.Raw)
			continue
		}

		flat, err := e.flattenNested(ctx, content, tok.Name, warn)
		if err != nil {
			return nil, err
		}
		flushInline()
		expansion++
		segs = append(segs, segment{
			text:   flat,
			origin: Origin{Kind: OriginReference, Name: tok.Name, Expansion: expansion},
		})
	}
	inline.WriteString(res.Trailing)
	flushInline()
	return segs, nil
}

// frame is one template being expanded on the explicit worklist stack.
type frame struct {
	name string
	scan ScanResult
	idx  int
	out  strings.Builder
}

// flattenNested expands the content of the template rootName depth-first
// using an explicit stack. The ancestry set mirrors the current expansion
// chain: a name reappearing in its own ancestry stops expanding at that
// occurrence, and the stack height enforces the depth limit independently.
func (e *Engine) flattenNested(ctx context.Context, text, rootName string, warn WarningFunc) (string, error) {
	ancestry := map[string]bool{rootName: true}
	stack := []*frame{{name: rootName, scan: Scan(text)}}

	for {
		f := stack[len(stack)-1]

		if f.idx >= len(f.scan.Tokens) {
			f.out.WriteString(f.scan.Trailing)
			stack = stack[:len(stack)-1]
			delete(ancestry, f.name)
			if len(stack) == 0 {
				return f.out.String(), nil
			}
			stack[len(stack)-1].out.WriteString(f.out.String())
			continue
		}

		tok := f.scan.Tokens[f.idx]
		f.idx++
		f.out.WriteString(tok.LiteralBefore)

		if IsReservedName(tok.Name) {
			f.out.WriteString(tok.Raw)
			continue
		}
		if ancestry[tok.Name] {
			warn.emit(Warning{
				Kind:    WarnCyclicReference,
				Name:    tok.Name,
				Message: fmt.Sprintf("cyclic reference to %q; expansion halted at this occurrence", tok.Name),
			})
			f.out.WriteString(tok.Raw)
			continue
		}
		if len(stack) >= e.maxDepth() {
			warn.emit(Warning{
				Kind:    WarnDepthExceeded,
				Name:    tok.Name,
				Message: fmt.Sprintf("expansion depth limit %d reached at %q", e.maxDepth(), tok.Name),
			})
			f.out.WriteString(tok.Raw)
			continue
		}

		content, ok, err := e.lookupTemplate(ctx, tok.Name)
		if err != nil {
			return "", err
		}
		if !ok {
			warn.emit(Warning{
				Kind:    WarnUnresolvedReference,
				Name:    tok.Name,
				Message: fmt.Sprintf("no template named %q; leaving placeholder unchanged", tok.Name),
			})
			f.out.WriteString(tok.Raw)
			continue
		}

		ancestry[tok.Name] = true
		stack = append(stack, &frame{name: tok.Name, scan: Scan(content)})
	}
}
