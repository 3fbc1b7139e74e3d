package blockengine

import (
	"context"

	"github.com/google/uuid"
)

// Scope selects where a named template or companion file is looked up.
// Project-scoped sources are always searched before the global fallback.
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeGlobal  Scope = "global"
)

// TemplateSource resolves reference placeholder names to template file
// content. The second return value is false when no template of that name
// exists in the given scope.
type TemplateSource interface {
	ReadNamedTemplate(ctx context.Context, name string, scope Scope) (string, bool, error)
}

// CompanionStore persists savedResponse block content. Reads search the
// project scope before the global fallback; the second return value is
// false when the file does not exist in either.
type CompanionStore interface {
	ReadCompanionFile(ctx context.Context, relativePath string) (string, bool, error)
	WriteCompanionFile(ctx context.Context, relativePath string, content string) error
}

// DefaultMaxDepth bounds nested template expansion when the caller does not
// configure a limit. It is a second safety net independent of cycle
// detection.
const DefaultMaxDepth = 10

// Engine wires the template expansion core to its file-backed
// collaborators. All methods are synchronous; the only I/O happens through
// the injected Templates and Companions.
type Engine struct {
	Templates  TemplateSource
	Companions CompanionStore

	// MaxDepth bounds reference expansion; zero means DefaultMaxDepth.
	MaxDepth int

	// NewID generates collision-free block ids; nil means UUIDs.
	NewID func() string
}

// NewEngine creates an Engine with default depth limit and UUID ids.
func NewEngine(templates TemplateSource, companions CompanionStore) *Engine {
	return &Engine{
		Templates:  templates,
		Companions: companions,
		MaxDepth:   DefaultMaxDepth,
	}
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e *Engine) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return DefaultMaxDepth
}

// lookupTemplate searches the project scope before the global fallback.
func (e *Engine) lookupTemplate(ctx context.Context, name string) (string, bool, error) {
	if e.Templates == nil {
		return "", false, nil
	}
	for _, scope := range []Scope{ScopeProject, ScopeGlobal} {
		content, ok, err := e.Templates.ReadNamedTemplate(ctx, name, scope)
		if err != nil {
			return "", false, err
		}
		if ok {
			return content, true, nil
		}
	}
	return "", false, nil
}
