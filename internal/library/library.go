package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kayz/promptstack/internal/blockengine"
	"github.com/kayz/promptstack/internal/config"
)

// templateExtensions are tried in order after the bare name.
var templateExtensions = []string{"", ".txt", ".md"}

// Library is the file-backed template and companion-file store. Templates
// live in a project-scoped directory with a global fallback; companion
// files for savedResponse blocks live in per-scope response directories.
// It implements blockengine.TemplateSource and blockengine.CompanionStore.
type Library struct {
	projectTemplates string
	projectResponses string
	globalTemplates  string
	globalResponses  string
}

// New builds a Library for a project root using the loaded config.
func New(projectRoot string, cfg *config.Config) *Library {
	return &Library{
		projectTemplates: filepath.Join(projectRoot, cfg.TemplatesDir),
		projectResponses: filepath.Join(projectRoot, ".promptstack", "responses"),
		globalTemplates:  filepath.Join(cfg.GlobalDir, "templates"),
		globalResponses:  filepath.Join(cfg.GlobalDir, "responses"),
	}
}

func (l *Library) templatesDir(scope blockengine.Scope) string {
	if scope == blockengine.ScopeGlobal {
		return l.globalTemplates
	}
	return l.projectTemplates
}

// ReadNamedTemplate resolves a reference placeholder name to file content
// within one scope. Returns ok=false when no template of that name exists.
func (l *Library) ReadNamedTemplate(ctx context.Context, name string, scope blockengine.Scope) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if !safeName(name) {
		return "", false, nil
	}
	dir := l.templatesDir(scope)
	for _, ext := range templateExtensions {
		data, err := os.ReadFile(filepath.Join(dir, name+ext))
		if err == nil {
			return string(data), true, nil
		}
		if !os.IsNotExist(err) {
			return "", false, fmt.Errorf("read template %s: %w", name, err)
		}
	}
	return "", false, nil
}

// ListTemplates returns the template names visible in one scope, sorted,
// with known extensions stripped.
func (l *Library) ListTemplates(scope blockengine.Scope) ([]string, error) {
	entries, err := os.ReadDir(l.templatesDir(scope))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".txt" || ext == ".md" {
			name = strings.TrimSuffix(name, ext)
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadCompanionFile loads savedResponse content, project scope first, then
// the global fallback. Returns ok=false when absent in both.
func (l *Library) ReadCompanionFile(ctx context.Context, relativePath string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if !safeRelPath(relativePath) {
		return "", false, nil
	}
	for _, dir := range []string{l.projectResponses, l.globalResponses} {
		data, err := os.ReadFile(filepath.Join(dir, relativePath))
		if err == nil {
			return string(data), true, nil
		}
		if !os.IsNotExist(err) {
			return "", false, fmt.Errorf("read companion file %s: %w", relativePath, err)
		}
	}
	return "", false, nil
}

// WriteCompanionFile persists savedResponse content into the project
// response directory. The write is atomic (temp file + rename) so a failed
// write never leaves a truncated companion file behind.
func (l *Library) WriteCompanionFile(ctx context.Context, relativePath string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !safeRelPath(relativePath) {
		return fmt.Errorf("invalid companion file path: %s", relativePath)
	}
	target := filepath.Join(l.projectResponses, relativePath)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create response dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".promptstack-*")
	if err != nil {
		return fmt.Errorf("write companion file %s: %w", relativePath, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write companion file %s: %w", relativePath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write companion file %s: %w", relativePath, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write companion file %s: %w", relativePath, err)
	}
	return nil
}

// safeName rejects template names that could escape the template dir.
func safeName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}

// safeRelPath allows subdirectories but rejects absolute paths and
// parent-dir traversal.
func safeRelPath(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
