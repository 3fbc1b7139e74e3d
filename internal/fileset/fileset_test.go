package fileset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestLoadSnapshotsFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "docs/readme.md", "# readme\n")

	snap, err := Load(root, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(snap.Files))
	}
	// Sorted path order.
	if snap.Files[0].Path != "docs/readme.md" || snap.Files[1].Path != "main.go" {
		t.Fatalf("unexpected order: %+v", snap.Files)
	}
	if snap.Files[1].Language != "go" {
		t.Fatalf("expected go language tag, got %q", snap.Files[1].Language)
	}
	if !strings.Contains(snap.DirectoryMap, "main.go") {
		t.Fatalf("directory map missing entries:\n%s", snap.DirectoryMap)
	}
}

func TestLoadMergesIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\n")
	writeFile(t, root, "extra.ignore", "secret/\n")
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, "noise.log", "drop")
	writeFile(t, root, "secret/token.txt", "drop")

	snap, err := Load(root, Options{IgnoreFile: "extra.ignore"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var paths []string
	for _, f := range snap.Files {
		paths = append(paths, f.Path)
	}
	for _, p := range paths {
		if p == "noise.log" || strings.HasPrefix(p, "secret/") {
			t.Fatalf("ignored file leaked into snapshot: %v", paths)
		}
	}
	found := false
	for _, p := range paths {
		if p == "keep.txt" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected keep.txt in snapshot: %v", paths)
	}
}

func TestLoadSkipsBinaryAndOversize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.txt", "text")
	writeFile(t, root, "blob.bin", "ab\x00cd")
	writeFile(t, root, "big.txt", strings.Repeat("x", 64))

	snap, err := Load(root, Options{MaxFileBytes: 32})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Files) != 1 || snap.Files[0].Path != "ok.txt" {
		t.Fatalf("expected only ok.txt, got %+v", snap.Files)
	}
}

func TestRenderTree(t *testing.T) {
	got := RenderTree("proj", []string{"cmd/main.go", "cmd/root.go", "go.mod"})
	want := strings.Join([]string{
		"proj",
		"├── cmd",
		"│   ├── main.go",
		"│   └── root.go",
		"└── go.mod",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestLanguageForPath(t *testing.T) {
	cases := map[string]string{
		"a/b.go":    "go",
		"x.PY":      "python",
		"style.css": "css",
		"noext":     "",
	}
	for path, want := range cases {
		if got := LanguageForPath(path); got != want {
			t.Fatalf("LanguageForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
