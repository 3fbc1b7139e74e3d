package fileset

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/kayz/promptstack/internal/blockengine"
	"github.com/kayz/promptstack/internal/logger"
)

// Options controls snapshot loading.
type Options struct {
	// IgnoreFile is an extra ignore file merged with .gitignore, relative
	// to the snapshot root.
	IgnoreFile string
	// MaxFileBytes skips files larger than this; zero means 1 MiB.
	MaxFileBytes int64
}

const defaultMaxFileBytes = 1 << 20

// Snapshot is the loaded payload for a fileSet block.
type Snapshot struct {
	Files        []blockengine.FileEntry
	DirectoryMap string
}

// Load walks root and snapshots every readable text file not excluded by
// the merged ignore rules, in sorted path order.
func Load(root string, opts Options) (*Snapshot, error) {
	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}
	rules := ignoreRules(root, opts.IgnoreFile)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".promptstack" {
				return filepath.SkipDir
			}
			if rules != nil && rules.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if rules != nil && rules.MatchesPath(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	snap := &Snapshot{DirectoryMap: RenderTree(filepath.Base(root), paths)}
	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			logger.Debug("stat %s: %v", rel, err)
			continue
		}
		if info.Size() > maxBytes {
			logger.Debug("skipping %s: %d bytes over limit", rel, info.Size())
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			logger.Debug("read %s: %v", rel, err)
			continue
		}
		if isBinary(data) {
			continue
		}
		snap.Files = append(snap.Files, blockengine.FileEntry{
			Path:     rel,
			Content:  string(data),
			Language: LanguageForPath(rel),
		})
	}
	return snap, nil
}

// Populate fills a fileSet block's payload from a snapshot.
func Populate(b *blockengine.Block, snap *Snapshot) {
	if b.Kind != blockengine.KindFileSet || snap == nil {
		return
	}
	b.Files = snap.Files
	b.DirectoryMap = snap.DirectoryMap
}

// ignoreRules merges .gitignore with the extra ignore file into one rule
// set. Missing files simply contribute nothing.
func ignoreRules(root, extraIgnoreFile string) *ignore.GitIgnore {
	var allRules []string

	if rules, err := readIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		allRules = append(allRules, rules...)
	}
	if extraIgnoreFile != "" {
		if rules, err := readIgnoreFile(filepath.Join(root, extraIgnoreFile)); err == nil {
			allRules = append(allRules, rules...)
		}
	}

	if len(allRules) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(allRules...)
}

func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// isBinary uses a NUL-byte probe over the head of the file.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) != -1
}

// LanguageForPath maps a file extension to a fence language tag.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".c", ".h":
		return "c"
	case ".cc", ".cpp", ".hpp":
		return "cpp"
	case ".rb":
		return "ruby"
	case ".sh", ".bash":
		return "bash"
	case ".sql":
		return "sql"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".xml":
		return "xml"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".md", ".markdown":
		return "markdown"
	default:
		return ""
	}
}
