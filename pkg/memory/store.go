package memory

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DirName is the hidden directory, by convention, holding a project's
// memory files at its git root.
const DirName = ".review-bridge-memory"

const metadataVersion = 1

// Category classifies a memory entry. Unknown category strings map to
// Context.
type Category int

const (
	CategoryRule Category = iota
	CategoryPreference
	CategoryPattern
	CategoryContext
)

// allCategories fixes the iteration and recall order.
var allCategories = []Category{CategoryRule, CategoryPreference, CategoryPattern, CategoryContext}

// ParseCategory maps a category string to its enum value, defaulting to
// CategoryContext for anything unrecognized.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rule":
		return CategoryRule
	case "preference":
		return CategoryPreference
	case "pattern":
		return CategoryPattern
	default:
		return CategoryContext
	}
}

func (c Category) fileName() string {
	switch c {
	case CategoryRule:
		return "rules.md"
	case CategoryPreference:
		return "preferences.md"
	case CategoryPattern:
		return "patterns.md"
	default:
		return "context.md"
	}
}

func (c Category) header() string {
	switch c {
	case CategoryRule:
		return "# Rules"
	case CategoryPreference:
		return "# Preferences"
	case CategoryPattern:
		return "# Patterns"
	default:
		return "# Context"
	}
}

// String names the category for recall labels and success messages.
func (c Category) String() string {
	switch c {
	case CategoryRule:
		return "rule"
	case CategoryPreference:
		return "preference"
	case CategoryPattern:
		return "pattern"
	default:
		return "context"
	}
}

// Entry is one memory note. IDs are assigned at write time; the on-disk
// form is a pure bullet list and does not need to round-trip them.
type Entry struct {
	ID        string
	Content   string
	Category  Category
	CreatedAt time.Time
}

// Metadata accompanies the category files and is rewritten on every
// mutation.
type Metadata struct {
	ProjectPath   string `json:"project_path"`
	LastOrganized string `json:"last_organized"`
	TotalEntries  int    `json:"total_entries"`
	Version       int    `json:"version"`
}

// Store is a project's memory directory, rooted at its git root.
type Store struct {
	fs          afero.Fs
	projectRoot string
	dir         string
}

// projectLocks serializes concurrent writers to the same project's memory
// files within one process; the GUI and any other out-of-process writer are
// outside this store's concern.
var projectLocks sync.Map // map[string]*sync.Mutex

func lockFor(dir string) *sync.Mutex {
	v, _ := projectLocks.LoadOrStore(dir, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Open ensures the memory directory exists under projectRoot and returns a
// handle to it. Creation failure is returned directly; there is no fallback
// to an unrelated location.
func Open(fs afero.Fs, projectRoot string) (*Store, error) {
	memDir := filepath.Join(projectRoot, DirName)
	if err := fs.MkdirAll(memDir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory directory %s: %w", memDir, err)
	}
	return &Store{fs: fs, projectRoot: projectRoot, dir: memDir}, nil
}

// Append adds one bullet entry to the category's file, synthesizing the
// header if the file does not yet exist, then refreshes metadata.json.
func (s *Store) Append(category Category, content string) (Entry, error) {
	lock := lockFor(s.dir)
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(s.dir, category.fileName())
	existing, err := afero.ReadFile(s.fs, path)
	if err != nil {
		existing = []byte(category.header() + "\n\n")
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Content:   content,
		Category:  category,
		CreatedAt: now(),
	}

	updated := string(existing)
	if !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += "- " + content + "\n"

	if err := afero.WriteFile(s.fs, path, []byte(updated), 0o644); err != nil {
		return Entry{}, fmt.Errorf("write category file %s: %w", path, err)
	}

	if err := s.refreshMetadata(); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// refreshMetadata recomputes total_entries across every category file and
// rewrites metadata.json. Callers must hold the project lock.
func (s *Store) refreshMetadata() error {
	total := 0
	for _, cat := range allCategories {
		entries, err := s.parseCategoryFile(cat)
		if err != nil {
			continue
		}
		total += len(entries)
	}

	meta := Metadata{
		ProjectPath:   s.projectRoot,
		LastOrganized: now().UTC().Format(time.RFC3339),
		TotalEntries:  total,
		Version:       metadataVersion,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	path := filepath.Join(s.dir, "metadata.json")
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata %s: %w", path, err)
	}
	return nil
}

// parseCategoryFile treats every line beginning with "- " (non-empty
// remainder) as one entry and ignores everything else, so hand-edited
// files and comment lines never break parsing.
func (s *Store) parseCategoryFile(category Category) ([]string, error) {
	path := filepath.Join(s.dir, category.fileName())
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		rest, ok := strings.CutPrefix(line, "- ")
		if !ok {
			continue
		}
		if rest == "" {
			continue
		}
		entries = append(entries, rest)
	}
	return entries, nil
}

// emptyRecallText is returned by Recall when no category has any entries.
const emptyRecallText = "No memories recorded for this project yet."

// Recall returns a compressed, single-line-per-category overview: each
// non-empty category contributes "Label: e1; e2; e3" with whitespace
// normalized to single spaces, and categories are joined with " | ".
func (s *Store) Recall() (string, error) {
	var sections []string
	for _, cat := range allCategories {
		entries, err := s.parseCategoryFile(cat)
		if err != nil || len(entries) == 0 {
			continue
		}
		normalized := make([]string, len(entries))
		for i, e := range entries {
			normalized[i] = strings.Join(strings.Fields(e), " ")
		}
		sections = append(sections, fmt.Sprintf("%s: %s", cat.recallLabel(), strings.Join(normalized, "; ")))
	}

	if len(sections) == 0 {
		return emptyRecallText, nil
	}
	return strings.Join(sections, " | "), nil
}

func (c Category) recallLabel() string {
	switch c {
	case CategoryRule:
		return "Rules"
	case CategoryPreference:
		return "Preferences"
	case CategoryPattern:
		return "Patterns"
	default:
		return "Context"
	}
}

// now is overridable by tests so timestamp assertions don't depend on the
// wall clock.
var now = time.Now
