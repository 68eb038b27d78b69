// Package snapshot keeps exported charts and dashboard screenshots on disk,
// one image file plus a JSON metadata sidecar per export.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"
)

var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Lookup errors.
var (
	ErrNotFound  = errors.New("snapshot not found")
	ErrInvalidID = errors.New("invalid snapshot id")
)

// Image formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Meta describes one stored export.
type Meta struct {
	ID        string    `json:"id"`
	Chart     string    `json:"chart"`
	Format    string    `json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	ScoreKey  string    `json:"score_key,omitempty"`
	ShowAll   bool      `json:"show_all,omitempty"`
	SortMode  string    `json:"sort_mode,omitempty"`
	Limit     string    `json:"limit,omitempty"`
	FocusFilm string    `json:"focus_film,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	if format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Store manages export files on disk.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a Store and ensures the directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot store: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// ValidID reports whether id is a well-formed export id.
func ValidID(id string) bool { return uuidRe.MatchString(id) }

func validate(id string) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func validFormat(f string) bool { return f == FormatSVG || f == FormatPNG }

// Save writes both the image file and metadata sidecar. SizeBytes is filled
// in from data.
func (s *Store) Save(meta Meta, data []byte) (Meta, error) {
	if err := validate(meta.ID); err != nil {
		return Meta{}, err
	}
	if !validFormat(meta.Format) {
		return Meta{}, fmt.Errorf("snapshot store: unsupported format %q", meta.Format)
	}
	meta.SizeBytes = len(data)
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imgPath := filepath.Join(s.dir, meta.ID+"."+meta.Format)
	jsonPath := filepath.Join(s.dir, meta.ID+".json")

	if err := os.WriteFile(imgPath, data, 0o644); err != nil {
		return Meta{}, fmt.Errorf("snapshot store: write image: %w", err)
	}

	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		_ = os.Remove(imgPath)
		return Meta{}, fmt.Errorf("snapshot store: marshal meta: %w", err)
	}
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		_ = os.Remove(imgPath)
		return Meta{}, fmt.Errorf("snapshot store: write meta: %w", err)
	}

	slog.Debug("snapshot saved", "id", meta.ID, "chart", meta.Chart, "format", meta.Format, "bytes", meta.SizeBytes)
	return meta, nil
}

// Get reads export metadata by ID.
func (s *Store) Get(id string) (Meta, error) {
	if err := validate(id); err != nil {
		return Meta{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(id)
}

func (s *Store) readMeta(id string) (Meta, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Meta{}, fmt.Errorf("snapshot store: read meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("snapshot store: unmarshal meta: %w", err)
	}
	return meta, nil
}

// List returns all exports sorted by creation time (newest first). Sidecars
// that cannot be read are skipped.
func (s *Store) List() ([]Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("snapshot store: glob: %w", err)
	}

	metas := make([]Meta, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("snapshot meta unreadable", "path", path, "error", err)
			continue
		}
		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			slog.Debug("snapshot meta invalid", "path", path, "error", err)
			continue
		}
		metas = append(metas, meta)
	}

	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

// ReadImage reads the raw image bytes and returns the format.
func (s *Store) ReadImage(id string) ([]byte, string, error) {
	if err := validate(id); err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.readMeta(id)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id+"."+meta.Format))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: image for %s", ErrNotFound, id)
		}
		return nil, "", fmt.Errorf("snapshot store: read image: %w", err)
	}
	return data, meta.Format, nil
}

// Delete removes both the image and metadata files. A missing image file is
// logged and otherwise ignored.
func (s *Store) Delete(id string) error {
	if err := validate(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.readMeta(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, id+"."+meta.Format)); err != nil {
		slog.Debug("snapshot image cleanup failed", "id", id, "error", err)
	}
	if err := os.Remove(filepath.Join(s.dir, id+".json")); err != nil {
		return fmt.Errorf("snapshot store: remove meta: %w", err)
	}
	return nil
}
