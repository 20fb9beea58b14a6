package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

const soundIndexFile = "sounds.json"

type soundIndex struct {
	BaseDir string       `json:"base_dir,omitempty"`
	Sounds  []soundEntry `json:"sounds"`
}

type soundEntry struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	FileName    string `json:"file_name"`
}

// FileSoundCatalog serves the soundboard from <dir>/sounds.json. The index
// is re-read whenever its modification time changes.
type FileSoundCatalog struct {
	dir string

	mu     sync.Mutex
	mtime  time.Time
	sounds []*domain.Sound
}

// NewFileSoundCatalog creates a new FileSoundCatalog rooted at dir.
func NewFileSoundCatalog(dir string) *FileSoundCatalog {
	return &FileSoundCatalog{dir: dir}
}

// List returns up to limit sounds whose display name contains filter, in
// index order.
func (c *FileSoundCatalog) List(filter string, limit int) ([]*domain.Sound, error) {
	sounds, err := c.load()
	if err != nil {
		return nil, err
	}

	var out []*domain.Sound
	for _, s := range sounds {
		if limit > 0 && len(out) == limit {
			break
		}
		if s.MatchesPrefix(filter) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Get returns the sound with the given display name, or nil.
func (c *FileSoundCatalog) Get(name string) (*domain.Sound, error) {
	sounds, err := c.load()
	if err != nil {
		return nil, err
	}

	for _, s := range sounds {
		if s.DisplayName == name {
			return s, nil
		}
	}
	return nil, nil
}

// load returns the cached sounds, re-reading the index when it changed on
// disk. A missing index is an empty catalog. When the index cannot be parsed
// the previous contents are kept.
func (c *FileSoundCatalog) load() ([]*domain.Sound, error) {
	path := filepath.Join(c.dir, soundIndexFile)

	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.mtime = time.Time{}
		c.sounds = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat sound index: %w", err)
	}

	if info.ModTime().Equal(c.mtime) && c.sounds != nil {
		return c.sounds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound index: %w", err)
	}

	var index soundIndex
	if err := json.Unmarshal(data, &index); err != nil {
		if c.sounds != nil {
			slog.Warn("failed to parse sound index, keeping previous", "path", path, "error", err)
			return c.sounds, nil
		}
		return nil, fmt.Errorf("failed to parse sound index: %w", err)
	}

	c.sounds = c.buildSounds(index)
	c.mtime = info.ModTime()
	slog.Info("loaded sound index", "path", path, "sounds", len(c.sounds))
	return c.sounds, nil
}

func (c *FileSoundCatalog) buildSounds(index soundIndex) []*domain.Sound {
	base := c.dir
	if index.BaseDir != "" {
		base = index.BaseDir
		if !filepath.IsAbs(base) {
			base = filepath.Join(c.dir, base)
		}
	}

	sounds := make([]*domain.Sound, 0, len(index.Sounds))
	for _, e := range index.Sounds {
		if !domain.IsValidSoundName(e.DisplayName) {
			slog.Warn("skipped sound with invalid name", "id", e.ID, "name", e.DisplayName)
			continue
		}
		if e.FileName == "" {
			slog.Warn("skipped sound without file", "id", e.ID, "name", e.DisplayName)
			continue
		}

		s := &domain.Sound{
			ID:          e.ID,
			DisplayName: e.DisplayName,
			FileName:    e.FileName,
			Path:        filepath.Join(base, filepath.Base(e.FileName)),
		}
		s.Title, s.Artist = readSoundTags(s.Path)
		sounds = append(sounds, s)
	}
	return sounds
}

// readSoundTags returns the title and artist tags of an audio file, or
// empty strings when the file has none.
func readSoundTags(path string) (string, string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("failed to open sound file", "path", path, "error", err)
		return "", ""
	}
	defer func() { _ = f.Close() }()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", ""
	}
	return meta.Title(), meta.Artist()
}

// Ensure FileSoundCatalog implements ports.SoundCatalog.
var _ ports.SoundCatalog = (*FileSoundCatalog)(nil)
