package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/source/item files.
type Paths struct {
	BaseDir string // e.g. ./config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "sources", "default.yaml")
}
func (p Paths) SourcePath(source string) string {
	return filepath.Join(p.BaseDir, "sources", source+".yaml")
}
func (p Paths) ItemPath(source, item string) string {
	return filepath.Join(p.BaseDir, "sources", source, "items", item+".yaml")
}

// Files lists every file that can contribute to source/item.
func (p Paths) Files(source, item string) []string {
	out := []string{p.DefaultPath(), p.SourcePath(source)}
	if item != "" {
		out = append(out, p.ItemPath(source, item))
	}
	return out
}

// Loader reads YAML entries and merges default -> source -> item.
type Loader struct {
	paths Paths
	log   *slog.Logger

	mu    sync.RWMutex
	cache map[string]RawEntry // key: "source" or "source/item"
}

// NewLoader creates a catalog loader rooted at baseDir. A nil logger
// falls back to slog.Default().
func NewLoader(baseDir string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		log:   log.With("component", "catalog"),
		cache: make(map[string]RawEntry),
	}
}

// Paths returns the file layout the loader reads from.
func (l *Loader) Paths() Paths { return l.paths }

func cacheKey(source, item string) string {
	if item == "" {
		return source
	}
	return source + "/" + item
}

// LoadMerged loads and merges default -> source -> item (item optional).
// The result is not validated.
func (l *Loader) LoadMerged(source, item string) (RawEntry, error) {
	key := cacheKey(source, item)
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawEntry{}, fmt.Errorf("read default: %w", err)
	}
	srcCfg, err := readYAML(l.paths.SourcePath(source))
	if err != nil {
		return RawEntry{}, fmt.Errorf("read source %s: %w", source, err)
	}
	var itemCfg RawEntry
	if item != "" {
		itemCfg, err = readYAML(l.paths.ItemPath(source, item))
		if err != nil {
			return RawEntry{}, fmt.Errorf("read item %s/%s: %w", source, item, err)
		}
	}

	merged := mergeRaw(mergeRaw(defCfg, srcCfg), itemCfg)

	l.mu.Lock()
	l.cache[source] = mergeRaw(defCfg, srcCfg)
	l.cache[key] = merged
	l.mu.Unlock()

	l.log.Debug("catalog entry loaded", "source", source, "item", item, "version", merged.Version)
	return merged, nil
}

// Invalidate clears the cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawEntry)
	l.log.Debug("catalog cache invalidated")
}

// readYAML loads a YAML file. Missing files return a zero entry, no error.
func readYAML(path string) (RawEntry, error) {
	var cfg RawEntry
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawEntry{}, nil
		}
		return RawEntry{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawEntry{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// mergeRaw overlays b on a: any field b sets wins.
func mergeRaw(a, b RawEntry) RawEntry {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// drop: a rate and a table are alternatives, setting one clears the other
	switch {
	case b.Drop.Rate != nil:
		out.Drop.Rate, out.Drop.Table = b.Drop.Rate, nil
	case b.Drop.Table != nil:
		t := *b.Drop.Table
		out.Drop.Rate, out.Drop.Table = nil, &t
	}
	if b.Drop.Luck != nil {
		out.Drop.Luck = b.Drop.Luck
	}

	// pity
	switch {
	case out.Pity == nil && b.Pity != nil:
		c := *b.Pity
		out.Pity = &c
	case out.Pity != nil && b.Pity != nil:
		c := *out.Pity
		if b.Pity.Start != nil {
			c.Start = b.Pity.Start
		}
		if b.Pity.Cap != nil {
			c.Cap = b.Pity.Cap
		}
		out.Pity = &c
	}

	// enrage
	switch {
	case out.Enrage == nil && b.Enrage != nil:
		c := *b.Enrage
		out.Enrage = &c
	case out.Enrage != nil && b.Enrage != nil:
		c := *out.Enrage
		if b.Enrage.Kind != "" {
			c.Kind = b.Enrage.Kind
		}
		if b.Enrage.Level != nil {
			c.Level = b.Enrage.Level
		}
		if b.Enrage.Max != nil {
			c.Max = b.Enrage.Max
		}
		out.Enrage = &c
	}

	// effort
	switch {
	case out.Effort == nil && b.Effort != nil:
		c := *b.Effort
		out.Effort = &c
	case out.Effort != nil && b.Effort != nil:
		c := *out.Effort
		if b.Effort.KillsPerHour != nil {
			c.KillsPerHour = b.Effort.KillsPerHour
		}
		if b.Effort.KillsPerTrip != nil {
			c.KillsPerTrip = b.Effort.KillsPerTrip
		}
		out.Effort = &c
	}

	return out
}
