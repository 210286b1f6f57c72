package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DataFile is the FileStore document name inside its data directory.
const DataFile = "dishMedia.json"

const schemaVersion = 2

// document is the on-disk shape:
//
//	{"schemaVersion": 2, "menus": {"<menu>": {"stages": {"<stage>": {"<dish>": Media}}}}}
type document struct {
	SchemaVersion int                   `json:"schemaVersion"`
	Menus         map[string]*menuEntry `json:"menus"`
}

type menuEntry struct {
	Stages map[string]map[string]Media `json:"stages"`

	// migrated is set when the entry was read in the legacy shape.
	migrated bool
}

// UnmarshalJSON accepts both the staged shape and the legacy shape
// menus[menu][dish] = Media. Legacy entries become the published stage;
// values that do not look like a saved set are dropped.
func (e *menuEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object at all: nothing to migrate.
		fields = nil
	}

	if raw, ok := fields["stages"]; ok {
		var stages map[string]map[string]Media
		if err := json.Unmarshal(raw, &stages); err != nil {
			return fmt.Errorf("stages: %w", err)
		}
		if stages == nil {
			stages = make(map[string]map[string]Media)
		}
		e.Stages = stages
		return nil
	}

	dishes := make(map[string]Media)
	for id, raw := range fields {
		if m, ok := legacyDish(raw); ok {
			dishes[id] = m
		}
	}
	e.Stages = map[string]map[string]Media{StagePublished: dishes}
	e.migrated = true
	return nil
}

// legacyDish decodes a legacy dish value. It must be an object carrying an
// image url, a hotspot list or a blur placeholder.
func legacyDish(raw json.RawMessage) (Media, bool) {
	var probe struct {
		ImageURL    string          `json:"imageUrl"`
		BlurDataURL string          `json:"blurDataURL"`
		Hotspots    json.RawMessage `json:"hotspots"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Media{}, false
	}
	hasHotspots := false
	switch string(probe.Hotspots) {
	case "", "null", "false", "0", `""`:
	default:
		hasHotspots = true
	}
	if probe.ImageURL == "" && probe.BlurDataURL == "" && !hasHotspots {
		return Media{}, false
	}

	var m Media
	if err := json.Unmarshal(raw, &m); err != nil {
		return Media{}, false
	}
	return m, true
}

// FileStore keeps every saved set in a single JSON document. The whole file
// is rewritten on each upsert, so it suits one server process editing a
// handful of menus.
type FileStore struct {
	mu   sync.Mutex
	path string
	doc  *document
	now  func() time.Time
}

// NewFileStore opens dataDir/dishMedia.json. When the file does not exist
// it is created from seedFile if that exists, or as an empty document.
// Legacy menu entries are migrated and written back immediately.
func NewFileStore(dataDir, seedFile string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{path: filepath.Join(dataDir, DataFile), now: time.Now}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.initialize(seedFile); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse media file: %w", err)
	}
	if doc.Menus == nil {
		doc.Menus = make(map[string]*menuEntry)
	}

	migrated := doc.SchemaVersion != schemaVersion
	for name, e := range doc.Menus {
		if e == nil {
			doc.Menus[name] = &menuEntry{Stages: make(map[string]map[string]Media)}
			continue
		}
		migrated = migrated || e.migrated
	}
	doc.SchemaVersion = schemaVersion
	s.doc = &doc

	if migrated {
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// initialize writes the first version of the data file.
func (s *FileStore) initialize(seedFile string) error {
	if seedFile != "" {
		seed, err := os.ReadFile(seedFile)
		if err == nil {
			return writeFileAtomic(s.path, seed)
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("read seed file: %w", err)
		}
	}
	empty, _ := json.MarshalIndent(document{SchemaVersion: schemaVersion, Menus: map[string]*menuEntry{}}, "", "  ")
	return writeFileAtomic(s.path, empty)
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

// Stage implements [Store].
func (s *FileStore) Stage(ctx context.Context, menu, stage string) (map[string]Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Media)
	if e := s.doc.Menus[menu]; e != nil {
		for id, m := range e.Stages[stage] {
			out[id] = clone(m)
		}
	}
	return out, nil
}

// Get implements [Store].
func (s *FileStore) Get(ctx context.Context, key Key) (*Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.doc.Menus[key.Menu]
	if e == nil {
		return nil, nil
	}
	m, ok := e.Stages[key.Stage][key.DishID]
	if !ok {
		return nil, nil
	}
	c := clone(m)
	return &c, nil
}

// Upsert implements [Store]. If the file cannot be written the in-memory
// state is rolled back.
func (s *FileStore) Upsert(ctx context.Context, key Key, m Media) (*Media, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := validateMedia(m); err != nil {
		return nil, err
	}
	saved := prepare(m, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.doc.Menus[key.Menu]
	if e == nil {
		e = &menuEntry{Stages: make(map[string]map[string]Media)}
		s.doc.Menus[key.Menu] = e
	}
	dishes := e.Stages[key.Stage]
	if dishes == nil {
		dishes = make(map[string]Media)
		e.Stages[key.Stage] = dishes
	}

	prev, had := dishes[key.DishID]
	dishes[key.DishID] = saved
	if err := s.save(); err != nil {
		if had {
			dishes[key.DishID] = prev
		} else {
			delete(dishes, key.DishID)
		}
		return nil, err
	}

	out := clone(saved)
	return &out, nil
}

// Close implements [Store].
func (s *FileStore) Close() error { return nil }

// save writes the document. Callers hold s.mu.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal media file: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic replaces path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dishMedia-*.tmp")
	if err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("write media file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
