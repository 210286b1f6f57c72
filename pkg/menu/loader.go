package menu

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/platemap/pkg/errors"
)

// Content file locations relative to the content directory.
const (
	BrandFile   = "brand.json"
	CatalogFile = "ingredients/ingredientsCatalog.json"
	menusDir    = "menus"
)

// Loader reads content files and keeps the parsed results in memory until
// the file changes. Use [Loader.Watch] to pick up edits without a restart,
// or [Loader.Invalidate] to drop the cache by hand.
//
// A Loader is safe for concurrent use.
type Loader struct {
	dir    string
	logger *log.Logger

	mu    sync.RWMutex
	menus map[string]*Menu
	raw   map[string]json.RawMessage
}

// NewLoader returns a loader rooted at dir. A nil logger discards output.
func NewLoader(dir string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		dir:    dir,
		logger: logger,
		menus:  make(map[string]*Menu),
		raw:    make(map[string]json.RawMessage),
	}
}

// Dir returns the content directory.
func (l *Loader) Dir() string { return l.dir }

// Menu returns the parsed menus/<name>.json.
// A missing file is an [errors.ErrCodeMenuNotFound] error.
func (l *Loader) Menu(name string) (*Menu, error) {
	if err := errors.ValidateMenuName(name); err != nil {
		return nil, err
	}
	rel := menusDir + "/" + name + ".json"

	l.mu.RLock()
	m, ok := l.menus[rel]
	l.mu.RUnlock()
	if ok {
		return m, nil
	}

	data, err := l.read(rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeMenuNotFound, "Menu not found: %s", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", rel)
	}
	m, err = Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s", rel)
	}

	l.mu.Lock()
	l.menus[rel] = m
	l.mu.Unlock()
	return m, nil
}

// Brand returns brand.json verbatim.
// A missing file is an [errors.ErrCodeFileNotFound] error.
func (l *Loader) Brand() (json.RawMessage, error) {
	data, err := l.rawJSON(BrandFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "brand.json not found")
		}
		return nil, err
	}
	return data, nil
}

// IngredientCatalog returns the ingredient catalog verbatim, or an empty
// JSON object when the catalog is absent or unreadable.
func (l *Loader) IngredientCatalog() json.RawMessage {
	data, err := l.rawJSON(CatalogFile)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("ingredient catalog unavailable", "err", err)
		}
		return json.RawMessage("{}")
	}
	return data
}

// Invalidate drops the cached copy of rel (slash-separated, relative to the
// content directory). An empty rel drops everything.
func (l *Loader) Invalidate(rel string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rel == "" {
		clear(l.menus)
		clear(l.raw)
		return
	}
	delete(l.menus, rel)
	delete(l.raw, rel)
}

// rawJSON reads and syntax-checks a JSON file, caching the bytes.
func (l *Loader) rawJSON(rel string) (json.RawMessage, error) {
	l.mu.RLock()
	data, ok := l.raw[rel]
	l.mu.RUnlock()
	if ok {
		return data, nil
	}

	b, err := l.read(rel)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, errors.New(errors.ErrCodeInternal, "%s is not valid JSON", rel)
	}

	l.mu.Lock()
	l.raw[rel] = b
	l.mu.Unlock()
	return b, nil
}

func (l *Loader) read(rel string) ([]byte, error) {
	if err := errors.ValidatePath(rel); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(l.dir, filepath.FromSlash(rel)))
}

// Watch invalidates cached files as they change on disk. It watches the
// content directory and its menus and ingredients subdirectories, and
// blocks until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	defer w.Close()

	for _, sub := range []string{"", menusDir, "ingredients"} {
		dir := filepath.Join(l.dir, sub)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.Add(dir); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", dir)
		}
	}
	l.logger.Debug("watching content", "dir", l.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if rel, changed := l.handleEvent(ev); changed {
				l.logger.Debug("content changed", "file", rel, "op", ev.Op.String())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("content watcher", "err", err)
		}
	}
}

// handleEvent invalidates the file named by ev. Only JSON files inside the
// content directory count, and chmod-only events are ignored.
func (l *Loader) handleEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return "", false
	}
	rel, err := filepath.Rel(l.dir, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	l.Invalidate(rel)
	return rel, true
}
