package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/platemap/pkg/errors"
)

const tastingJSON = `{
  "name": "Tasting",
  "courses": [
    {
      "id": "starters",
      "title": {"en": "Starters"},
      "items": [
        {"id": "leek-terrine", "title": {"en": "Leek Terrine", "de": "Lauchterrine"},
         "ingredients": [{"id": "leek"}, {"id": ""}, {"id": "hazelnut-crumble"}]}
      ]
    },
    {
      "id": "mains",
      "items": [
        {"id": "roast-duck", "title": {"en": "Roast Duck"},
         "ingredients": [{"id": "duck-breast"}, {"id": "cherry-jus"}, {"id": "shiso"}]},
        {"id": "bread"}
      ]
    }
  ]
}`

// writeContent lays out a content tree and returns its root.
func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return dir
}

func TestParseAndFindDish(t *testing.T) {
	m, err := Parse([]byte(tastingJSON))
	require.NoError(t, err)
	require.Len(t, m.Courses, 2)

	d := m.FindDish("roast-duck")
	require.NotNil(t, d)
	assert.Equal(t, []string{"duck-breast", "cherry-jus", "shiso"}, d.IngredientIDs())

	assert.Nil(t, m.FindDish("missing"))
	assert.Len(t, m.Dishes(), 3)

	// raw keeps fields the typed view drops
	assert.Contains(t, string(m.Raw), `"name": "Tasting"`)
}

func TestIngredientIDsSkipsEmpty(t *testing.T) {
	m, err := Parse([]byte(tastingJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"leek", "hazelnut-crumble"}, m.FindDish("leek-terrine").IngredientIDs())
	assert.Empty(t, m.FindDish("bread").IngredientIDs())
}

func TestTitleIn(t *testing.T) {
	m, _ := Parse([]byte(tastingJSON))
	d := m.FindDish("leek-terrine")
	assert.Equal(t, "Lauchterrine", d.TitleIn("de"))
	assert.Equal(t, "roast-duck", m.FindDish("roast-duck").TitleIn("de"))
}

func TestFindDishNilMenu(t *testing.T) {
	var m *Menu
	assert.Nil(t, m.FindDish("x"))
}

func TestLoaderMenu(t *testing.T) {
	dir := writeContent(t, map[string]string{"menus/tasting.json": tastingJSON})
	l := NewLoader(dir, nil)

	m, err := l.Menu("tasting")
	require.NoError(t, err)
	assert.NotNil(t, m.FindDish("roast-duck"))

	again, err := l.Menu("tasting")
	require.NoError(t, err)
	assert.Same(t, m, again, "second load should be served from memory")
}

func TestLoaderMenuErrors(t *testing.T) {
	dir := writeContent(t, map[string]string{"menus/broken.json": "{"})
	l := NewLoader(dir, nil)

	_, err := l.Menu("lunch")
	assert.True(t, errors.Is(err, errors.ErrCodeMenuNotFound), "got %v", err)

	_, err = l.Menu("../secrets")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMenu), "got %v", err)

	_, err = l.Menu("broken")
	assert.True(t, errors.Is(err, errors.ErrCodeInternal), "got %v", err)
}

func TestLoaderBrand(t *testing.T) {
	l := NewLoader(writeContent(t, map[string]string{"brand.json": `{"name":"Hof"}`}), nil)
	brand, err := l.Brand()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Hof"}`, string(brand))

	_, err = NewLoader(t.TempDir(), nil).Brand()
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoaderIngredientCatalog(t *testing.T) {
	l := NewLoader(writeContent(t, map[string]string{CatalogFile: `{"leek":{"en":"Leek"}}`}), nil)
	assert.JSONEq(t, `{"leek":{"en":"Leek"}}`, string(l.IngredientCatalog()))

	assert.Equal(t, "{}", string(NewLoader(t.TempDir(), nil).IngredientCatalog()))

	broken := NewLoader(writeContent(t, map[string]string{CatalogFile: `not json`}), nil)
	assert.Equal(t, "{}", string(broken.IngredientCatalog()))
}

func TestLoaderInvalidate(t *testing.T) {
	dir := writeContent(t, map[string]string{"menus/tasting.json": tastingJSON})
	l := NewLoader(dir, nil)

	first, err := l.Menu("tasting")
	require.NoError(t, err)

	updated := `{"courses":[{"id":"c","items":[{"id":"soup"}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menus", "tasting.json"), []byte(updated), 0644))

	stale, _ := l.Menu("tasting")
	assert.Same(t, first, stale)

	l.Invalidate("menus/tasting.json")
	fresh, err := l.Menu("tasting")
	require.NoError(t, err)
	assert.NotNil(t, fresh.FindDish("soup"))
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir, nil)

	tests := []struct {
		name    string
		file    string
		op      fsnotify.Op
		wantRel string
		changed bool
	}{
		{"menu write", filepath.Join(dir, "menus", "tasting.json"), fsnotify.Write, "menus/tasting.json", true},
		{"brand create", filepath.Join(dir, "brand.json"), fsnotify.Create, "brand.json", true},
		{"catalog remove", filepath.Join(dir, "ingredients", "ingredientsCatalog.json"), fsnotify.Remove, CatalogFile, true},
		{"rename", filepath.Join(dir, "menus", "old.json"), fsnotify.Rename, "menus/old.json", true},
		{"write with chmod", filepath.Join(dir, "brand.json"), fsnotify.Write | fsnotify.Chmod, "brand.json", true},
		{"chmod only", filepath.Join(dir, "brand.json"), fsnotify.Chmod, "", false},
		{"non json", filepath.Join(dir, "menus", "notes.txt"), fsnotify.Write, "", false},
		{"outside dir", filepath.Join(filepath.Dir(dir), "other.json"), fsnotify.Write, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, changed := l.handleEvent(fsnotify.Event{Name: tt.file, Op: tt.op})
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.wantRel, rel)
		})
	}
}

func TestWatchInvalidatesOnWrite(t *testing.T) {
	dir := writeContent(t, map[string]string{"menus/tasting.json": tastingJSON})
	l := NewLoader(dir, nil)
	_, err := l.Menu("tasting")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// The watcher registers asynchronously; keep rewriting until the
	// change is observed.
	updated := `{"courses":[{"id":"c","items":[{"id":"soup"}]}]}`
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "menus", "tasting.json"), []byte(updated), 0644)
		m, err := l.Menu("tasting")
		return err == nil && m.FindDish("soup") != nil
	}, 5*time.Second, 50*time.Millisecond)
}
