package media

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
)

var duckKey = Key{Menu: "tasting", Stage: StagePublished, DishID: "roast-duck"}

func sampleMedia() Media {
	return Media{
		ImageURL: "/media/dishes/tasting/roast-duck.webp",
		Hotspots: []hotspot.Hotspot{
			{X: 0.4856, Y: 0.6088, IngredientID: "duck-breast", Role: hotspot.RoleHero,
				Label: map[string]string{"en": "Duck Breast", "de": "Duck Breast"}},
		},
	}
}

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	got, err := s.Get(ctx, duckKey)
	require.NoError(t, err)
	assert.Nil(t, got, "missing set should be nil, nil")

	stage, err := s.Stage(ctx, "unknown-menu", StageDraft)
	require.NoError(t, err)
	assert.Empty(t, stage)

	saved, err := s.Upsert(ctx, duckKey, sampleMedia())
	require.NoError(t, err)
	assert.Equal(t, DefaultAlt(), saved.Alt, "missing alt gets the placeholder")
	assert.NotEmpty(t, saved.Revision)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err = s.Get(ctx, duckKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ImageURL, got.ImageURL)
	assert.Equal(t, saved.Revision, got.Revision)
	assert.Equal(t, saved.Hotspots, got.Hotspots)

	// stages are independent
	draft, err := s.Get(ctx, Key{Menu: "tasting", Stage: StageDraft, DishID: "roast-duck"})
	require.NoError(t, err)
	assert.Nil(t, draft)

	again, err := s.Upsert(ctx, duckKey, Media{ImageURL: "/media/other.webp", Alt: map[string]string{"en": "Duck"}})
	require.NoError(t, err)
	assert.NotEqual(t, saved.Revision, again.Revision, "every save gets a new revision")
	assert.Equal(t, []hotspot.Hotspot{}, again.Hotspots, "nil hotspots become an empty list")
	assert.Equal(t, map[string]string{"en": "Duck"}, again.Alt)

	stage, err = s.Stage(ctx, "tasting", StagePublished)
	require.NoError(t, err)
	assert.Equal(t, []string{"roast-duck"}, DishIDs(stage))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	storeContract(t, s)
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tests := []struct {
		name string
		key  Key
		m    Media
		code errors.Code
	}{
		{"bad stage", Key{Menu: "tasting", Stage: "live", DishID: "x"}, sampleMedia(), errors.ErrCodeInvalidStage},
		{"bad menu", Key{Menu: "../etc", Stage: StageDraft, DishID: "x"}, sampleMedia(), errors.ErrCodeInvalidMenu},
		{"bad dish", Key{Menu: "tasting", Stage: StageDraft, DishID: ""}, sampleMedia(), errors.ErrCodeInvalidDish},
		{"no image", duckKey, Media{}, errors.ErrCodeInvalidInput},
		{"empty ingredient", duckKey, Media{ImageURL: "/a.webp", Hotspots: []hotspot.Hotspot{{X: 0.5, Y: 0.5}}}, errors.ErrCodeInvalidInput},
		{"off plate", duckKey, Media{ImageURL: "/a.webp", Hotspots: []hotspot.Hotspot{{X: 1.5, Y: 0.5, IngredientID: "a"}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Upsert(ctx, tt.key, tt.m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := sampleMedia()
	_, err := s.Upsert(ctx, duckKey, in)
	require.NoError(t, err)

	in.Hotspots[0].X = 0.9
	got, _ := s.Get(ctx, duckKey)
	assert.Equal(t, 0.4856, got.Hotspots[0].X, "store must not alias caller slices")

	got.Hotspots[0].Label["en"] = "changed"
	again, _ := s.Get(ctx, duckKey)
	assert.Equal(t, "Duck Breast", again.Hotspots[0].Label["en"])
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir, "")
	require.NoError(t, err)
	saved, err := s.Upsert(ctx, duckKey, sampleMedia())
	require.NoError(t, err)

	reopened, err := NewFileStore(dir, "")
	require.NoError(t, err)
	got, err := reopened.Get(ctx, duckKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.Revision, got.Revision)
	assert.True(t, saved.UpdatedAt.Equal(got.UpdatedAt))

	var doc map[string]any
	data, err := os.ReadFile(filepath.Join(dir, DataFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 2, doc["schemaVersion"])
}

func TestFileStoreSeed(t *testing.T) {
	ctx := context.Background()
	seed := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`{
  "schemaVersion": 2,
  "menus": {"tasting": {"stages": {"review": {"leek-terrine": {"imageUrl": "/leek.webp", "alt": {"en": "Leek"}, "blurDataURL": "", "hotspots": []}}}}}
}`), 0644))

	dir := t.TempDir()
	s, err := NewFileStore(dir, seed)
	require.NoError(t, err)

	got, err := s.Get(ctx, Key{Menu: "tasting", Stage: StageReview, DishID: "leek-terrine"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/leek.webp", got.ImageURL)

	// The seed is only read when the data file is missing.
	require.NoError(t, os.WriteFile(seed, []byte(`{"menus": {}}`), 0644))
	s2, err := NewFileStore(dir, seed)
	require.NoError(t, err)
	got, _ = s2.Get(ctx, Key{Menu: "tasting", Stage: StageReview, DishID: "leek-terrine"})
	assert.NotNil(t, got)
}

func TestFileStoreMissingSeed(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	stage, err := s.Stage(context.Background(), "tasting", StagePublished)
	require.NoError(t, err)
	assert.Empty(t, stage)
}

func TestFileStoreMigratesLegacyShape(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := `{
  "menus": {
    "tasting": {
      "roast-duck": {"imageUrl": "/duck.webp", "hotspots": [{"x": 0.5, "y": 0.5, "ingredientId": "duck", "role": "hero", "label": {"en": "Duck"}}]},
      "blur-only": {"blurDataURL": "data:image/png;base64,AAAA"},
      "title": "Tasting Menu",
      "empty": {}
    }
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataFile), []byte(legacy), 0644))

	s, err := NewFileStore(dir, "")
	require.NoError(t, err)

	stage, err := s.Stage(ctx, "tasting", StagePublished)
	require.NoError(t, err)
	assert.Equal(t, []string{"blur-only", "roast-duck"}, DishIDs(stage))
	assert.Equal(t, "duck", stage["roast-duck"].Hotspots[0].IngredientID)

	// the migrated shape is written back
	data, err := os.ReadFile(filepath.Join(dir, DataFile))
	require.NoError(t, err)
	var doc struct {
		SchemaVersion int `json:"schemaVersion"`
		Menus         map[string]struct {
			Stages map[string]map[string]json.RawMessage `json:"stages"`
		} `json:"menus"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.SchemaVersion)
	assert.Len(t, doc.Menus["tasting"].Stages[StagePublished], 2)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataFile), []byte("{"), 0644))
	_, err := NewFileStore(dir, "")
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tasting/published/roast-duck", duckKey.String())
	assert.NoError(t, duckKey.Validate())
	assert.Equal(t, []string{"draft", "review", "published"}, Stages())
}

func TestPrepareUsesClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	m := prepare(Media{ImageURL: "/a.webp"}, now)
	assert.Equal(t, now.UTC(), m.UpdatedAt)
	assert.Equal(t, time.UTC, m.UpdatedAt.Location())
}

func TestMongoDocFlattensMedia(t *testing.T) {
	d := newMongoDoc(duckKey, prepare(sampleMedia(), time.Now()))
	data, err := bson.Marshal(d)
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, "tasting/published/roast-duck", raw.Lookup("_id").StringValue())
	assert.Equal(t, "roast-duck", raw.Lookup("dishId").StringValue())
	assert.Equal(t, sampleMedia().ImageURL, raw.Lookup("imageUrl").StringValue())

	var back mongoDoc
	require.NoError(t, bson.Unmarshal(data, &back))
	assert.Equal(t, d.Hotspots, back.Hotspots)
	assert.Equal(t, d.Revision, back.Revision)
}

func TestNormalizeLoaded(t *testing.T) {
	m := normalizeLoaded(Media{})
	assert.NotNil(t, m.Hotspots)
	assert.Empty(t, m.Hotspots)
}

// TestMongoStore runs against a live server when MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "platemap_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		_ = s.Close()
	}()
	storeContract(t, s)
}
