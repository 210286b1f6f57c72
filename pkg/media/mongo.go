package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/platemap/pkg/hotspot"
)

// MongoCollection is the collection holding saved sets.
const MongoCollection = "dish_media"

// mongoDoc is one saved set. The id is "menu/stage/dish".
type mongoDoc struct {
	ID     string `bson:"_id"`
	Menu   string `bson:"menu"`
	Stage  string `bson:"stage"`
	DishID string `bson:"dishId"`
	Media  `bson:",inline"`
}

// MongoStore keeps one document per saved set in MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// (menu, stage) index used by [MongoStore.Stage].
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo store: uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo store: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo store: ping: %w", err)
	}

	coll := client.Database(database).Collection(MongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "menu", Value: 1}, {Key: "stage", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo store: create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

// Stage implements [Store].
func (s *MongoStore) Stage(ctx context.Context, menu, stage string) (map[string]Media, error) {
	cur, err := s.coll.Find(ctx, bson.D{{Key: "menu", Value: menu}, {Key: "stage", Value: stage}})
	if err != nil {
		return nil, fmt.Errorf("find %s/%s: %w", menu, stage, err)
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", menu, stage, err)
	}

	out := make(map[string]Media, len(docs))
	for _, d := range docs {
		out[d.DishID] = normalizeLoaded(d.Media)
	}
	return out, nil
}

// Get implements [Store].
func (s *MongoStore) Get(ctx context.Context, key Key) (*Media, error) {
	var d mongoDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key.String()}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	m := normalizeLoaded(d.Media)
	return &m, nil
}

// Upsert implements [Store].
func (s *MongoStore) Upsert(ctx context.Context, key Key, m Media) (*Media, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := validateMedia(m); err != nil {
		return nil, err
	}
	saved := prepare(m, s.now())

	d := newMongoDoc(key, saved)
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: d.ID}}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", key, err)
	}
	return &saved, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func newMongoDoc(key Key, m Media) mongoDoc {
	return mongoDoc{
		ID:     key.String(),
		Menu:   key.Menu,
		Stage:  key.Stage,
		DishID: key.DishID,
		Media:  m,
	}
}

// normalizeLoaded turns a decoded nil hotspot list back into an empty one
// and reports timestamps in UTC.
func normalizeLoaded(m Media) Media {
	if m.Hotspots == nil {
		m.Hotspots = []hotspot.Hotspot{}
	}
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m
}

var _ Store = (*MongoStore)(nil)
