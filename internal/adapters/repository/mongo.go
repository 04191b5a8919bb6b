package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Mongo defaults match the ingestion collaborator.
const (
	DefaultMongoDatabase   = "sharpscore"
	DefaultMongoCollection = "fingerprints"
)

// MongoOption configures a MongoStore.
type MongoOption func(*mongoConfig)

type mongoConfig struct {
	database   string
	collection string
}

// WithMongoDatabase sets the database name.
func WithMongoDatabase(name string) MongoOption {
	return func(c *mongoConfig) {
		if name != "" {
			c.database = name
		}
	}
}

// WithMongoCollection sets the collection name.
func WithMongoCollection(name string) MongoOption {
	return func(c *mongoConfig) {
		if name != "" {
			c.collection = name
		}
	}
}

// MongoStore reads the fingerprints collection. Documents are decoded into
// fingerprint.Record, which drops the storage-only _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the primary.
func NewMongoStore(ctx context.Context, uri string, opts ...MongoOption) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: uri is required")
	}
	cfg := mongoConfig{database: DefaultMongoDatabase, collection: DefaultMongoCollection}
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	coll := client.Database(cfg.database).Collection(cfg.collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// FindByUser implements RecordStore.
func (s *MongoStore) FindByUser(ctx context.Context, userID string) ([]fingerprint.Record, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	cur, err := s.coll.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: find: %w", err)
	}
	out := []fingerprint.Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo: decode: %w", err)
	}
	return out, nil
}

// Insert implements RecordStore.
func (s *MongoStore) Insert(ctx context.Context, rec fingerprint.Record) (string, error) {
	if rec.UserID == "" {
		return "", ErrInvalidUserID
	}
	res, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("mongo: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// DeleteAll implements RecordStore.
func (s *MongoStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo: delete: %w", err)
	}
	return res.DeletedCount, nil
}

// Close implements RecordStore.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
