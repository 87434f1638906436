package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qinghao1/gojek/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "driver_locations"

type document struct {
	ID        int       `bson:"_id"`
	Longitude float64   `bson:"longitude"`
	Latitude  float64   `bson:"latitude"`
	Accuracy  float64   `bson:"accuracy"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDocument(loc domain.DriverLocation) document {
	return document{
		ID:        loc.ID,
		Longitude: loc.Point.Longitude,
		Latitude:  loc.Point.Latitude,
		Accuracy:  loc.Accuracy,
		UpdatedAt: loc.UpdatedAt,
	}
}

func (d document) location() domain.DriverLocation {
	return domain.DriverLocation{
		ID:        d.ID,
		Point:     domain.Point{Longitude: d.Longitude, Latitude: d.Latitude},
		Accuracy:  d.Accuracy,
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type LocationStore struct {
	collection *mongo.Collection
}

func NewLocationStore(db *mongo.Database) *LocationStore {
	return &LocationStore{collection: db.Collection(collectionName)}
}

// Connect dials uri and pings the server before returning the database handle.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, errors.New("mongodb uri not provided")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, client.Database(database), nil
}

func (s *LocationStore) Get(ctx context.Context, id int) (domain.DriverLocation, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DriverLocation{}, domain.ErrDriverNotFound
	}
	if err != nil {
		return domain.DriverLocation{}, fmt.Errorf("get driver %d: %w", id, err)
	}
	return doc.location(), nil
}

func (s *LocationStore) Upsert(ctx context.Context, loc domain.DriverLocation) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": loc.ID},
		toDocument(loc),
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *LocationStore) All(ctx context.Context) ([]domain.DriverLocation, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.DriverLocation, len(docs))
	for i, d := range docs {
		out[i] = d.location()
	}
	return out, nil
}
