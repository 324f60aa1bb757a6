package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store drivers accepted by Open.
const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var (
	ErrInvalidID   = errors.New("invalid document id")
	ErrUnsupported = errors.New("unsupported operator")
)

// Cursor iterates over documents returned by Find or Aggregate.
// *mongo.Cursor satisfies it for both backends.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	All(ctx context.Context, results interface{}) error
	Err() error
	Close(ctx context.Context) error
}

type FindOptions struct {
	Sort  bson.D
	Limit int64
}

// Collection is a schema-agnostic handle on one named set of documents.
// Callers validate documents before writing them.
type Collection interface {
	InsertOne(ctx context.Context, doc interface{}) (string, error)
	Find(ctx context.Context, filter bson.M, opts FindOptions) (Cursor, error)
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) (int64, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) (Cursor, error)
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
	Name() string
	Close(ctx context.Context) error
}

// Options selects and addresses a backend.
type Options struct {
	Driver string
	URL    string
	Name   string
}

// Open connects to the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMongo:
		return OpenMongo(ctx, opts.URL, opts.Name)
	case DriverSQLite, DriverMySQL, DriverPostgres:
		dialector, err := Dialector(opts.Driver, opts.URL)
		if err != nil {
			return nil, err
		}
		store, err := OpenSQL(dialector, opts.Name)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// IDFilter matches the single document whose _id is the given hex ObjectID.
func IDFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return bson.M{"_id": oid}, nil
}

// DecodeAll drains cur into a slice of documents and closes it.
func DecodeAll(ctx context.Context, cur Cursor) ([]bson.M, error) {
	defer cur.Close(ctx)
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
