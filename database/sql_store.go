package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/256dpi/lungo/bsonkit"
	"github.com/256dpi/lungo/mongokit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLStore keeps documents as canonical Extended JSON in a single
// relational table. Filters and sorts are evaluated by lungo's mongokit
// on the rows of one collection, so it suits local development and tests rather
// than large datasets.
type SQLStore struct {
	db   *gorm.DB
	name string
}

// Dialector picks the gorm driver for a relational STORE_DRIVER.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", driver)
	}
}

func OpenSQL(dialector gorm.Dialector, name string) (*SQLStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sql store: %w", err)
	}
	return NewSQLStore(db, name)
}

// NewSQLStore wraps an existing gorm connection and ensures the
// documents table exists.
func NewSQLStore(db *gorm.DB, name string) (*SQLStore, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &SQLStore{db: db, name: name}, nil
}

func (s *SQLStore) Collection(name string) Collection {
	return &sqlCollection{db: s.db, name: name}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) CollectionNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&documentRow{}).
		Distinct().
		Pluck("collection", &names).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *SQLStore) Name() string { return s.name }

func (s *SQLStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type sqlCollection struct {
	db   *gorm.DB
	name string
}

type storedDocument struct {
	rowID string
	doc   bsonkit.Doc
}

func (c *sqlCollection) InsertOne(ctx context.Context, doc interface{}) (string, error) {
	d, err := toDoc(doc)
	if err != nil {
		return "", err
	}

	var oid primitive.ObjectID
	switch id := bsonkit.Get(d, "_id").(type) {
	case primitive.ObjectID:
		oid = id
	case nil:
	default:
		if id != bsonkit.Missing {
			return "", fmt.Errorf("%w: _id of type %T", ErrUnsupported, id)
		}
	}
	if oid.IsZero() {
		oid = primitive.NewObjectID()
	}
	if _, err := bsonkit.Put(d, "_id", oid, true); err != nil {
		return "", fmt.Errorf("set _id: %w", err)
	}

	body, err := bson.MarshalExtJSON(*d, true, false)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	row := documentRow{ID: oid.Hex(), Collection: c.name, Body: string(body)}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

func (c *sqlCollection) Find(ctx context.Context, filter bson.M, opts FindOptions) (Cursor, error) {
	stored, err := c.load(c.db.WithContext(ctx), filter)
	if err != nil {
		return nil, err
	}
	list := listOf(stored)
	if len(opts.Sort) > 0 {
		order, err := toDoc(opts.Sort)
		if err != nil {
			return nil, err
		}
		if list, err = mongokit.Sort(list, order); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
	}
	if opts.Limit > 0 && int64(len(list)) > opts.Limit {
		list = list[:opts.Limit]
	}
	return newListCursor(list)
}

func (c *sqlCollection) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (int64, error) {
	set, err := setOperand(update)
	if err != nil {
		return 0, err
	}

	var matched int64
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := c.load(tx, filter)
		if err != nil || len(stored) == 0 {
			return err
		}
		target := stored[0]
		for _, e := range set {
			if _, err := bsonkit.Put(target.doc, e.Key, e.Value, false); err != nil {
				return fmt.Errorf("%w: $set %s: %v", ErrUnsupported, e.Key, err)
			}
		}
		body, err := bson.MarshalExtJSON(*target.doc, true, false)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		matched = 1
		return tx.Model(&documentRow{}).
			Where("id = ?", target.rowID).
			Update("body", string(body)).Error
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}

func (c *sqlCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	var deleted int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := c.load(tx, filter)
		if err != nil || len(stored) == 0 {
			return err
		}
		res := tx.Where("id = ?", stored[0].rowID).Delete(&documentRow{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (c *sqlCollection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	stored, err := c.load(c.db.WithContext(ctx), filter)
	if err != nil {
		return 0, err
	}
	return int64(len(stored)), nil
}

func (c *sqlCollection) Aggregate(ctx context.Context, pipeline mongo.Pipeline) (Cursor, error) {
	stored, err := c.load(c.db.WithContext(ctx), nil)
	if err != nil {
		return nil, err
	}
	out, err := RunPipeline(listOf(stored), pipeline)
	if err != nil {
		return nil, err
	}
	return newListCursor(out)
}

// load reads the collection in insertion order and keeps the rows that
// match filter. An ObjectID equality on _id is pushed down to SQL.
func (c *sqlCollection) load(db *gorm.DB, filter bson.M) ([]storedDocument, error) {
	query, err := toDoc(filter)
	if err != nil {
		return nil, err
	}

	q := db.Where("collection = ?", c.name)
	if oid, ok := filter["_id"].(primitive.ObjectID); ok {
		q = q.Where("id = ?", oid.Hex())
	}

	var rows []documentRow
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]storedDocument, 0, len(rows))
	for _, row := range rows {
		var doc bson.D
		if err := bson.UnmarshalExtJSON([]byte(row.Body), true, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", row.ID, err)
		}
		ok, err := mongokit.Match(&doc, query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if ok {
			out = append(out, storedDocument{rowID: row.ID, doc: &doc})
		}
	}
	return out, nil
}

// toDoc round-trips v through BSON so that nested documents become
// bson.D and Go values take their stored BSON types.
func toDoc(v interface{}) (bsonkit.Doc, error) {
	if m, ok := v.(bson.M); ok && len(m) == 0 {
		return &bson.D{}, nil
	}
	if v == nil {
		return &bson.D{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}

// setOperand returns the fields of a {$set: {...}} update. Other
// operators and writes to _id are refused.
func setOperand(update bson.M) (bson.D, error) {
	if len(update) == 0 {
		return nil, fmt.Errorf("%w: empty update", ErrUnsupported)
	}
	for op := range update {
		if op != "$set" {
			return nil, fmt.Errorf("%w: update operator %s", ErrUnsupported, op)
		}
	}
	d, err := toDoc(update)
	if err != nil {
		return nil, err
	}
	set, ok := bsonkit.Get(d, "$set").(bson.D)
	if !ok {
		return nil, fmt.Errorf("%w: $set needs a document", ErrUnsupported)
	}
	for _, e := range set {
		if e.Key == "_id" || strings.HasPrefix(e.Key, "_id.") {
			return nil, fmt.Errorf("%w: $set on _id", ErrUnsupported)
		}
	}
	return set, nil
}

func listOf(stored []storedDocument) bsonkit.List {
	list := make(bsonkit.List, len(stored))
	for i, s := range stored {
		list[i] = s.doc
	}
	return list
}

func newListCursor(list bsonkit.List) (Cursor, error) {
	items := make([]interface{}, len(list))
	for i, d := range list {
		items[i] = *d
	}
	cur, err := mongo.NewCursorFromDocuments(items, nil, nil)
	if err != nil {
		return nil, err
	}
	return cur, nil
}
