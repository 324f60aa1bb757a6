package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
)

const (
	topItemsLimit   = 5
	dailyOrdersDays = 7
)

type TopItem struct {
	Name string `bson:"name" json:"name"`
	Qty  int64  `bson:"qty" json:"qty"`
}

type DailyOrders struct {
	Date  string `bson:"date" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

type AnalyticsReport struct {
	TopItems    []TopItem     `json:"top_items"`
	DailyOrders []DailyOrders `json:"daily_orders"`
}

type AnalyticsService struct {
	store database.Store
	now   func() time.Time
}

func NewAnalyticsService(store database.Store) *AnalyticsService {
	return &AnalyticsService{store: store, now: time.Now}
}

// TopItemsPipeline sums line-item quantities per item name, highest
// first. Ties are broken by name.
func TopItemsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.name"},
			{Key: "qty", Value: bson.D{{Key: "$sum", Value: "$items.qty"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "qty", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: topItemsLimit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: "$_id"},
			{Key: "qty", Value: 1},
		}}},
	}
}

// DailyOrdersPipeline counts orders created since the given instant per
// UTC calendar date, oldest date first.
func DailyOrdersPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since.UTC()}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$created_at"},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
	}
}

func (s *AnalyticsService) Report(ctx context.Context) (AnalyticsReport, error) {
	orders := s.store.Collection(models.OrderCollection)
	report := AnalyticsReport{TopItems: []TopItem{}, DailyOrders: []DailyOrders{}}

	cur, err := orders.Aggregate(ctx, TopItemsPipeline())
	if err != nil {
		return report, err
	}
	if err := decodeInto(ctx, cur, &report.TopItems); err != nil {
		return report, err
	}

	since := s.now().UTC().Add(-dailyOrdersDays * 24 * time.Hour)
	cur, err = orders.Aggregate(ctx, DailyOrdersPipeline(since))
	if err != nil {
		return report, err
	}
	if err := decodeInto(ctx, cur, &report.DailyOrders); err != nil {
		return report, err
	}
	return report, nil
}

func decodeInto(ctx context.Context, cur database.Cursor, results interface{}) error {
	defer cur.Close(ctx)
	return cur.All(ctx, results)
}
