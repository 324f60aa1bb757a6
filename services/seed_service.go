package services

import (
	"context"
	"time"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/utils"
)

type SeedResult struct {
	Inserted      int
	AlreadySeeded bool
}

// SeedService inserts the fixed sample data into empty collections.
type SeedService struct {
	store database.Store
	now   func() time.Time
}

func NewSeedService(store database.Store) *SeedService {
	return &SeedService{store: store, now: time.Now}
}

func (s *SeedService) SeedMenu(ctx context.Context) (SeedResult, error) {
	items := SampleMenu()
	docs := make([]interface{}, len(items))
	for i := range items {
		items[i].Prepare(s.now())
		docs[i] = &items[i]
	}
	return s.seed(ctx, models.MenuCollection, docs)
}

func (s *SeedService) SeedReviews(ctx context.Context) (SeedResult, error) {
	reviews := SampleReviews()
	docs := make([]interface{}, len(reviews))
	for i := range reviews {
		reviews[i].Prepare(s.now())
		docs[i] = &reviews[i]
	}
	return s.seed(ctx, models.ReviewCollection, docs)
}

func (s *SeedService) seed(ctx context.Context, name string, docs []interface{}) (SeedResult, error) {
	coll := s.store.Collection(name)
	n, err := coll.CountDocuments(ctx, nil)
	if err != nil {
		return SeedResult{}, err
	}
	if n > 0 {
		return SeedResult{AlreadySeeded: true}, nil
	}
	for i, doc := range docs {
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			return SeedResult{Inserted: i}, err
		}
	}
	utils.InfoLogger.Printf("Seeded %d documents into %s", len(docs), name)
	return SeedResult{Inserted: len(docs)}, nil
}

func SampleMenu() []models.MenuItem {
	return []models.MenuItem{
		{
			Name: "Goan Prawn Croquette", Category: "Starters",
			Description: ptr("Crisp prawn bites with kokum aioli"),
			Price:       ptr(420.0), Veg: false, SpicyLevel: ptr(2),
			Tags: []string{"goan", "prawn"},
		},
		{
			Name: "Kokum Fish Curry", Category: "Mains",
			Description: ptr("Tangy kokum-based curry, fresh catch of the day"),
			Price:       ptr(590.0), Veg: false, SpicyLevel: ptr(3),
			Tags: []string{"kokum", "malvani"},
		},
		{
			Name: "Mumbai Biryani", Category: "Mains",
			Description: ptr("City-style fragrant biryani with raita"),
			Price:       ptr(520.0), Veg: false, SpicyLevel: ptr(2),
			Tags: []string{"biryani"},
		},
		{
			Name: "Sol Kadhi", Category: "Beverages",
			Description: ptr("Refreshing kokum-coconut cooler"),
			Price:       ptr(180.0), Veg: true, SpicyLevel: ptr(0),
			Tags: []string{"kokum", "refresh"},
		},
		{
			Name: "Puran Poli", Category: "Desserts",
			Description: ptr("Classic sweet flatbread with ghee"),
			Price:       ptr(260.0), Veg: true, SpicyLevel: ptr(0),
			Tags: []string{"maharashtrian"},
		},
		{
			Name: "Masala Chai", Category: "Beverages",
			Description: ptr("Spiced tea the Mumbai way"),
			Price:       ptr(120.0), Veg: true, SpicyLevel: ptr(0),
			Tags: []string{"chai"},
		},
	}
}

func SampleReviews() []models.Review {
	return []models.Review{
		{Name: "Aarav", Rating: 5, Comment: "Sensational kokum fish curry and the Sol Kadhi was a perfect finish.", City: ptr("Mumbai")},
		{Name: "Meera", Rating: 5, Comment: "Warm hospitality, refined flavours, and gorgeous interiors.", City: ptr("Pune")},
		{Name: "Zahir", Rating: 4, Comment: "Goan prawn croquettes are a must-try. Will be back!", City: ptr("Mumbai")},
	}
}

func ptr[T any](v T) *T { return &v }
