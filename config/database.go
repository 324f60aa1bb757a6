package config

import (
	"context"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/utils"
)

// InitStore opens the configured document store and checks it answers
// within StoreTimeout.
func InitStore(cfg Config) (database.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()

	store, err := database.Open(ctx, database.Options{
		Driver: cfg.StoreDriver,
		URL:    cfg.DatabaseURL,
		Name:   cfg.DatabaseName,
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Document store ready (driver=%s, database=%s)", cfg.StoreDriver, store.Name())
	return store, nil
}
