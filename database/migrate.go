package database

import (
	"fmt"
	"time"

	"github.com/yeremiapane/kokum-coast/utils"
	"gorm.io/gorm"
)

// documentRow is one stored document of the SQL backend. The primary key
// is the hex ObjectID, which sorts in insertion order.
type documentRow struct {
	ID         string `gorm:"primaryKey;type:varchar(24)"`
	Collection string `gorm:"type:varchar(64);index;not null"`
	Body       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return fmt.Errorf("migrate documents table: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
