package migration

import (
	"github.com/wiremail/wiremail-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates the mailbox schema if it does not exist. Records are
// append + partial-update only, so there is nothing beyond
// AutoMigrate here: no destructive changes, no data backfills.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Message{})
}
