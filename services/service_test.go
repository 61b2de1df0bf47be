package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inkwell/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Comment{},
		&models.Reaction{},
		&models.PostLike{},
		&models.AskSubmission{},
		&models.Tag{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// allPosts reports every slug as existing.
type allPosts struct{}

func (allPosts) Exists(string) bool { return true }
