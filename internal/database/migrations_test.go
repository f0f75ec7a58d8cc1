package database

import (
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/writecast-labs/writecast/backend/internal/game"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestApplyMigrationsSettlesOverdueGames(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "migration.db")

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}

	if err := database.AutoMigrate(&game.Game{}, &migrationRecord{}); err != nil {
		testContext.Fatalf("failed to migrate schema: %v", err)
	}

	overdue := game.Game{
		ID:         "game-1",
		Code:       "AAAAAA",
		AuthorID:   "author-1",
		Mode:       game.ModeFillBlank,
		BodyText:   "the cat sat",
		HiddenWord: "cat",
		Status:     game.GameActive,
		ExpiresAt:  time.Now().UTC().Add(-time.Hour),
	}
	if err := database.Create(&overdue).Error; err != nil {
		testContext.Fatalf("failed to insert game: %v", err)
	}
	current := game.Game{
		ID:         "game-2",
		Code:       "BBBBBB",
		AuthorID:   "author-1",
		Mode:       game.ModeFillBlank,
		BodyText:   "the cat sat",
		HiddenWord: "cat",
		Status:     game.GameActive,
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
	}
	if err := database.Create(&current).Error; err != nil {
		testContext.Fatalf("failed to insert game: %v", err)
	}

	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("failed to apply migrations: %v", err)
	}

	var settled game.Game
	if err := database.Where("id = ?", "game-1").Take(&settled).Error; err != nil {
		testContext.Fatalf("failed to reload game: %v", err)
	}
	if settled.Status != game.GameExpired {
		testContext.Fatalf("expected overdue game to be expired, got %s", settled.Status)
	}

	var untouched game.Game
	if err := database.Where("id = ?", "game-2").Take(&untouched).Error; err != nil {
		testContext.Fatalf("failed to reload game: %v", err)
	}
	if untouched.Status != game.GameActive {
		testContext.Fatalf("expected current game to stay active, got %s", untouched.Status)
	}

	var record migrationRecord
	if err := database.Where("name = ?", migrationSettleExpiredStatus).Take(&record).Error; err != nil {
		testContext.Fatalf("expected migration record to be created: %v", err)
	}
	if record.AppliedAtSeconds == 0 {
		testContext.Fatalf("expected migration timestamp to be set")
	}
}

func TestApplyMigrationsAreIdempotent(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "migration.db")

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&game.Game{}, &migrationRecord{}); err != nil {
		testContext.Fatalf("failed to migrate schema: %v", err)
	}

	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("first run failed: %v", err)
	}
	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("second run failed: %v", err)
	}

	var count int64
	if err := database.Model(&migrationRecord{}).Count(&count).Error; err != nil {
		testContext.Fatalf("failed to count records: %v", err)
	}
	if count != 2 {
		testContext.Fatalf("expected 2 migration records, got %d", count)
	}
}
