package database

import (
	"errors"
	"time"

	"github.com/writecast-labs/writecast/backend/internal/game"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationBackfillGameExpiry  = "2026-07-14_backfill_game_expiry"
	migrationSettleExpiredStatus = "2026-07-21_settle_expired_status"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillGameExpiry, apply: backfillGameExpiry},
		{name: migrationSettleExpiredStatus, apply: settleExpiredStatus},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// backfillGameExpiry fills expires_at for rows created before the column
// existed: 24 hours after creation, matching the publish-time rule.
func backfillGameExpiry(db *gorm.DB) error {
	return db.Exec(
		"UPDATE games SET expires_at = datetime(created_at, '+24 hours') WHERE expires_at IS NULL OR expires_at = ''",
	).Error
}

// settleExpiredStatus flips stored status for games whose reveal time passed
// while no sweeper was running.
func settleExpiredStatus(db *gorm.DB) error {
	return db.Model(&game.Game{}).
		Where("status = ? AND expires_at <= ?", game.GameActive, time.Now().UTC()).
		Update("status", game.GameExpired).Error
}
