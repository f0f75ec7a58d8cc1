package users

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// anonPrefix marks deterministic fallback identities for players who have not
// signed in with Farcaster.
const anonPrefix = "anon:"

// User captures a player/author identity plus aggregate stats. The player
// aggregates back the player leaderboard; author earnings stay derived from
// game counters and are never stored here.
type User struct {
	ID                string    `gorm:"column:id;primaryKey;size:190;not null"`
	FarcasterID       string    `gorm:"column:farcaster_id;size:190;not null;uniqueIndex"`
	Username          string    `gorm:"column:username;size:190"`
	DisplayName       string    `gorm:"column:display_name;size:320"`
	TotalPointsEarned int64     `gorm:"column:total_points_earned;not null;default:0"`
	TotalGamesPlayed  int64     `gorm:"column:total_games_played;not null;default:0"`
	TotalGamesWon     int64     `gorm:"column:total_games_won;not null;default:0"`
	TotalGamesCreated int64     `gorm:"column:total_games_created;not null;default:0"`
	LastSeenAt        time.Time `gorm:"column:last_seen_at;autoUpdateTime"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (User) TableName() string {
	return "users"
}

// Anonymous reports whether this user is a fallback identity rather than a
// verified Farcaster account.
func (u User) Anonymous() bool {
	return strings.HasPrefix(u.FarcasterID, anonPrefix)
}

// RecordGameCreated bumps the author's creation aggregate. Callable inside a
// surrounding game transaction.
func RecordGameCreated(tx *gorm.DB, userID string) error {
	return tx.Model(&User{}).
		Where("id = ?", userID).
		Update("total_games_created", gorm.Expr("total_games_created + 1")).Error
}

// RecordPlayerResult applies a finished session to the player aggregates.
func RecordPlayerResult(tx *gorm.DB, userID string, points int, won bool) error {
	updates := map[string]interface{}{
		"total_games_played":  gorm.Expr("total_games_played + 1"),
		"total_points_earned": gorm.Expr("total_points_earned + ?", points),
	}
	if won {
		updates["total_games_won"] = gorm.Expr("total_games_won + 1")
	}
	return tx.Model(&User{}).Where("id = ?", userID).Updates(updates).Error
}

// CreditPoints adds referral or bonus points outside the session scoring path.
func CreditPoints(tx *gorm.DB, userID string, points int) error {
	return tx.Model(&User{}).
		Where("id = ?", userID).
		Update("total_points_earned", gorm.Expr("total_points_earned + ?", points)).Error
}

// normalize value helper used across service implementation.
func normalize(value string) string {
	return strings.TrimSpace(value)
}
