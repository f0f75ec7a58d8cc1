package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/writecast-labs/writecast/backend/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLimit   = 10
	maxLimit       = 50
	defaultCacheTTL = 30 * time.Second

	playersCacheKeyFormat = "leaderboard:players:%d"
	authorsCacheKeyFormat = "leaderboard:authors:%d"

	// authorPointsPerFailedGuess mirrors the engine's derived-earnings rule;
	// the author board is computed from game counters, never a stored total.
	authorPointsPerFailedGuess = 5
)

var errMissingDatabase = errors.New("leaderboard: database handle is required")

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Points      int64  `json:"points"`
	Games       int64  `json:"games"`
}

// ServiceConfig bundles the leaderboard dependencies. Redis is optional; a
// nil client disables caching and every read goes to SQL.
type ServiceConfig struct {
	Database *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// Service serves the player and author boards with a cache-aside Redis layer.
type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService validates configuration and constructs the service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       cfg.Database,
		redis:    cfg.Redis,
		cacheTTL: ttl,
		logger:   logger,
	}, nil
}

// ClampLimit normalizes a caller-supplied limit into the allowed range.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Players returns the top players by earned points.
func (s *Service) Players(ctx context.Context, limit int) ([]Entry, error) {
	limit = ClampLimit(limit)
	cacheKey := fmt.Sprintf(playersCacheKeyFormat, limit)
	if entries, ok := s.fromCache(ctx, cacheKey); ok {
		return entries, nil
	}

	var rows []users.User
	if err := s.db.WithContext(ctx).
		Where("total_games_played > 0").
		Order("total_points_earned DESC, total_games_won DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("leaderboard: player query failed: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for index, row := range rows {
		entries = append(entries, Entry{
			Rank:        index + 1,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			Points:      row.TotalPointsEarned,
			Games:       row.TotalGamesPlayed,
		})
	}

	s.toCache(ctx, cacheKey, entries)
	return entries, nil
}

// authorRow carries the derived author earnings aggregate out of the join.
type authorRow struct {
	Username     string
	DisplayName  string
	TotalFailed  int64
	GamesCreated int64
}

// Authors returns the top authors by derived earnings: five points per
// failed guess across their games, summed on demand.
func (s *Service) Authors(ctx context.Context, limit int) ([]Entry, error) {
	limit = ClampLimit(limit)
	cacheKey := fmt.Sprintf(authorsCacheKeyFormat, limit)
	if entries, ok := s.fromCache(ctx, cacheKey); ok {
		return entries, nil
	}

	var rows []authorRow
	if err := s.db.WithContext(ctx).
		Table("games").
		Select("users.username AS username, users.display_name AS display_name, SUM(games.failed_guesses) AS total_failed, COUNT(games.id) AS games_created").
		Joins("JOIN users ON users.id = games.author_id").
		Group("games.author_id, users.username, users.display_name").
		Order("total_failed DESC, games_created DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("leaderboard: author query failed: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for index, row := range rows {
		entries = append(entries, Entry{
			Rank:        index + 1,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			Points:      row.TotalFailed * authorPointsPerFailedGuess,
			Games:       row.GamesCreated,
		})
	}

	s.toCache(ctx, cacheKey, entries)
	return entries, nil
}

// fromCache attempts a Redis read. Cache failures degrade to SQL silently.
func (s *Service) fromCache(ctx context.Context, key string) ([]Entry, bool) {
	if s.redis == nil {
		return nil, false
	}
	payload, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		s.logger.Warn("leaderboard cache payload corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return entries, true
}

func (s *Service) toCache(ctx context.Context, key string, entries []Entry) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
