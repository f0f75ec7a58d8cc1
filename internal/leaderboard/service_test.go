package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	sqlite "github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/writecast-labs/writecast/backend/internal/game"
	"github.com/writecast-labs/writecast/backend/internal/users"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:leaderboard_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &game.Game{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedPlayer(t *testing.T, db *gorm.DB, id string, points, played, won int64) {
	t.Helper()
	user := users.User{
		ID:                id,
		FarcasterID:       "fid:" + id,
		Username:          id,
		DisplayName:       "Player " + id,
		TotalPointsEarned: points,
		TotalGamesPlayed:  played,
		TotalGamesWon:     won,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}

func seedGame(t *testing.T, db *gorm.DB, id, code, authorID string, failedGuesses int64) {
	t.Helper()
	row := game.Game{
		ID:            id,
		Code:          code,
		AuthorID:      authorID,
		Mode:          game.ModeFillBlank,
		BodyText:      "the cat sat",
		HiddenWord:    "cat",
		Status:        game.GameActive,
		FailedGuesses: failedGuesses,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed game %s: %v", id, err)
	}
}

func TestPlayersRanksByPoints(t *testing.T) {
	db := newTestDatabase(t)
	seedPlayer(t, db, "alice", 40, 5, 3)
	seedPlayer(t, db, "bob", 60, 4, 4)
	seedPlayer(t, db, "carol", 0, 0, 0)

	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}

	entries, err := service.Players(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 ranked players, got %d", len(entries))
	}
	if entries[0].Username != "bob" || entries[0].Rank != 1 || entries[0].Points != 60 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Username != "alice" || entries[1].Rank != 2 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestAuthorsDerivesEarningsFromFailedGuesses(t *testing.T) {
	db := newTestDatabase(t)
	seedPlayer(t, db, "alice", 0, 0, 0)
	seedPlayer(t, db, "bob", 0, 0, 0)
	seedGame(t, db, "game-1", "AAAAAA", "alice", 4)
	seedGame(t, db, "game-2", "BBBBBB", "alice", 2)
	seedGame(t, db, "game-3", "CCCCCC", "bob", 3)

	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}

	entries, err := service.Authors(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(entries))
	}
	if entries[0].Username != "alice" || entries[0].Points != 30 || entries[0].Games != 2 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Username != "bob" || entries[1].Points != 15 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestPlayersServesRepeatReadsFromCache(t *testing.T) {
	db := newTestDatabase(t)
	seedPlayer(t, db, "alice", 40, 5, 3)

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	service, err := NewService(ServiceConfig{Database: db, Redis: client, CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}

	first, err := service.Players(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(first))
	}

	// A stale cached board proves the second read skipped SQL.
	seedPlayer(t, db, "bob", 90, 2, 2)
	second, err := service.Players(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 1 || second[0].Username != "alice" {
		t.Fatalf("expected cached board, got %+v", second)
	}

	redisServer.FastForward(2 * time.Minute)
	third, err := service.Players(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(third) != 2 || third[0].Username != "bob" {
		t.Fatalf("expected refreshed board after expiry, got %+v", third)
	}
}

func TestPlayersDegradesWhenRedisIsDown(t *testing.T) {
	db := newTestDatabase(t)
	seedPlayer(t, db, "alice", 40, 5, 3)

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	redisServer.Close()

	service, err := NewService(ServiceConfig{Database: db, Redis: client})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}

	entries, err := service.Players(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected SQL fallthrough, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		input  int
		expect int
	}{
		{input: 0, expect: defaultLimit},
		{input: -5, expect: defaultLimit},
		{input: 7, expect: 7},
		{input: maxLimit, expect: maxLimit},
		{input: maxLimit + 1, expect: maxLimit},
	}
	for _, testCase := range cases {
		if got := ClampLimit(testCase.input); got != testCase.expect {
			t.Fatalf("ClampLimit(%d) = %d, want %d", testCase.input, got, testCase.expect)
		}
	}
}
