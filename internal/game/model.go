package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// GameMode enumerates the two puzzle styles an author can publish.
type GameMode string

const (
	// ModeFillBlank masks the hidden word inside the displayed text.
	ModeFillBlank GameMode = "fill-blank"
	// ModeFrameWord shows the full text; players guess the word that frames it.
	ModeFrameWord GameMode = "frame-word"
)

// SessionStatus tracks a player's progress against one game.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionWon        SessionStatus = "won"
	SessionLost       SessionStatus = "lost"
)

// InviteStatus tracks the lifecycle of a help invite.
type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteAccepted  InviteStatus = "accepted"
	InviteCompleted InviteStatus = "completed"
)

// GameStatus distinguishes playable games from ones past their reveal time.
type GameStatus string

const (
	GameActive  GameStatus = "active"
	GameExpired GameStatus = "expired"
)

const (
	gameCodeLength      = 6
	maxHiddenWordLength = 64
	maxBodyTextLength   = 2000
	gameLifetime        = 24 * time.Hour
)

var (
	// ErrInvalidGameCode indicates the supplied code is empty or malformed.
	ErrInvalidGameCode = errors.New("game: invalid game code")
	// ErrInvalidPlayerID indicates the supplied player identifier is empty.
	ErrInvalidPlayerID = errors.New("game: invalid player id")
	// ErrInvalidMode indicates an unknown game mode value.
	ErrInvalidMode = errors.New("game: invalid game mode")
	// ErrInvalidHiddenWord indicates the hidden word is empty, too long, or not a single word.
	ErrInvalidHiddenWord = errors.New("game: invalid hidden word")
	// ErrInvalidBodyText indicates the masterpiece text is empty or exceeds limits.
	ErrInvalidBodyText = errors.New("game: invalid body text")
	// ErrWordNotInText indicates the hidden word does not appear word-bounded in the text.
	ErrWordNotInText = errors.New("game: hidden word must appear in the text")
)

// GameCode is a validated, upper-cased shareable game identifier.
type GameCode string

// NewGameCode validates raw input and returns a canonical GameCode.
// Codes are case-insensitive on the wire and stored upper-cased.
func NewGameCode(rawInput string) (GameCode, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(rawInput))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidGameCode)
	}
	if len(trimmed) != gameCodeLength {
		return "", fmt.Errorf("%w: must be %d characters", ErrInvalidGameCode, gameCodeLength)
	}
	for _, r := range trimmed {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidGameCode, r)
		}
	}
	return GameCode(trimmed), nil
}

// String returns the canonical code value.
func (c GameCode) String() string {
	return string(c)
}

// ParseMode validates a raw mode value.
func ParseMode(rawInput string) (GameMode, error) {
	switch GameMode(strings.ToLower(strings.TrimSpace(rawInput))) {
	case ModeFillBlank:
		return ModeFillBlank, nil
	case ModeFrameWord:
		return ModeFrameWord, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, rawInput)
	}
}

// Game is a published puzzle. Immutable after creation apart from the
// aggregate counters and the expiry status flip.
type Game struct {
	ID                string     `gorm:"column:id;primaryKey;size:190;not null"`
	Code              string     `gorm:"column:code;size:16;not null;uniqueIndex"`
	AuthorID          string     `gorm:"column:author_id;size:190;not null;index"`
	Mode              GameMode   `gorm:"column:mode;size:16;not null"`
	BodyText          string     `gorm:"column:body_text;type:text;not null"`
	HiddenWord        string     `gorm:"column:hidden_word;size:64;not null"`
	Status            GameStatus `gorm:"column:status;size:16;not null;default:'active';index"`
	TotalPlayers      int64      `gorm:"column:total_players;not null;default:0"`
	SuccessfulGuesses int64      `gorm:"column:successful_guesses;not null;default:0"`
	FailedGuesses     int64      `gorm:"column:failed_guesses;not null;default:0"`
	TotalAttempts     int64      `gorm:"column:total_attempts;not null;default:0"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt         time.Time  `gorm:"column:expires_at;not null;index"`
}

// TableName provides the explicit table binding for GORM.
func (Game) TableName() string {
	return "games"
}

// ExpiredAt reports whether the game's answer window has opened at the given instant.
func (g Game) ExpiredAt(now time.Time) bool {
	return g.Status == GameExpired || !now.Before(g.ExpiresAt)
}

// AuthorEarnings derives the author's points from the failure aggregate.
// Earnings are never stored; recomputing avoids double-counting drift.
func (g Game) AuthorEarnings() int64 {
	return g.FailedGuesses * authorPointsPerFailedGuess
}

// GameSession is one player's progress against one game. Created lazily by the
// first guess or the first invite; terminal once won or lost.
type GameSession struct {
	ID            string        `gorm:"column:id;primaryKey;size:190;not null"`
	GameID        string        `gorm:"column:game_id;size:190;not null;uniqueIndex:idx_sessions_game_player,priority:1"`
	PlayerID      string        `gorm:"column:player_id;size:190;not null;uniqueIndex:idx_sessions_game_player,priority:2"`
	Status        SessionStatus `gorm:"column:status;size:16;not null;default:'in_progress'"`
	TotalAttempts int           `gorm:"column:total_attempts;not null;default:0"`
	BonusAttempts int           `gorm:"column:bonus_attempts;not null;default:0"`
	HasUsedInvite bool          `gorm:"column:has_used_invite;not null;default:false"`
	PointsEarned  int           `gorm:"column:points_earned;not null;default:0"`
	InviteID      *string       `gorm:"column:invite_id;size:190"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (GameSession) TableName() string {
	return "game_sessions"
}

// MaxAttempts is the effective attempt ceiling for the session.
func (s GameSession) MaxAttempts() int {
	return BaseAttempts + s.BonusAttempts
}

// Terminal reports whether the session has reached a final state.
func (s GameSession) Terminal() bool {
	return s.Status == SessionWon || s.Status == SessionLost
}

// GameAttempt is an append-only log entry for a single guess submission.
type GameAttempt struct {
	ID            string    `gorm:"column:id;primaryKey;size:190;not null"`
	SessionID     string    `gorm:"column:session_id;size:190;not null;index"`
	GameID        string    `gorm:"column:game_id;size:190;not null;index:idx_attempts_game_player,priority:1"`
	PlayerID      string    `gorm:"column:player_id;size:190;not null;index:idx_attempts_game_player,priority:2"`
	Guess         string    `gorm:"column:guess;size:64;not null"`
	IsCorrect     bool      `gorm:"column:is_correct;not null"`
	AttemptNumber int       `gorm:"column:attempt_number;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (GameAttempt) TableName() string {
	return "game_attempts"
}

// GameInvite records a player's single help request for a game. The bonus
// attempt is granted on creation; acceptance and completion only affect the
// inviter's referral credit.
type GameInvite struct {
	ID              string       `gorm:"column:id;primaryKey;size:190;not null"`
	GameID          string       `gorm:"column:game_id;size:190;not null;uniqueIndex:idx_invites_game_inviter,priority:1"`
	InviterID       string       `gorm:"column:inviter_id;size:190;not null;uniqueIndex:idx_invites_game_inviter,priority:2"`
	InvitedUsername string       `gorm:"column:invited_username;size:190;not null"`
	InvitedPlayerID *string      `gorm:"column:invited_player_id;size:190"`
	Status          InviteStatus `gorm:"column:status;size:16;not null;default:'pending'"`
	InviterPoints   int          `gorm:"column:inviter_points;not null;default:0"`
	CreatedAt       time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (GameInvite) TableName() string {
	return "game_invites"
}

func validatePlayerID(rawInput string) (string, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPlayerID)
	}
	return trimmed, nil
}

func validateHiddenWord(rawInput string) (string, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidHiddenWord)
	}
	if len(trimmed) > maxHiddenWordLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidHiddenWord, maxHiddenWordLength)
	}
	if strings.ContainsFunc(trimmed, isWordSeparator) {
		return "", fmt.Errorf("%w: must be a single word", ErrInvalidHiddenWord)
	}
	return trimmed, nil
}

func validateBodyText(rawInput string) (string, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidBodyText)
	}
	if len(trimmed) > maxBodyTextLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidBodyText, maxBodyTextLength)
	}
	return trimmed, nil
}
