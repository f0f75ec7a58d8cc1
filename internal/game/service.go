package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/writecast-labs/writecast/backend/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase     = errors.New("database handle is required")
	errMissingIDProvider   = errors.New("id provider is required")
	errMissingCodeProvider = errors.New("code provider is required")
	noOpLogger             = zap.NewNop()

	// ErrGameNotFound indicates no active game matches the supplied code.
	ErrGameNotFound = errors.New("game: not found")
	// ErrGameExpired indicates the game's 24h play window has closed.
	ErrGameExpired = errors.New("game: expired")
	// ErrIsAuthor indicates a player tried to play their own game.
	ErrIsAuthor = errors.New("game: authors cannot play their own game")
	// ErrAlreadyCompleted indicates the session already reached a terminal state.
	ErrAlreadyCompleted = errors.New("game: session already completed")
	// ErrOutOfAttempts indicates the attempt ceiling was reached.
	ErrOutOfAttempts = errors.New("game: out of attempts")
	// ErrAlreadyInvited indicates a second invite for the same (game, inviter) pair.
	ErrAlreadyInvited = errors.New("game: invite already used for this game")
	// ErrInviteNotFound indicates the invite id does not exist.
	ErrInviteNotFound = errors.New("game: invite not found")
	// ErrInviteClosed indicates the invite is no longer pending.
	ErrInviteClosed = errors.New("game: invite no longer pending")
	// ErrEmptyGuess indicates a blank guess submission.
	ErrEmptyGuess = errors.New("game: guess must not be empty")
	// ErrCodeExhausted indicates code generation kept colliding.
	ErrCodeExhausted = errors.New("game: could not allocate a unique game code")
)

// ServiceError carries a dotted operation/reason code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew     = "game.service.new"
	opCreateGame     = "game.create"
	opGameByCode     = "game.by_code"
	opSessionFor     = "game.session_for"
	opSubmitGuess    = "game.submit_guess"
	opGrantInvite    = "game.grant_invite"
	opAcceptInvite   = "game.accept_invite"
	opCompleteInvite = "game.complete_invite"
	opReveal         = "game.reveal"
	opAttemptsFor    = "game.attempts_for"
	opAvailable      = "game.available"
	opMarkExpired    = "game.mark_expired"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

const codeAllocationAttempts = 5

// EventType labels realtime game events.
type EventType string

const (
	EventGuess     EventType = "guess"
	EventCompleted EventType = "game-completed"
)

// Event describes something that happened on a game, for live observers.
type Event struct {
	GameCode      string
	Type          EventType
	PlayerID      string
	AttemptNumber int
	Correct       bool
	SessionStatus SessionStatus
	OccurredAt    time.Time
}

// EventSink receives game events. Publishing must never block the guess path.
type EventSink interface {
	PublishGameEvent(event Event)
}

// ServiceConfig bundles the engine's dependencies.
type ServiceConfig struct {
	Database     *gorm.DB
	Clock        func() time.Time
	IDProvider   IDProvider
	CodeProvider CodeProvider
	Events       EventSink
	Logger       *zap.Logger
}

// Service owns the guess session rules: attempt counting, win/loss
// transitions, invite-driven bonus attempts, and scoring.
type Service struct {
	db           *gorm.DB
	clock        func() time.Time
	idProvider   IDProvider
	codeProvider CodeProvider
	events       EventSink
	logger       *zap.Logger
}

// NewService validates configuration and constructs the engine.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	if cfg.CodeProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_code_provider", errMissingCodeProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:           cfg.Database,
		clock:        clock,
		idProvider:   cfg.IDProvider,
		codeProvider: cfg.CodeProvider,
		events:       cfg.Events,
		logger:       logger,
	}, nil
}

// CreateGame publishes a new puzzle and returns it with its shareable code.
func (s *Service) CreateGame(ctx context.Context, authorID string, mode GameMode, bodyText, hiddenWord string) (Game, error) {
	author, err := validatePlayerID(authorID)
	if err != nil {
		return Game{}, newServiceError(opCreateGame, "invalid_author", err)
	}
	word, err := validateHiddenWord(hiddenWord)
	if err != nil {
		return Game{}, newServiceError(opCreateGame, "invalid_hidden_word", err)
	}
	body, err := validateBodyText(bodyText)
	if err != nil {
		return Game{}, newServiceError(opCreateGame, "invalid_body_text", err)
	}
	if mode != ModeFillBlank && mode != ModeFrameWord {
		return Game{}, newServiceError(opCreateGame, "invalid_mode", fmt.Errorf("%w: %q", ErrInvalidMode, mode))
	}
	if mode == ModeFillBlank && !ContainsWord(body, word) {
		return Game{}, newServiceError(opCreateGame, "word_not_in_text", ErrWordNotInText)
	}

	gameID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateGame, "id_generation_failed", err)
		return Game{}, newServiceError(opCreateGame, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	created := Game{
		ID:         gameID,
		AuthorID:   author,
		Mode:       mode,
		BodyText:   body,
		HiddenWord: word,
		Status:     GameActive,
		CreatedAt:  now,
		ExpiresAt:  now.Add(gameLifetime),
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, codeErr := s.allocateCode(tx)
		if codeErr != nil {
			return codeErr
		}
		created.Code = code.String()
		if err := tx.Create(&created).Error; err != nil {
			return newServiceError(opCreateGame, "game_insert_failed", err)
		}
		if err := users.RecordGameCreated(tx, author); err != nil {
			return newServiceError(opCreateGame, "author_stats_failed", err)
		}
		return nil
	})
	if txErr != nil {
		s.logError(opCreateGame, "transaction_failed", txErr, zap.String("author_id", author))
		return Game{}, txErr
	}

	s.logger.Info("game created",
		zap.String("game_id", created.ID),
		zap.String("code", created.Code),
		zap.String("mode", string(mode)))
	return created, nil
}

func (s *Service) allocateCode(tx *gorm.DB) (GameCode, error) {
	for attempt := 0; attempt < codeAllocationAttempts; attempt++ {
		code, err := s.codeProvider.NewCode()
		if err != nil {
			return "", newServiceError(opCreateGame, "code_generation_failed", err)
		}
		var count int64
		if err := tx.Model(&Game{}).Where("code = ?", code.String()).Count(&count).Error; err != nil {
			return "", newServiceError(opCreateGame, "code_lookup_failed", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", newServiceError(opCreateGame, "code_space_exhausted", ErrCodeExhausted)
}

// GameByCode looks a game up by its shareable code. The row is returned even
// when expired; callers decide whether expired games are playable.
func (s *Service) GameByCode(ctx context.Context, code GameCode) (Game, error) {
	var found Game
	err := s.db.WithContext(ctx).Where("code = ?", code.String()).Take(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Game{}, newServiceError(opGameByCode, "not_found", ErrGameNotFound)
	}
	if err != nil {
		s.logError(opGameByCode, "query_failed", err, zap.String("code", code.String()))
		return Game{}, newServiceError(opGameByCode, "query_failed", err)
	}
	return found, nil
}

// SessionFor is the startOrResume read: it returns the player's session for
// the game, or (nil, nil) when the player has not interacted yet. Sessions
// are only ever created by the first guess or the first invite.
func (s *Service) SessionFor(ctx context.Context, gameID, playerID string) (*GameSession, error) {
	player, err := validatePlayerID(playerID)
	if err != nil {
		return nil, newServiceError(opSessionFor, "invalid_player", err)
	}

	var session GameSession
	lookupErr := s.db.WithContext(ctx).
		Where("game_id = ? AND player_id = ?", gameID, player).
		Take(&session).Error
	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if lookupErr != nil {
		s.logError(opSessionFor, "query_failed", lookupErr, zap.String("game_id", gameID))
		return nil, newServiceError(opSessionFor, "query_failed", lookupErr)
	}
	return &session, nil
}

// GuessResult is the caller-visible outcome of a single guess submission.
type GuessResult struct {
	Correct           bool
	AttemptNumber     int
	PointsEarned      int
	SessionStatus     SessionStatus
	MaxAttempts       int
	RemainingAttempts int
	CanInvite         bool
}

// SubmitGuess runs one guess through the session state machine. The whole
// mutation happens in a single transaction with the session row locked, so
// concurrent submissions for the same (game, player) pair serialize and
// attempt numbering stays gap-free.
func (s *Service) SubmitGuess(ctx context.Context, code GameCode, playerID, guess string) (GuessResult, error) {
	player, err := validatePlayerID(playerID)
	if err != nil {
		return GuessResult{}, newServiceError(opSubmitGuess, "invalid_player", err)
	}
	trimmedGuess := strings.TrimSpace(guess)
	if trimmedGuess == "" {
		return GuessResult{}, newServiceError(opSubmitGuess, "empty_guess", ErrEmptyGuess)
	}

	var result GuessResult
	var event *Event
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target Game
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", code.String()).
			Take(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newServiceError(opSubmitGuess, "game_not_found", ErrGameNotFound)
		}
		if err != nil {
			return newServiceError(opSubmitGuess, "game_select_failed", err)
		}
		if target.AuthorID == player {
			return newServiceError(opSubmitGuess, "is_author", ErrIsAuthor)
		}
		now := s.clock().UTC()
		if target.ExpiredAt(now) {
			return newServiceError(opSubmitGuess, "game_expired", ErrGameExpired)
		}

		session, err := s.lockSession(tx, target.ID, player)
		if err != nil {
			return err
		}
		if session == nil {
			session, err = s.createSession(tx, &target, player)
			if err != nil {
				return err
			}
		}
		if session.Terminal() {
			return newServiceError(opSubmitGuess, "already_completed", ErrAlreadyCompleted)
		}
		if session.TotalAttempts >= session.MaxAttempts() {
			return newServiceError(opSubmitGuess, "out_of_attempts", ErrOutOfAttempts)
		}

		correct := MatchGuess(trimmedGuess, target.HiddenWord)
		attemptNumber := session.TotalAttempts + 1

		attemptID, err := s.idProvider.NewID()
		if err != nil {
			return newServiceError(opSubmitGuess, "id_generation_failed", err)
		}
		attempt := GameAttempt{
			ID:            attemptID,
			SessionID:     session.ID,
			GameID:        target.ID,
			PlayerID:      player,
			Guess:         trimmedGuess,
			IsCorrect:     correct,
			AttemptNumber: attemptNumber,
			CreatedAt:     now,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return newServiceError(opSubmitGuess, "attempt_insert_failed", err)
		}

		session.TotalAttempts = attemptNumber
		gameCounters := map[string]interface{}{
			"total_attempts": gorm.Expr("total_attempts + 1"),
		}

		switch {
		case correct:
			session.Status = SessionWon
			session.PointsEarned = WinPoints(attemptNumber)
			gameCounters["successful_guesses"] = gorm.Expr("successful_guesses + 1")
			if err := users.RecordPlayerResult(tx, player, session.PointsEarned, true); err != nil {
				return newServiceError(opSubmitGuess, "player_stats_failed", err)
			}
		case attemptNumber >= session.MaxAttempts():
			session.Status = SessionLost
			session.PointsEarned = 0
			gameCounters["failed_guesses"] = gorm.Expr("failed_guesses + 1")
			if err := users.RecordPlayerResult(tx, player, 0, false); err != nil {
				return newServiceError(opSubmitGuess, "player_stats_failed", err)
			}
		}

		if err := tx.Model(&GameSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"status":         session.Status,
				"total_attempts": session.TotalAttempts,
				"points_earned":  session.PointsEarned,
			}).Error; err != nil {
			return newServiceError(opSubmitGuess, "session_update_failed", err)
		}
		if err := tx.Model(&Game{}).Where("id = ?", target.ID).Updates(gameCounters).Error; err != nil {
			return newServiceError(opSubmitGuess, "game_update_failed", err)
		}

		remaining := session.MaxAttempts() - session.TotalAttempts
		if session.Terminal() {
			remaining = 0
		}
		result = GuessResult{
			Correct:           correct,
			AttemptNumber:     attemptNumber,
			PointsEarned:      session.PointsEarned,
			SessionStatus:     session.Status,
			MaxAttempts:       session.MaxAttempts(),
			RemainingAttempts: remaining,
			CanInvite:         session.Status == SessionInProgress && remaining == 1 && !session.HasUsedInvite,
		}

		eventType := EventGuess
		if session.Terminal() {
			eventType = EventCompleted
		}
		event = &Event{
			GameCode:      code.String(),
			Type:          eventType,
			PlayerID:      player,
			AttemptNumber: attemptNumber,
			Correct:       correct,
			SessionStatus: session.Status,
			OccurredAt:    now,
		}
		return nil
	})
	if txErr != nil {
		s.logGuessFailure(txErr, code, player)
		return GuessResult{}, txErr
	}

	if s.events != nil && event != nil {
		s.events.PublishGameEvent(*event)
	}
	return result, nil
}

// lockSession loads the session row FOR UPDATE, or nil when absent.
func (s *Service) lockSession(tx *gorm.DB, gameID, playerID string) (*GameSession, error) {
	var session GameSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("game_id = ? AND player_id = ?", gameID, playerID).
		Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newServiceError(opSubmitGuess, "session_select_failed", err)
	}
	return &session, nil
}

// createSession lazily creates the session on a player's first interaction
// and counts them toward the game's player aggregate.
func (s *Service) createSession(tx *gorm.DB, target *Game, playerID string) (*GameSession, error) {
	sessionID, err := s.idProvider.NewID()
	if err != nil {
		return nil, newServiceError(opSubmitGuess, "id_generation_failed", err)
	}
	session := GameSession{
		ID:       sessionID,
		GameID:   target.ID,
		PlayerID: playerID,
		Status:   SessionInProgress,
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, newServiceError(opSubmitGuess, "session_insert_failed", err)
	}
	if err := tx.Model(&Game{}).
		Where("id = ?", target.ID).
		Update("total_players", gorm.Expr("total_players + 1")).Error; err != nil {
		return nil, newServiceError(opSubmitGuess, "game_update_failed", err)
	}
	return &session, nil
}

// GrantInviteBonus records the player's single help invite for the game and
// immediately raises their attempt ceiling to four. The grant does not wait
// for the invited friend to accept or play.
func (s *Service) GrantInviteBonus(ctx context.Context, code GameCode, inviterID, invitedUsername string) (GameInvite, error) {
	inviter, err := validatePlayerID(inviterID)
	if err != nil {
		return GameInvite{}, newServiceError(opGrantInvite, "invalid_inviter", err)
	}
	username := strings.TrimPrefix(strings.TrimSpace(invitedUsername), "@")
	if username == "" {
		return GameInvite{}, newServiceError(opGrantInvite, "invalid_username", fmt.Errorf("%w: empty invited username", ErrInvalidPlayerID))
	}

	var invite GameInvite
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target Game
		err := tx.Where("code = ?", code.String()).Take(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newServiceError(opGrantInvite, "game_not_found", ErrGameNotFound)
		}
		if err != nil {
			return newServiceError(opGrantInvite, "game_select_failed", err)
		}
		if target.AuthorID == inviter {
			return newServiceError(opGrantInvite, "is_author", ErrIsAuthor)
		}
		now := s.clock().UTC()
		if target.ExpiredAt(now) {
			return newServiceError(opGrantInvite, "game_expired", ErrGameExpired)
		}

		var existing int64
		if err := tx.Model(&GameInvite{}).
			Where("game_id = ? AND inviter_id = ?", target.ID, inviter).
			Count(&existing).Error; err != nil {
			return newServiceError(opGrantInvite, "invite_lookup_failed", err)
		}
		if existing > 0 {
			return newServiceError(opGrantInvite, "already_invited", ErrAlreadyInvited)
		}

		session, err := s.lockSession(tx, target.ID, inviter)
		if err != nil {
			return err
		}
		if session == nil {
			session, err = s.createSession(tx, &target, inviter)
			if err != nil {
				return err
			}
		}
		if session.Terminal() {
			return newServiceError(opGrantInvite, "already_completed", ErrAlreadyCompleted)
		}
		if session.HasUsedInvite {
			return newServiceError(opGrantInvite, "already_invited", ErrAlreadyInvited)
		}

		inviteID, err := s.idProvider.NewID()
		if err != nil {
			return newServiceError(opGrantInvite, "id_generation_failed", err)
		}
		invite = GameInvite{
			ID:              inviteID,
			GameID:          target.ID,
			InviterID:       inviter,
			InvitedUsername: username,
			Status:          InvitePending,
			CreatedAt:       now,
		}
		if err := tx.Create(&invite).Error; err != nil {
			return newServiceError(opGrantInvite, "invite_insert_failed", err)
		}

		if err := tx.Model(&GameSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"bonus_attempts":  1,
				"has_used_invite": true,
				"invite_id":       invite.ID,
			}).Error; err != nil {
			return newServiceError(opGrantInvite, "session_update_failed", err)
		}
		return nil
	})
	if txErr != nil {
		s.logError(opGrantInvite, "transaction_failed", txErr,
			zap.String("code", code.String()),
			zap.String("inviter_id", inviter))
		return GameInvite{}, txErr
	}

	s.logger.Info("invite bonus granted",
		zap.String("code", code.String()),
		zap.String("inviter_id", inviter),
		zap.String("invited", username))
	return invite, nil
}

// AcceptInvite links the invited friend to a pending invite once they show up.
func (s *Service) AcceptInvite(ctx context.Context, inviteID, invitedPlayerID string) error {
	player, err := validatePlayerID(invitedPlayerID)
	if err != nil {
		return newServiceError(opAcceptInvite, "invalid_player", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite GameInvite
		lookupErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", inviteID).
			Take(&invite).Error
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return newServiceError(opAcceptInvite, "not_found", ErrInviteNotFound)
		}
		if lookupErr != nil {
			return newServiceError(opAcceptInvite, "invite_select_failed", lookupErr)
		}
		if invite.Status != InvitePending {
			return newServiceError(opAcceptInvite, "invite_closed", ErrInviteClosed)
		}
		return tx.Model(&GameInvite{}).
			Where("id = ?", invite.ID).
			Updates(map[string]interface{}{
				"status":            InviteAccepted,
				"invited_player_id": player,
			}).Error
	})
}

// CompleteInviteFor closes the referral loop after the invited friend wins:
// the invite is marked completed and the inviter earns the referral credit.
// It is a no-op when the winner was not playing on an accepted invite. This
// runs downstream of the guess path, never inside it.
func (s *Service) CompleteInviteFor(ctx context.Context, gameID, winnerPlayerID string) error {
	player, err := validatePlayerID(winnerPlayerID)
	if err != nil {
		return newServiceError(opCompleteInvite, "invalid_player", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite GameInvite
		lookupErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("game_id = ? AND invited_player_id = ? AND status = ?", gameID, player, InviteAccepted).
			Take(&invite).Error
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if lookupErr != nil {
			return newServiceError(opCompleteInvite, "invite_select_failed", lookupErr)
		}

		if err := tx.Model(&GameInvite{}).
			Where("id = ?", invite.ID).
			Updates(map[string]interface{}{
				"status":         InviteCompleted,
				"inviter_points": inviteCompletionPoints,
			}).Error; err != nil {
			return newServiceError(opCompleteInvite, "invite_update_failed", err)
		}
		if err := users.CreditPoints(tx, invite.InviterID, inviteCompletionPoints); err != nil {
			return newServiceError(opCompleteInvite, "inviter_stats_failed", err)
		}
		s.logger.Info("invite completed",
			zap.String("invite_id", invite.ID),
			zap.String("inviter_id", invite.InviterID))
		return nil
	})
}

// Reveal returns the full game row, hidden word and aggregates included,
// regardless of expiry. Withholding the answer from end users before the
// reveal time is the presentation layer's policy, not the engine's.
func (s *Service) Reveal(ctx context.Context, code GameCode) (Game, error) {
	var found Game
	err := s.db.WithContext(ctx).Where("code = ?", code.String()).Take(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Game{}, newServiceError(opReveal, "not_found", ErrGameNotFound)
	}
	if err != nil {
		s.logError(opReveal, "query_failed", err, zap.String("code", code.String()))
		return Game{}, newServiceError(opReveal, "query_failed", err)
	}
	return found, nil
}

// AttemptsFor returns the player's append-only attempt log for a game, in
// submission order.
func (s *Service) AttemptsFor(ctx context.Context, gameID, playerID string) ([]GameAttempt, error) {
	player, err := validatePlayerID(playerID)
	if err != nil {
		return nil, newServiceError(opAttemptsFor, "invalid_player", err)
	}

	var attempts []GameAttempt
	if err := s.db.WithContext(ctx).
		Where("game_id = ? AND player_id = ?", gameID, player).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		s.logError(opAttemptsFor, "query_failed", err, zap.String("game_id", gameID))
		return nil, newServiceError(opAttemptsFor, "query_failed", err)
	}
	return attempts, nil
}

// AvailableGames lists active, unexpired games the player can still play:
// not their own, and not ones they already finished.
func (s *Service) AvailableGames(ctx context.Context, playerID string) ([]Game, error) {
	player, err := validatePlayerID(playerID)
	if err != nil {
		return nil, newServiceError(opAvailable, "invalid_player", err)
	}

	finished := s.db.Model(&GameSession{}).
		Select("game_id").
		Where("player_id = ? AND status <> ?", player, SessionInProgress)

	var games []Game
	if err := s.db.WithContext(ctx).
		Where("status = ?", GameActive).
		Where("expires_at > ?", s.clock().UTC()).
		Where("author_id <> ?", player).
		Where("id NOT IN (?)", finished).
		Order("created_at DESC").
		Find(&games).Error; err != nil {
		s.logError(opAvailable, "query_failed", err, zap.String("player_id", player))
		return nil, newServiceError(opAvailable, "query_failed", err)
	}
	return games, nil
}

// MarkExpired flips active games past their reveal time to expired and
// returns how many rows changed. Expiry is also checked per guess, so the
// sweep only exists to settle the stored status for listings and reveals.
func (s *Service) MarkExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&Game{}).
		Where("status = ? AND expires_at <= ?", GameActive, s.clock().UTC()).
		Update("status", GameExpired)
	if result.Error != nil {
		s.logError(opMarkExpired, "update_failed", result.Error)
		return 0, newServiceError(opMarkExpired, "update_failed", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("games expired", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}

func (s *Service) logGuessFailure(err error, code GameCode, player string) {
	// Rule rejections are expected traffic; only storage faults are errors.
	switch {
	case errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrGameExpired),
		errors.Is(err, ErrIsAuthor),
		errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrOutOfAttempts):
		s.logger.Debug("guess rejected",
			zap.String("code", code.String()),
			zap.String("player_id", player),
			zap.Error(err))
	default:
		s.logError(opSubmitGuess, "transaction_failed", err,
			zap.String("code", code.String()),
			zap.String("player_id", player))
	}
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("game service error", attrs...)
}
