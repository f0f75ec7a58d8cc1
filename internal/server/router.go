package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/writecast-labs/writecast/backend/internal/auth"
	"github.com/writecast-labs/writecast/backend/internal/game"
	"github.com/writecast-labs/writecast/backend/internal/leaderboard"
	"github.com/writecast-labs/writecast/backend/internal/users"
	"go.uber.org/zap"
)

const (
	userIDContextKey    = "writecast_user_id"
	usernameContextKey  = "writecast_username"
	anonymousContextKey = "writecast_anonymous"

	anonHeaderName = "X-Anon-ID"

	heartbeatInterval = 25 * time.Second
)

var (
	errMissingQuickAuthVerifier = errors.New("quick auth verifier dependency required")
	errMissingTokenManager      = errors.New("token manager dependency required")
	errMissingGameService       = errors.New("game service dependency required")
	errMissingUserService       = errors.New("user service dependency required")
	errMissingLeaderboards      = errors.New("leaderboard service dependency required")
)

// QuickAuthVerifier validates Farcaster Quick Auth tokens.
type QuickAuthVerifier interface {
	Verify(ctx context.Context, token string) (auth.FarcasterClaims, error)
}

// SessionTokenManager issues and validates backend session tokens.
type SessionTokenManager interface {
	IssueSessionToken(ctx context.Context, userID, username string) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies wires the HTTP layer to the services it fronts.
type Dependencies struct {
	Verifier         QuickAuthVerifier
	TokenManager     SessionTokenManager
	SessionValidator *auth.SessionValidator
	GameService      *game.Service
	UserService      *users.Service
	Leaderboards     *leaderboard.Service
	Realtime         *RealtimeDispatcher
	Logger           *zap.Logger
	BaseURL          string
	Clock            func() time.Time
}

// NewHTTPHandler assembles the gin router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Verifier == nil {
		return nil, errMissingQuickAuthVerifier
	}
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.GameService == nil {
		return nil, errMissingGameService
	}
	if deps.UserService == nil {
		return nil, errMissingUserService
	}
	if deps.Leaderboards == nil {
		return nil, errMissingLeaderboards
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", anonHeaderName},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		verifier:     deps.Verifier,
		tokens:       deps.TokenManager,
		sessions:     deps.SessionValidator,
		games:        deps.GameService,
		users:        deps.UserService,
		leaderboards: deps.Leaderboards,
		realtime:     deps.Realtime,
		logger:       logger,
		baseURL:      strings.TrimRight(deps.BaseURL, "/"),
		clock:        clock,
	}

	router.GET("/healthz", handler.handleHealth)
	router.POST("/auth/farcaster", handler.handleFarcasterAuth)
	router.GET("/leaderboard/players", handler.handlePlayerLeaderboard)
	router.GET("/leaderboard/authors", handler.handleAuthorLeaderboard)

	authed := router.Group("/")
	authed.Use(handler.identifyCaller)
	authed.POST("/games", handler.handleCreateGame)
	authed.GET("/games", handler.handleListGames)
	authed.GET("/games/:code", handler.handleGetGame)
	authed.GET("/games/:code/session", handler.handleGetSession)
	authed.GET("/games/:code/attempts", handler.handleGetAttempts)
	authed.POST("/games/:code/guesses", handler.handleSubmitGuess)
	authed.POST("/games/:code/invites", handler.handleCreateInvite)
	authed.POST("/invites/:id/accept", handler.handleAcceptInvite)
	authed.GET("/games/:code/reveal", handler.handleReveal)
	authed.GET("/games/:code/events", handler.handleGameEvents)

	return router, nil
}

type httpHandler struct {
	verifier     QuickAuthVerifier
	tokens       SessionTokenManager
	sessions     *auth.SessionValidator
	games        *game.Service
	users        *users.Service
	leaderboards *leaderboard.Service
	realtime     *RealtimeDispatcher
	logger       *zap.Logger
	baseURL      string
	clock        func() time.Time
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type authRequestPayload struct {
	Token string `json:"token"`
}

type authResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

func (h *httpHandler) handleFarcasterAuth(c *gin.Context) {
	var request authRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	claims, err := h.verifier.Verify(c.Request.Context(), request.Token)
	if err != nil {
		h.logger.Warn("quick auth verification failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile := users.FarcasterProfile(strconv.FormatInt(claims.FID, 10), claims.Username, claims.DisplayName)
	user, err := h.users.Resolve(profile)
	if err != nil {
		h.logger.Error("failed to resolve user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity_failed"})
		return
	}

	token, expiresIn, err := h.tokens.IssueSessionToken(c.Request.Context(), user.ID, user.Username)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}

	if h.sessions != nil {
		c.SetCookie(h.sessions.CookieName(), token, int(expiresIn), "/", "", true, true)
	}

	c.JSON(http.StatusOK, authResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
		UserID:      user.ID,
		Username:    user.Username,
	})
}

// identifyCaller resolves the request to a stable player id: a backend Bearer
// token, the session cookie, or the anonymous device header, in that order.
func (h *httpHandler) identifyCaller(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		subject, err := h.tokens.ValidateToken(token)
		if err != nil {
			h.logger.Warn("token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDContextKey, subject)
		c.Set(anonymousContextKey, false)
		c.Next()
		return
	}

	if h.sessions != nil {
		if claims, err := h.sessions.ValidateRequest(c.Request); err == nil {
			c.Set(userIDContextKey, claims.Subject)
			c.Set(usernameContextKey, claims.Username)
			c.Set(anonymousContextKey, false)
			c.Next()
			return
		}
	}

	deviceID := strings.TrimSpace(c.GetHeader(anonHeaderName))
	if deviceID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := h.users.Resolve(users.AnonymousProfile(deviceID))
	if err != nil {
		h.logger.Error("failed to resolve anonymous user", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "identity_failed"})
		return
	}
	c.Set(userIDContextKey, user.ID)
	c.Set(usernameContextKey, user.Username)
	c.Set(anonymousContextKey, true)
	c.Next()
}

func (h *httpHandler) callerID(c *gin.Context) string {
	return c.GetString(userIDContextKey)
}

type createGamePayload struct {
	Mode       string `json:"mode"`
	Text       string `json:"text"`
	HiddenWord string `json:"hidden_word"`
}

type createGameResponse struct {
	GameID    string    `json:"game_id"`
	Code      string    `json:"code"`
	Mode      string    `json:"mode"`
	ExpiresAt time.Time `json:"expires_at"`
	ShareText string    `json:"share_text"`
}

func (h *httpHandler) handleCreateGame(c *gin.Context) {
	if c.GetBool(anonymousContextKey) {
		c.JSON(http.StatusForbidden, gin.H{"error": "sign_in_required"})
		return
	}

	var request createGamePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	mode, err := game.ParseMode(request.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_mode"})
		return
	}

	created, err := h.games.CreateGame(c.Request.Context(), h.callerID(c), mode, request.Text, request.HiddenWord)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{
		GameID:    created.ID,
		Code:      created.Code,
		Mode:      string(created.Mode),
		ExpiresAt: created.ExpiresAt,
		ShareText: h.gameShareText(created.Code),
	})
}

type gamePreviewPayload struct {
	Code       string    `json:"code"`
	Mode       string    `json:"mode"`
	MaskedText string    `json:"masked_text"`
	Players    int64     `json:"players"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (h *httpHandler) handleListGames(c *gin.Context) {
	games, err := h.games.AvailableGames(c.Request.Context(), h.callerID(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	previews := make([]gamePreviewPayload, 0, len(games))
	for _, item := range games {
		previews = append(previews, gamePreviewPayload{
			Code:       item.Code,
			Mode:       string(item.Mode),
			MaskedText: playerText(item),
			Players:    item.TotalPlayers,
			ExpiresAt:  item.ExpiresAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": previews})
}

type gamePlayPayload struct {
	Code          string    `json:"code"`
	Mode          string    `json:"mode"`
	MaskedText    string    `json:"masked_text"`
	ExpiresAt     time.Time `json:"expires_at"`
	MaxAttempts   int       `json:"max_attempts"`
	AttemptsUsed  int       `json:"attempts_used"`
	SessionStatus string    `json:"session_status,omitempty"`
}

func (h *httpHandler) handleGetGame(c *gin.Context) {
	code, err := game.NewGameCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return
	}

	found, err := h.games.GameByCode(c.Request.Context(), code)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	if found.ExpiredAt(h.clock().UTC()) {
		c.JSON(http.StatusGone, gin.H{"error": "game_expired"})
		return
	}

	payload := gamePlayPayload{
		Code:        found.Code,
		Mode:        string(found.Mode),
		MaskedText:  playerText(found),
		ExpiresAt:   found.ExpiresAt,
		MaxAttempts: game.BaseAttempts,
	}
	session, err := h.games.SessionFor(c.Request.Context(), found.ID, h.callerID(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	if session != nil {
		payload.MaxAttempts = session.MaxAttempts()
		payload.AttemptsUsed = session.TotalAttempts
		payload.SessionStatus = string(session.Status)
	}
	c.JSON(http.StatusOK, payload)
}

type sessionPayload struct {
	Status            string `json:"status"`
	TotalAttempts     int    `json:"total_attempts"`
	BonusAttempts     int    `json:"bonus_attempts"`
	HasUsedInvite     bool   `json:"has_used_invite"`
	PointsEarned      int    `json:"points_earned"`
	MaxAttempts       int    `json:"max_attempts"`
	RemainingAttempts int    `json:"remaining_attempts"`
}

func (h *httpHandler) handleGetSession(c *gin.Context) {
	found, ok := h.lookupGame(c)
	if !ok {
		return
	}
	session, err := h.games.SessionFor(c.Request.Context(), found.ID, h.callerID(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	if session == nil {
		c.Status(http.StatusNoContent)
		return
	}

	remaining := session.MaxAttempts() - session.TotalAttempts
	if session.Terminal() || remaining < 0 {
		remaining = 0
	}
	c.JSON(http.StatusOK, sessionPayload{
		Status:            string(session.Status),
		TotalAttempts:     session.TotalAttempts,
		BonusAttempts:     session.BonusAttempts,
		HasUsedInvite:     session.HasUsedInvite,
		PointsEarned:      session.PointsEarned,
		MaxAttempts:       session.MaxAttempts(),
		RemainingAttempts: remaining,
	})
}

type attemptPayload struct {
	Guess         string    `json:"guess"`
	IsCorrect     bool      `json:"is_correct"`
	AttemptNumber int       `json:"attempt_number"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *httpHandler) handleGetAttempts(c *gin.Context) {
	found, ok := h.lookupGame(c)
	if !ok {
		return
	}
	attempts, err := h.games.AttemptsFor(c.Request.Context(), found.ID, h.callerID(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	payload := make([]attemptPayload, 0, len(attempts))
	for _, attempt := range attempts {
		payload = append(payload, attemptPayload{
			Guess:         attempt.Guess,
			IsCorrect:     attempt.IsCorrect,
			AttemptNumber: attempt.AttemptNumber,
			CreatedAt:     attempt.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"attempts": payload})
}

type guessRequestPayload struct {
	Guess string `json:"guess"`
}

type guessResponsePayload struct {
	Correct           bool   `json:"correct"`
	AttemptNumber     int    `json:"attempt_number"`
	PointsEarned      int    `json:"points_earned"`
	SessionStatus     string `json:"session_status"`
	MaxAttempts       int    `json:"max_attempts"`
	RemainingAttempts int    `json:"remaining_attempts"`
	CanInvite         bool   `json:"can_invite"`
}

func (h *httpHandler) handleSubmitGuess(c *gin.Context) {
	code, err := game.NewGameCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return
	}
	var request guessRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	player := h.callerID(c)
	result, err := h.games.SubmitGuess(c.Request.Context(), code, player, request.Guess)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	if result.SessionStatus == game.SessionWon {
		// Referral crediting runs downstream of the guess path.
		go h.completeInvite(code, player)
	}

	c.JSON(http.StatusOK, guessResponsePayload{
		Correct:           result.Correct,
		AttemptNumber:     result.AttemptNumber,
		PointsEarned:      result.PointsEarned,
		SessionStatus:     string(result.SessionStatus),
		MaxAttempts:       result.MaxAttempts,
		RemainingAttempts: result.RemainingAttempts,
		CanInvite:         result.CanInvite,
	})
}

func (h *httpHandler) completeInvite(code game.GameCode, playerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	found, err := h.games.GameByCode(ctx, code)
	if err != nil {
		return
	}
	if err := h.games.CompleteInviteFor(ctx, found.ID, playerID); err != nil {
		h.logger.Warn("invite completion failed",
			zap.String("code", code.String()),
			zap.Error(err))
	}
}

type inviteRequestPayload struct {
	Friend string `json:"friend"`
}

type inviteResponsePayload struct {
	InviteID    string `json:"invite_id"`
	Code        string `json:"code"`
	MaxAttempts int    `json:"max_attempts"`
	ShareText   string `json:"share_text"`
	ShareURL    string `json:"share_url"`
}

func (h *httpHandler) handleCreateInvite(c *gin.Context) {
	code, err := game.NewGameCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return
	}
	var request inviteRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Friend) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	invite, err := h.games.GrantInviteBonus(c.Request.Context(), code, h.callerID(c), request.Friend)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inviteResponsePayload{
		InviteID:    invite.ID,
		Code:        code.String(),
		MaxAttempts: game.BaseAttempts + 1,
		ShareText:   h.inviteShareText(invite.InvitedUsername, code.String()),
		ShareURL:    fmt.Sprintf("%s/play/%s?invite=%s", h.baseURL, code.String(), invite.ID),
	})
}

func (h *httpHandler) handleAcceptInvite(c *gin.Context) {
	inviteID := strings.TrimSpace(c.Param("id"))
	if inviteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if err := h.games.AcceptInvite(c.Request.Context(), inviteID, h.callerID(c)); err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

type revealPayload struct {
	Code              string    `json:"code"`
	Mode              string    `json:"mode"`
	Text              string    `json:"text"`
	HiddenWord        string    `json:"hidden_word,omitempty"`
	Revealed          bool      `json:"revealed"`
	TotalPlayers      int64     `json:"total_players"`
	SuccessfulGuesses int64     `json:"successful_guesses"`
	FailedGuesses     int64     `json:"failed_guesses"`
	TotalAttempts     int64     `json:"total_attempts"`
	AuthorEarnings    int64     `json:"author_earnings"`
	ExpiresAt         time.Time `json:"expires_at"`
}

func (h *httpHandler) handleReveal(c *gin.Context) {
	code, err := game.NewGameCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return
	}

	found, err := h.games.Reveal(c.Request.Context(), code)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	now := h.clock().UTC()
	payload := revealPayload{
		Code:              found.Code,
		Mode:              string(found.Mode),
		Text:              playerText(found),
		Revealed:          found.ExpiredAt(now),
		TotalPlayers:      found.TotalPlayers,
		SuccessfulGuesses: found.SuccessfulGuesses,
		FailedGuesses:     found.FailedGuesses,
		TotalAttempts:     found.TotalAttempts,
		AuthorEarnings:    found.AuthorEarnings(),
		ExpiresAt:         found.ExpiresAt,
	}
	// The hidden word stays withheld until the answer window opens, except
	// for the author checking on their own game.
	if payload.Revealed || found.AuthorID == h.callerID(c) {
		payload.HiddenWord = found.HiddenWord
		payload.Text = found.BodyText
	}
	c.JSON(http.StatusOK, payload)
}

func (h *httpHandler) handleGameEvents(c *gin.Context) {
	code, err := game.NewGameCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return
	}
	if h.realtime == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "events_unavailable"})
		return
	}

	stream, cleanup := h.realtime.Subscribe(c.Request.Context(), code.String())
	defer cleanup()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, open := <-stream:
			if !open {
				return false
			}
			c.SSEvent(string(event.Type), gin.H{
				"attempt_number": event.AttemptNumber,
				"correct":        event.Correct,
				"session_status": string(event.SessionStatus),
				"occurred_at":    event.OccurredAt,
			})
			return true
		case <-heartbeat.C:
			c.SSEvent(realtimeHeartbeatEvent, gin.H{"at": h.clock().UTC()})
			return true
		}
	})
}

func (h *httpHandler) handlePlayerLeaderboard(c *gin.Context) {
	entries, err := h.leaderboards.Players(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logger.Error("player leaderboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *httpHandler) handleAuthorLeaderboard(c *gin.Context) {
	entries, err := h.leaderboards.Authors(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logger.Error("author leaderboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// lookupGame resolves the :code parameter or writes the error response itself.
func (h *httpHandler) lookupGame(c *gin.Context) (game.Game, bool) {
	code, err := game.NewGameCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return game.Game{}, false
	}
	found, err := h.games.GameByCode(c.Request.Context(), code)
	if err != nil {
		h.respondEngineError(c, err)
		return game.Game{}, false
	}
	return found, true
}

// playerText renders the game body the way players are allowed to see it.
func playerText(item game.Game) string {
	if item.Mode == game.ModeFillBlank {
		return game.MaskHiddenWord(item.BodyText, item.HiddenWord)
	}
	return item.BodyText
}

func (h *httpHandler) gameShareText(code string) string {
	return fmt.Sprintf("I hid a word in my writing. Can you find it?\n\nPlay %s at %s/play/%s", code, h.baseURL, code)
}

func (h *httpHandler) inviteShareText(friend, code string) string {
	return fmt.Sprintf("@%s I need your help on %s! Guess the hidden word and we both earn points: %s/play/%s", friend, code, h.baseURL, code)
}

func parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

// respondEngineError maps engine error kinds onto HTTP statuses.
func (h *httpHandler) respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game_not_found"})
	case errors.Is(err, game.ErrGameExpired):
		c.JSON(http.StatusGone, gin.H{"error": "game_expired"})
	case errors.Is(err, game.ErrIsAuthor):
		c.JSON(http.StatusConflict, gin.H{"error": "is_author"})
	case errors.Is(err, game.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "already_completed"})
	case errors.Is(err, game.ErrOutOfAttempts):
		c.JSON(http.StatusConflict, gin.H{"error": "out_of_attempts"})
	case errors.Is(err, game.ErrAlreadyInvited):
		c.JSON(http.StatusConflict, gin.H{"error": "already_invited"})
	case errors.Is(err, game.ErrInviteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invite_not_found"})
	case errors.Is(err, game.ErrInviteClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "invite_closed"})
	case errors.Is(err, game.ErrEmptyGuess),
		errors.Is(err, game.ErrInvalidGameCode),
		errors.Is(err, game.ErrInvalidMode),
		errors.Is(err, game.ErrInvalidHiddenWord),
		errors.Is(err, game.ErrInvalidBodyText),
		errors.Is(err, game.ErrWordNotInText),
		errors.Is(err, game.ErrInvalidPlayerID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
