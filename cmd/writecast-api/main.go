package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/writecast-labs/writecast/backend/internal/auth"
	"github.com/writecast-labs/writecast/backend/internal/config"
	"github.com/writecast-labs/writecast/backend/internal/database"
	"github.com/writecast-labs/writecast/backend/internal/game"
	"github.com/writecast-labs/writecast/backend/internal/leaderboard"
	"github.com/writecast-labs/writecast/backend/internal/logging"
	"github.com/writecast-labs/writecast/backend/internal/server"
	"github.com/writecast-labs/writecast/backend/internal/users"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "writecast-api",
		Short: "Writecast word game backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("redis-address", defaults.GetString("redis.address"), "Redis address for leaderboard caching (empty disables)")
	cmd.PersistentFlags().String("farcaster-domain", defaults.GetString("farcaster.domain"), "Domain expected in Quick Auth tokens")
	cmd.PersistentFlags().String("farcaster-jwks-url", defaults.GetString("farcaster.jwks_url"), "Farcaster Quick Auth JWKS URL")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("auth.token_ttl_minutes"), "Session token TTL in minutes")
	cmd.PersistentFlags().String("base-url", defaults.GetString("app.base_url"), "Public base URL used in share links")
	cmd.PersistentFlags().String("expiry-schedule", defaults.GetString("expiry.schedule"), "Cron schedule for settling expired games")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Session signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "redis.address", "redis-address")
	bindFlag(cmd, "farcaster.domain", "farcaster-domain")
	bindFlag(cmd, "farcaster.jwks_url", "farcaster-jwks-url")
	bindFlag(cmd, "auth.token_ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "app.base_url", "base-url")
	bindFlag(cmd, "expiry.schedule", "expiry-schedule")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if appConfig.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: appConfig.RedisAddress})
		defer redisClient.Close()
	}

	tokenIssuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "writecast-auth",
		Audience:      "writecast-api",
		TokenTTL:      appConfig.TokenTTL,
	})
	if err != nil {
		return err
	}

	sessionValidator, err := auth.NewSessionValidator(auth.SessionValidatorConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "writecast-auth",
		CookieName:    appConfig.SessionCookie,
	})
	if err != nil {
		return err
	}

	verifier, err := auth.NewFarcasterVerifier(auth.FarcasterVerifierConfig{
		Domain:  appConfig.FarcasterDomain,
		JWKSURL: appConfig.FarcasterJWKS,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	userService, err := users.NewService(users.ServiceConfig{
		Database: db,
		Clock:    time.Now,
	})
	if err != nil {
		return err
	}

	realtime := server.NewRealtimeDispatcher()

	gameService, err := game.NewService(game.ServiceConfig{
		Database:     db,
		Clock:        time.Now,
		IDProvider:   game.NewUUIDProvider(),
		CodeProvider: game.NewRandomCodeProvider(),
		Events:       realtime,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	leaderboardService, err := leaderboard.NewService(leaderboard.ServiceConfig{
		Database: db,
		Redis:    redisClient,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Verifier:         verifier,
		TokenManager:     tokenIssuer,
		SessionValidator: sessionValidator,
		GameService:      gameService,
		UserService:      userService,
		Leaderboards:     leaderboardService,
		Realtime:         realtime,
		Logger:           logger,
		BaseURL:          appConfig.BaseURL,
	})
	if err != nil {
		return err
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(appConfig.ExpirySchedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		settled, err := gameService.MarkExpired(sweepCtx)
		if err != nil {
			logger.Error("expiry sweep failed", zap.Error(err))
			return
		}
		if settled > 0 {
			logger.Info("settled expired games", zap.Int64("count", settled))
		}
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
