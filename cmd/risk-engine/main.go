package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carebridge/riskengine/internal/config"
	"github.com/carebridge/riskengine/internal/domain/riskassessment"
	authpkg "github.com/carebridge/riskengine/internal/platform/auth"
	"github.com/carebridge/riskengine/internal/platform/cache"
	"github.com/carebridge/riskengine/internal/platform/db"
	"github.com/carebridge/riskengine/internal/platform/events"
	"github.com/carebridge/riskengine/internal/platform/metrics"
	"github.com/carebridge/riskengine/internal/platform/middleware"
	"github.com/carebridge/riskengine/internal/platform/notification"
	"github.com/carebridge/riskengine/migrations"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "risk-engine",
		Short: "Clinical risk assessment service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(assessCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the risk assessment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			schema := schemaFlag(cmd, cfg)

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, schema, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrations.FS)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			target, _ := cmd.Flags().GetInt("to")
			var count int
			if target > 0 {
				count, err = migrator.UpTo(ctx, schema, target)
			} else {
				count, err = migrator.Up(ctx, schema)
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target schema for migrations (defaults to DB_SCHEMA)")
	upCmd.Flags().Int("to", 0, "Stop after this migration version")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			schema := schemaFlag(cmd, cfg)

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, schema, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrations.FS)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.Drifted {
						status = "drifted"
					}
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "", "Target schema for migrations (defaults to DB_SCHEMA)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func schemaFlag(cmd *cobra.Command, cfg *config.Config) string {
	if s, _ := cmd.Flags().GetString("schema"); s != "" {
		return s
	}
	return cfg.DBSchema
}

// assessCmd scores a processed questionnaire offline. Nothing is stored and
// no one is notified.
func assessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a processed questionnaire from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			in := io.Reader(os.Stdin)
			if path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open questionnaire: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runAssess(in, cmd.OutOrStdout(), newEngine(cfg))
		},
	}
	cmd.Flags().StringP("file", "f", "-", "Questionnaire JSON file, - for stdin")
	return cmd
}

func runAssess(in io.Reader, out io.Writer, engine *riskassessment.Engine) error {
	var q riskassessment.ProcessedQuestionnaire
	if err := json.NewDecoder(in).Decode(&q); err != nil {
		return fmt.Errorf("decode questionnaire: %w", err)
	}
	a, err := engine.Assess(&q)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

func newEngine(cfg *config.Config) *riskassessment.Engine {
	rules := riskassessment.DefaultRules().WithContacts(cfg.EmergencyNumber, cfg.CrisisLineNumber)
	return riskassessment.NewEngine(rules, riskassessment.WithParallelAssessors(cfg.ParallelAssessors))
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	logger := zerolog.New(w).With().Timestamp().Str("service", "risk-engine").Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logger
	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")
	if err := db.NewMigrator(pool, migrations.FS).RequireCurrent(ctx, cfg.DBSchema); err != nil {
		logger.Fatal().Err(err).Msg("schema is not current; run `risk-engine migrate up`")
	}

	// Metrics
	m := metrics.New(metrics.Config{RuntimeMetrics: true})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(m.Middleware())

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		logger.Warn().Msg("authentication disabled, all requests run as the dev user")
		e.Use(authpkg.DevAuthMiddleware())
	} else {
		e.Use(authpkg.JWTMiddleware(authpkg.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    authpkg.AuthSkipper,
		}))
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	// Assessment store, optionally fronted by the latest-assessment cache
	repo := riskassessment.NewRepoPG(pool)
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		repo = riskassessment.NewCachedRepo(repo, cache.New(client, "risk:", cfg.LatestCacheTTL), logger)
		logger.Info().Dur("ttl", cfg.LatestCacheTTL).Msg("latest-assessment cache enabled")
	}

	// Notifications
	var sender notification.Sender
	if cfg.NotifyGatewayURL != "" {
		sender = notification.NewGatewaySender(notification.GatewayConfig{
			BaseURL:    cfg.NotifyGatewayURL,
			Token:      cfg.NotifyGatewayToken,
			Timeout:    cfg.CollaboratorTimeout,
			RetryCount: 2,
		})
	} else {
		logger.Warn().Msg("NOTIFY_GATEWAY_URL not set, notifications are only logged")
		sender = notification.NewLogSender(logger)
	}
	notifyMgr := notification.NewNotificationManager(sender, notification.NewTemplateEngine())
	trigger := riskassessment.NewAlertNotifier(notifyMgr, riskassessment.CareTeam{
		Phone: cfg.CareTeamPhone,
		Email: cfg.CareTeamEmail,
	})

	// Events
	var publisher riskassessment.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(events.Config{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: cfg.CollaboratorTimeout,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create event producer")
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error().Err(err).Msg("event producer close failed")
			}
		}()
		publisher = riskassessment.NewEventPublisher(producer)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("event publishing enabled")
	}

	svc := riskassessment.NewService(newEngine(cfg), repo, trigger, publisher, logger,
		riskassessment.WithCollaboratorTimeout(cfg.CollaboratorTimeout),
		riskassessment.WithObserver(m),
	)

	// API routes
	apiV1 := e.Group("/api/v1")
	riskassessment.NewHandler(svc).RegisterRoutes(apiV1)

	adminGroup := apiV1.Group("/admin", authpkg.RequireRole(authpkg.RoleAdmin))
	notification.NewNotificationHandler(notifyMgr).RegisterRoutes(adminGroup)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("version", version).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
