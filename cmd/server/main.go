// smolquery server: a small browser SQL editor over the BigQuery REST API,
// with a deterministic offline mock for unauthenticated sessions.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"smolquery/internal/api"
	"smolquery/internal/config"
	"smolquery/internal/db"
	"smolquery/internal/history"
	"smolquery/internal/kvstore"
	"smolquery/internal/query"
	"smolquery/internal/session"
	"smolquery/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var envPath string

	cmd := &cobra.Command{
		Use:   "smolquery",
		Short: "Browser SQL editor for BigQuery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envPath); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&envPath, "env-file", ".env", "path to .env file")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := db.Open(cfg.MetaDBPath)
	if err != nil {
		return fmt.Errorf("open metadata db: %w", err)
	}
	defer pool.Close() //nolint:errcheck
	if err := db.RunMigrations(pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	sessions := session.NewStore(kvstore.NewSQLiteStore(pool), logger)
	exec := query.NewExecutor(query.BigQueryFactory(), cfg.ProjectID, logger)

	handler := api.NewHandler(exec, sessions, logger)
	handler.SetCatalog(func(ctx context.Context, accessToken string) (api.CatalogLister, error) {
		return query.NewBigQueryClient(ctx, accessToken)
	}, cfg.ProjectID)

	repo := history.NewRepo(pool)
	handler.SetHistory(repo)

	if cfg.Auth.DevTokenSecret != "" {
		issuer, err := session.NewDevTokenIssuer(cfg.Auth.DevTokenSecret, cfg.Auth.DevTokenTTL)
		if err != nil {
			return fmt.Errorf("dev token issuer: %w", err)
		}
		handler.SetDevIssuer(issuer)
		logger.Info("dev sign-in enabled")
	}

	if cfg.Auth.OIDCEnabled() {
		provider, err := session.NewOIDCProvider(ctx, "oidc", session.OIDCConfig{
			IssuerURL:    cfg.Auth.IssuerURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  cfg.Auth.RedirectURL,
		})
		if err != nil {
			return fmt.Errorf("oidc provider: %w", err)
		}
		handler.SetIdentityProvider(provider)
		logger.Info("oidc sign-in enabled", "issuer", cfg.Auth.IssuerURL)
	}

	router := api.NewRouter(handler, ui.NewHandler(logger).Routes(), api.RouterConfig{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.HistoryRetentionDays > 0 {
		retention := time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour
		sweeper := history.NewSweeper(repo, retention, cfg.HistorySweepSchedule, logger)
		if err := sweeper.Start(); err != nil {
			return fmt.Errorf("history sweeper: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			sweeper.Stop()
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
