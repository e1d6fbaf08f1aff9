package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/migrations"
	"github.com/noah-isme/organic-api/internal/repository"
	"github.com/noah-isme/organic-api/internal/service"
	"github.com/noah-isme/organic-api/pkg/config"
	"github.com/noah-isme/organic-api/pkg/database"
	"github.com/noah-isme/organic-api/pkg/logger"
)

var (
	githubID int

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, db *sqlx.DB, logr *zap.Logger, _ *config.Config) error {
				applied, err := migrations.NewMigrator(db, logr).Up(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
				return nil
			})
		},
	}

	tokenCmd = &cobra.Command{
		Use:     "token",
		Short:   "Mint a bearer token for an existing user",
		Example: "organicctl token --github-id 19506566",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, db *sqlx.DB, logr *zap.Logger, cfg *config.Config) error {
				auth := service.NewAuthService(repository.NewUserRepository(db), logr, service.AuthConfig{
					Secret:      cfg.JWT.Secret,
					Expiry:      cfg.JWT.Expiration,
					Issuer:      cfg.JWT.Issuer,
					AdminEmails: cfg.AdminEmails,
				})
				token, expiresAt, err := auth.IssueForGithubID(ctx, githubID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
				return nil
			})
		},
	}
)

func init() {
	tokenCmd.Flags().IntVar(&githubID, "github-id", 0, "GitHub user id of the token subject")
	_ = tokenCmd.MarkFlagRequired("github-id")
}

func withDatabase(ctx context.Context, fn func(ctx context.Context, db *sqlx.DB, logr *zap.Logger, cfg *config.Config) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db, logr, cfg)
}
