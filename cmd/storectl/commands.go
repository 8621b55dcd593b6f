package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	userspostgres "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	userstypes "github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

var errMissingDSN = errors.New("postgres DSN is required (--dsn or POSTGRES_DSN)")

type globalOptions struct {
	dsn     string
	timeout time.Duration
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "storectl",
		Short:         "Storefront maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL DSN")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall command timeout")

	cmd.AddCommand(migrateCmd(opts), purgeSessionsCmd(opts), createAdminCmd(opts))
	return cmd
}

func migrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storefront tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), opts, func(_ context.Context, db *gorm.DB) error {
				if err := migrations.Run(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func purgeSessionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired login sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), opts, func(ctx context.Context, db *gorm.DB) error {
				purged, err := userService(db).PurgeSessions(ctx)
				if err != nil {
					return fmt.Errorf("purge sessions: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", purged)
				return nil
			})
		},
	}
}

func createAdminCmd(opts *globalOptions) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator or promote an existing account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			return withDB(cmd.Context(), opts, func(ctx context.Context, db *gorm.DB) error {
				user, err := userService(db).EnsureAdmin(ctx, userstypes.RegisterInput{Email: email, Name: name, Password: password})
				if err != nil {
					return fmt.Errorf("create admin: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s (%s) ready\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Administrator email")
	cmd.Flags().StringVar(&name, "name", "Admin", "Display name")
	cmd.Flags().StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Administrator password")
	return cmd
}

func withDB(parent context.Context, opts *globalOptions, fn func(context.Context, *gorm.DB) error) error {
	if strings.TrimSpace(opts.dsn) == "" {
		return errMissingDSN
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, opts.timeout)
	defer cancel()

	db, err := platformpostgres.Connect(ctx, opts.dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = platformpostgres.Close(db) }()
	return fn(ctx, db)
}

func userService(db *gorm.DB) *usersapp.Service {
	return usersapp.NewService(userspostgres.NewRepository(db), userspostgres.NewSessionStore(db))
}
