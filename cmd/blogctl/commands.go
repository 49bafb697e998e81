package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"blogsmith/internal/auth"
	"blogsmith/internal/config"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/migrate"
	"blogsmith/internal/repository"
	"blogsmith/internal/service/admin"
	"blogsmith/internal/service/billing"
	"blogsmith/internal/service/posts"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errProduction = errors.New("refusing destructive operation in prod")

// cli carries state shared by every subcommand
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Operator tasks for blogsmith: migrations, roles, seed data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			c.cfg = config.Load()
			c.out = cmd.OutOrStdout()
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))
			return nil
		},
	}

	root.AddCommand(
		c.migrateCmd(),
		c.setAdminRoleCmd(),
		c.seedCategoriesCmd(),
		c.grantTokensCmd(),
	)
	return root
}

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	step := func(use, short string, destructive bool, fn func(*migrate.Migrator, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if destructive {
					if err := guardDestructive(c.cfg); err != nil {
						return err
					}
				}
				if c.cfg.SupabaseDBURL == "" {
					return errors.New("SUPABASE_DB_URL is required")
				}
				m := migrate.New(c.cfg.SupabaseDBURL, c.cfg.TablePrefix)
				if err := fn(m, cmd.Context()); err != nil {
					return fmt.Errorf("migrate %s: %w", use, err)
				}
				c.logger.Info("migrate "+use+" complete", "environment", c.cfg.Environment, "table_prefix", c.cfg.TablePrefix)
				return nil
			},
		}
	}

	cmd.AddCommand(
		step("up", "Apply all pending migrations", false, (*migrate.Migrator).Up),
		step("down", "Roll back the most recent migration", true, (*migrate.Migrator).Down),
		step("status", "Show applied and pending migrations", false, (*migrate.Migrator).Status),
		step("reset", "Roll back every migration", true, (*migrate.Migrator).Reset),
	)
	return cmd
}

func (c *cli) setAdminRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-admin-role <email>",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.SupabaseURL == "" || c.cfg.SupabaseKey == "" {
				return errors.New("SUPABASE_URL and SUPABASE_KEY are required")
			}
			svc := admin.NewService(auth.NewAdminClient(c.cfg.SupabaseURL, c.cfg.SupabaseKey), nil, c.logger)
			if err := svc.GrantAdmin(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s is now an admin\n", args[0])
			return nil
		},
	}
}

func (c *cli) seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-categories",
		Short: "Create the default global categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := c.openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer repos.Close()

			categories, err := posts.EnsureDefaultCategories(cmd.Context(), repos.Categories)
			if err != nil {
				return err
			}
			for _, cat := range categories {
				fmt.Fprintf(c.out, "%s\t%s\n", cat.Slug, cat.ID)
			}
			return nil
		},
	}
}

func (c *cli) grantTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-tokens <user-id> <amount>",
		Short: "Credit tokens to a user outside of billing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			repos, err := c.openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer repos.Close()

			balance, err := billing.NewLedgerService(repos.Ledger, c.logger).Credit(cmd.Context(), args[0], amount, services.CreditSourceManual)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "balance for %s: %d\n", args[0], balance)
			return nil
		},
	}
}

// openRepositories refuses the in-memory store since nothing would persist
func (c *cli) openRepositories(ctx context.Context) (*repository.Set, error) {
	if c.cfg.UseMemoryStore() {
		return nil, errors.New("SUPABASE_DB_URL is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return repository.Open(ctx, c.cfg, c.logger)
}

func guardDestructive(cfg *config.Config) error {
	if cfg.Environment == "prod" {
		return errProduction
	}
	return nil
}

func parseAmount(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("amount must be a positive integer, got %q", raw)
	}
	return n, nil
}
