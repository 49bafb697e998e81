package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   repositories.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Outlines              string
	Feedback              string
	Posts                 string
	Categories            string
	TokenBalances         string
	Subscriptions         string
	TokenPurchases        string
	StripeCustomers       string
	ProcessedEvents       string
	WordPressIntegrations string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Outlines:              fmt.Sprintf("%sblog_outlines", prefix),
		Feedback:              fmt.Sprintf("%sai_feedback", prefix),
		Posts:                 fmt.Sprintf("%sblog_posts", prefix),
		Categories:            fmt.Sprintf("%scategories", prefix),
		TokenBalances:         fmt.Sprintf("%stoken_balance", prefix),
		Subscriptions:         fmt.Sprintf("%ssubscriptions", prefix),
		TokenPurchases:        fmt.Sprintf("%stoken_purchases", prefix),
		StripeCustomers:       fmt.Sprintf("%sstripe_customers", prefix),
		ProcessedEvents:       fmt.Sprintf("%sprocessed_webhook_events", prefix),
		WordPressIntegrations: fmt.Sprintf("%suser_wordpress_integrations", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Supabase's transaction pooler (port 6543) does not support prepared statements,
// so on that port the default statement cache is swapped for QueryExecModeCacheDescribe,
// which keeps the extended protocol (needed for jsonb and text[] encoding) without
// preparing named statements. An explicit default_query_exec_mode in the URL wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or pool when there is none.
// Repositories call it for every statement so they join an ExecTx transaction automatically.
func GetExecutor(ctx context.Context, pool repositories.DBTX) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
