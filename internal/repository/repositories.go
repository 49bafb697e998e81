// Package repository selects the storage backend for the configured environment.
package repository

import (
	"context"
	"log/slog"

	"blogsmith/internal/config"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/repository/memory"
	"blogsmith/internal/repository/postgres"
)

// Set is every repository the services need, backed by one store
type Set struct {
	Outlines      repositories.OutlineRepository
	Feedback      repositories.FeedbackRepository
	Posts         repositories.PostRepository
	Categories    repositories.CategoryRepository
	Ledger        repositories.LedgerRepository
	Subscriptions repositories.SubscriptionRepository
	Purchases     repositories.PurchaseRepository
	Customers     repositories.CustomerRepository
	Events        repositories.WebhookEventRepository
	WordPress     repositories.WordPressIntegrationRepository
	TxManager     repositories.TransactionManager

	close func()
}

// Close releases the underlying pool, if any
func (s *Set) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open returns postgres repositories for cfg, or in-memory ones when no
// database URL is configured outside prod.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	if cfg.UseMemoryStore() {
		logger.Warn("SUPABASE_DB_URL not set, using in-memory store (data is lost on restart)")
		return NewMemorySet(memory.NewStore()), nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "table_prefix", cfg.TablePrefix)

	rc := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	return &Set{
		Outlines:      postgres.NewOutlineRepository(rc),
		Feedback:      postgres.NewFeedbackRepository(rc),
		Posts:         postgres.NewPostRepository(rc),
		Categories:    postgres.NewCategoryRepository(rc),
		Ledger:        postgres.NewLedgerRepository(rc),
		Subscriptions: postgres.NewSubscriptionRepository(rc),
		Purchases:     postgres.NewPurchaseRepository(rc),
		Customers:     postgres.NewCustomerRepository(rc),
		Events:        postgres.NewWebhookEventRepository(rc),
		WordPress:     postgres.NewWordPressRepository(rc),
		TxManager:     postgres.NewTransactionManager(pool, logger),
		close:         pool.Close,
	}, nil
}

// NewMemorySet builds repositories over one in-memory store
func NewMemorySet(store *memory.Store) *Set {
	return &Set{
		Outlines:      memory.NewOutlineRepository(store),
		Feedback:      memory.NewFeedbackRepository(store),
		Posts:         memory.NewPostRepository(store),
		Categories:    memory.NewCategoryRepository(store),
		Ledger:        memory.NewLedgerRepository(store),
		Subscriptions: memory.NewSubscriptionRepository(store),
		Purchases:     memory.NewPurchaseRepository(store),
		Customers:     memory.NewCustomerRepository(store),
		Events:        memory.NewWebhookEventRepository(store),
		WordPress:     memory.NewWordPressRepository(store),
		TxManager:     memory.NewTransactionManager(store),
	}
}
