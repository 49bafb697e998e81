// Package memory provides in-process implementations of the repository
// contracts. It backs local development without a database and the service
// and end-to-end tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/models/integration"
	"blogsmith/internal/domain/repositories"
)

type txKey struct{}

// Store holds every table in maps guarded by one mutex.
// ExecTx holds the mutex for the whole transaction and restores a snapshot on error.
type Store struct {
	mu sync.Mutex

	outlines     map[string]blog.Outline
	outlineOrder []string
	feedback     map[string]blog.Feedback
	feedbackSeq  []string
	posts        map[string]blog.Post
	postOrder    []string
	categories   map[string]blog.Category

	balances      map[string]billing.TokenBalance
	subscriptions map[string]billing.Subscription
	purchases     []billing.TokenPurchase
	customers     map[string]billing.StripeCustomer
	events        map[string]string

	integrations map[string]integration.WordPressIntegration
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		outlines:      make(map[string]blog.Outline),
		feedback:      make(map[string]blog.Feedback),
		posts:         make(map[string]blog.Post),
		categories:    make(map[string]blog.Category),
		balances:      make(map[string]billing.TokenBalance),
		subscriptions: make(map[string]billing.Subscription),
		customers:     make(map[string]billing.StripeCustomer),
		events:        make(map[string]string),
		integrations:  make(map[string]integration.WordPressIntegration),
	}
}

// lock acquires the store mutex unless ctx already belongs to a transaction on this store
func (s *Store) lock(ctx context.Context) func() {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ExecTx implements repositories.TransactionManager
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// snapshot copies every table. Values are stored by value, so a shallow map clone is enough.
func (s *Store) snapshot() *Store {
	return &Store{
		outlines:      maps.Clone(s.outlines),
		outlineOrder:  slices.Clone(s.outlineOrder),
		feedback:      maps.Clone(s.feedback),
		feedbackSeq:   slices.Clone(s.feedbackSeq),
		posts:         maps.Clone(s.posts),
		postOrder:     slices.Clone(s.postOrder),
		categories:    maps.Clone(s.categories),
		balances:      maps.Clone(s.balances),
		subscriptions: maps.Clone(s.subscriptions),
		purchases:     slices.Clone(s.purchases),
		customers:     maps.Clone(s.customers),
		events:        maps.Clone(s.events),
		integrations:  maps.Clone(s.integrations),
	}
}

func (s *Store) restore(snap *Store) {
	s.outlines = snap.outlines
	s.outlineOrder = snap.outlineOrder
	s.feedback = snap.feedback
	s.feedbackSeq = snap.feedbackSeq
	s.posts = snap.posts
	s.postOrder = snap.postOrder
	s.categories = snap.categories
	s.balances = snap.balances
	s.subscriptions = snap.subscriptions
	s.purchases = snap.purchases
	s.customers = snap.customers
	s.events = snap.events
	s.integrations = snap.integrations
}

// TableCounts reports row counts, used by tests to assert on side effects
type TableCounts struct {
	Outlines  int
	Feedback  int
	Posts     int
	Purchases int
	Events    int
}

// Counts returns the current row count of the append-heavy tables
func (s *Store) Counts() TableCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TableCounts{
		Outlines:  len(s.outlines),
		Feedback:  len(s.feedback),
		Posts:     len(s.posts),
		Purchases: len(s.purchases),
		Events:    len(s.events),
	}
}

// NewTransactionManager returns the store as a repositories.TransactionManager
func NewTransactionManager(s *Store) repositories.TransactionManager {
	return s
}
