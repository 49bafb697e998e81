package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoConfig(t *testing.T) (*RepositoryConfig, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &RepositoryConfig{
		Pool:   mock,
		Tables: NewTableNames("test_"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, mock
}

func pattern(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("prod_")

	assert.Equal(t, "prod_blog_outlines", tables.Outlines)
	assert.Equal(t, "prod_ai_feedback", tables.Feedback)
	assert.Equal(t, "prod_blog_posts", tables.Posts)
	assert.Equal(t, "prod_token_balance", tables.TokenBalances)
	assert.Equal(t, "prod_processed_webhook_events", tables.ProcessedEvents)
	assert.Equal(t, "prod_user_wordpress_integrations", tables.WordPressIntegrations)
}

func TestOutlineRepository_Create(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewOutlineRepository(cfg)
	now := time.Now()

	outline := &blog.Outline{
		UserID:      "user-1",
		Title:       "Go for SaaS",
		MainKeyword: "go saas",
		Brief:       blog.Brief{Topic: "go", ICP: "founders", Style: "casual"},
	}

	mock.ExpectQuery(pattern("INSERT INTO test_blog_outlines (user_id, blog_post_id, title, main_keyword, key_points, brief)")).
		WithArgs("user-1", pgxmock.AnyArg(), "Go for SaaS", "go saas", []string{}, outline.Brief).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("outline-1", now))

	require.NoError(t, repo.Create(context.Background(), outline))
	assert.Equal(t, "outline-1", outline.ID)
	assert.Equal(t, now, outline.CreatedAt)
	assert.NotNil(t, outline.KeyPoints, "empty key points are stored as an empty array")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutlineRepository_GetByID(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewOutlineRepository(cfg)
	columns := []string{"id", "user_id", "blog_post_id", "title", "main_keyword", "key_points", "brief", "created_at"}
	brief := blog.Brief{Topic: "go"}

	mock.ExpectQuery(pattern("FROM test_blog_outlines")).
		WithArgs("outline-1", "user-1").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("outline-1", "user-1", nil, "Title", "kw", []string{"a", "b"}, brief, time.Now()))

	got, err := repo.GetByID(context.Background(), "outline-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.KeyPoints)
	assert.Nil(t, got.PostID)
	assert.Equal(t, "go", got.Brief.Topic)

	mock.ExpectQuery(pattern("FROM test_blog_outlines")).
		WithArgs("outline-2", "user-1").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "outline-2", "user-1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectQuery(pattern("FROM test_blog_outlines")).
		WithArgs("not-a-uuid", "user-1").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err = repo.GetByID(context.Background(), "not-a-uuid", "user-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutlineRepository_ListFiltersByPost(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewOutlineRepository(cfg)
	columns := []string{"id", "user_id", "blog_post_id", "title", "main_keyword", "key_points", "brief", "created_at"}
	postID := "post-1"

	mock.ExpectQuery(pattern("WHERE user_id = $1 AND blog_post_id = $2 ORDER BY created_at DESC")).
		WithArgs("user-1", postID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("o-2", "user-1", &postID, "Second", "kw", []string{"x"}, blog.Brief{}, time.Now()).
			AddRow("o-1", "user-1", &postID, "First", "kw", []string{"y"}, blog.Brief{}, time.Now().Add(-time.Hour)))

	outlines, err := repo.List(context.Background(), "user-1", postID)
	require.NoError(t, err)
	require.Len(t, outlines, 2)
	assert.Equal(t, "o-2", outlines[0].ID)
	require.NotNil(t, outlines[0].PostID)
	assert.Equal(t, postID, *outlines[0].PostID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutlineRepository_ListInvalidPostID(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewOutlineRepository(cfg)
	columns := []string{"id", "user_id", "blog_post_id", "title", "main_keyword", "key_points", "brief", "created_at"}

	mock.ExpectQuery(pattern("AND blog_post_id = $2")).
		WithArgs("user-1", "not-a-uuid").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("o-1", "user-1", nil, "T", "kw", []string{}, blog.Brief{}, time.Now()).
			RowError(0, &pgconn.PgError{Code: "22P02"}))

	outlines, err := repo.List(context.Background(), "user-1", "not-a-uuid")
	require.NoError(t, err)
	assert.NotNil(t, outlines)
	assert.Empty(t, outlines)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_ListByOutlinesEmpty(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewFeedbackRepository(cfg)

	feedback, err := repo.ListByOutlines(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, feedback)
	require.NoError(t, mock.ExpectationsWereMet(), "no query for an empty id list")
}

func TestLedgerRepository_Credit(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewLedgerRepository(cfg)

	mock.ExpectQuery(pattern("ON CONFLICT (user_id) DO UPDATE SET balance = t.balance + EXCLUDED.balance")).
		WithArgs("user-1", int64(100000)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(200000)))

	balance, err := repo.Credit(context.Background(), "user-1", 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_GetBalanceMissingRow(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewLedgerRepository(cfg)

	mock.ExpectQuery(pattern("SELECT balance FROM test_token_balance")).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	balance, err := repo.GetBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestWebhookEventRepository_MarkProcessed(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "first delivery", affected: 1, want: true},
		{name: "redelivery", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, mock := newRepoConfig(t)
			repo := NewWebhookEventRepository(cfg)

			mock.ExpectExec(pattern("INSERT INTO test_processed_webhook_events")).
				WithArgs("evt_1", "checkout.session.completed").
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			fresh, err := repo.MarkProcessed(context.Background(), "evt_1", "checkout.session.completed")
			require.NoError(t, err)
			assert.Equal(t, tt.want, fresh)
		})
	}
}

func TestSubscriptionRepository_GetByUserIDAbsent(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewSubscriptionRepository(cfg)

	mock.ExpectQuery(pattern("FROM test_subscriptions")).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	sub, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, sub)

	mock.ExpectQuery(pattern("WHERE stripe_subscription_id = $1")).
		WithArgs("sub_1").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByStripeID(context.Background(), "sub_1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscriptionRepository_Upsert(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewSubscriptionRepository(cfg)
	end := time.Now().Add(30 * 24 * time.Hour)
	now := time.Now()

	sub := &billing.Subscription{
		UserID:               "user-1",
		StripeSubscriptionID: "sub_1",
		Status:               billing.SubscriptionStatusActive,
		CurrentPeriodEnd:     &end,
	}

	mock.ExpectQuery(pattern("INSERT INTO test_subscriptions")).
		WithArgs("user-1", "sub_1", "active", &end).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	require.NoError(t, repo.Upsert(context.Background(), sub))
	assert.Equal(t, now, sub.UpdatedAt)
}

func TestPostRepository_DeleteMissing(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewPostRepository(cfg)

	mock.ExpectExec(pattern("DELETE FROM test_blog_posts WHERE id = $1 AND user_id = $2")).
		WithArgs("post-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "post-1", "user-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostRepository_UpdateIsSingleStatement(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewPostRepository(cfg)
	created := time.Now().Add(-time.Hour)
	post := &blog.Post{
		ID:         "post-1",
		UserID:     "user-1",
		Title:      "New Title",
		Slug:       "new-title",
		Content:    "# body",
		Status:     blog.PostStatusPublished,
		CategoryID: "cat-1",
		UpdatedAt:  time.Now(),
	}

	mock.ExpectQuery(pattern("SET title = $1, slug = $2, content = $3, status = $4, category_id = $5, updated_at = $6")).
		WithArgs("New Title", "new-title", "# body", "published", "cat-1", post.UpdatedAt, "post-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	require.NoError(t, repo.Update(context.Background(), post))
	assert.Equal(t, created, post.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_CreateDuplicate(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	repo := NewCategoryRepository(cfg)
	owner := "user-1"

	mock.ExpectQuery(pattern("INSERT INTO test_categories")).
		WithArgs("Tips", "tips", &owner).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &blog.Category{Name: "Tips", Slug: "tips", UserID: &owner})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransactionManager_CommitsAndJoinsRepositories(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	tm := NewTransactionManager(cfg.Pool, cfg.Logger)
	events := NewWebhookEventRepository(cfg)
	ledger := NewLedgerRepository(cfg)

	mock.ExpectBegin()
	mock.ExpectExec(pattern("INSERT INTO test_processed_webhook_events")).
		WithArgs("evt_1", "invoice.paid").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(pattern("INSERT INTO test_token_balance")).
		WithArgs("user-1", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(5)))
	mock.ExpectCommit()

	err := tm.ExecTx(context.Background(), func(ctx context.Context) error {
		require.NotNil(t, repositories.GetTx(ctx))
		if _, err := events.MarkProcessed(ctx, "evt_1", "invoice.paid"); err != nil {
			return err
		}
		_, err := ledger.Credit(ctx, "user-1", 5)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	tm := NewTransactionManager(cfg.Pool, cfg.Logger)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.ExecTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_NestedReusesOuter(t *testing.T) {
	cfg, mock := newRepoConfig(t)
	tm := NewTransactionManager(cfg.Pool, cfg.Logger)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tm.ExecTx(context.Background(), func(ctx context.Context) error {
		outer := repositories.GetTx(ctx)
		return tm.ExecTx(ctx, func(inner context.Context) error {
			assert.Equal(t, outer, repositories.GetTx(inner))
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
