package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerConcurrentCredits(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerRepository(store)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Credit(ctx, "user-1", 100)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := ledger.GetBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*100), balance)
}

func TestExecTxRollsBackEveryWrite(t *testing.T) {
	store := NewStore()
	outlines := NewOutlineRepository(store)
	feedback := NewFeedbackRepository(store)
	ledger := NewLedgerRepository(store)
	ctx := context.Background()

	prev := &blog.Outline{UserID: "user-1", Title: "First"}
	require.NoError(t, outlines.Create(ctx, prev))
	before := store.Counts()

	boom := errors.New("boom")
	err := store.ExecTx(ctx, func(ctx context.Context) error {
		require.NoError(t, feedback.Create(ctx, &blog.Feedback{UserID: "user-1", OutlineID: prev.ID, Text: "shorter"}))
		require.NoError(t, outlines.Create(ctx, &blog.Outline{UserID: "user-1", Title: "Second"}))
		_, err := ledger.Credit(ctx, "user-1", 10)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, before, store.Counts())
	balance, err := ledger.GetBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestExecTxNestedDoesNotDeadlock(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerRepository(store)

	err := store.ExecTx(context.Background(), func(ctx context.Context) error {
		return store.ExecTx(ctx, func(ctx context.Context) error {
			_, err := ledger.Credit(ctx, "user-1", 1)
			return err
		})
	})
	require.NoError(t, err)
}

func TestOutlineListNewestFirstAndOwned(t *testing.T) {
	store := NewStore()
	outlines := NewOutlineRepository(store)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, outlines.Create(ctx, &blog.Outline{UserID: "user-1", Title: title}))
	}
	require.NoError(t, outlines.Create(ctx, &blog.Outline{UserID: "user-2", Title: "other"}))

	list, err := outlines.List(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].Title, list[1].Title, list[2].Title})

	_, err = outlines.GetByID(ctx, list[0].ID, "user-2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryVisibility(t *testing.T) {
	store := NewStore()
	categories := NewCategoryRepository(store)
	ctx := context.Background()
	owner := "user-1"

	global, err := categories.EnsureGlobal(ctx, "General", "general")
	require.NoError(t, err)
	again, err := categories.EnsureGlobal(ctx, "General", "general")
	require.NoError(t, err)
	assert.Equal(t, global.ID, again.ID)

	own := &blog.Category{Name: "Mine", Slug: "mine", UserID: &owner}
	require.NoError(t, categories.Create(ctx, own))

	err = categories.Create(ctx, &blog.Category{Name: "Mine", Slug: "mine", UserID: &owner})
	require.ErrorIs(t, err, domain.ErrConflict)

	visible, err := categories.ListVisible(ctx, owner)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.True(t, visible[0].IsGlobal())

	_, err = categories.GetVisible(ctx, own.ID, "user-2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
