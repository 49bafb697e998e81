package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"blogsmith/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFallsBackToMemoryOutsideProd(t *testing.T) {
	cfg := &config.Config{Environment: "dev"}
	set, err := Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer set.Close()

	ctx := context.Background()
	balance, err := set.Ledger.Credit(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	err = set.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		_, err := set.Ledger.Credit(txCtx, "u1", 5)
		return err
	})
	require.NoError(t, err)

	got, err := set.Ledger.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), got)
}
