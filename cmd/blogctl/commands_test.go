package main

import (
	"bytes"
	"testing"

	"blogsmith/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "admin role needs email", args: []string{"set-admin-role"}, wantErr: "accepts 1 arg(s)"},
		{name: "grant needs amount", args: []string{"grant-tokens", "u1"}, wantErr: "accepts 2 arg(s)"},
		{name: "grant rejects zero", args: []string{"grant-tokens", "u1", "0"}, wantErr: "positive integer"},
		{name: "grant rejects text", args: []string{"grant-tokens", "u1", "lots"}, wantErr: "positive integer"},
		{name: "migrate takes no args", args: []string{"migrate", "up", "extra"}, wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSeedRequiresDatabase(t *testing.T) {
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("SUPABASE_DB_URL", "")

	_, err := run(t, "seed-categories")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_DB_URL")
}

func TestDestructiveMigrationsBlockedInProd(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("SUPABASE_DB_URL", "postgres://localhost/unused")

	for _, sub := range []string{"down", "reset"} {
		_, err := run(t, "migrate", sub)
		assert.ErrorIs(t, err, errProduction, sub)
	}
}

func TestGuardDestructive(t *testing.T) {
	assert.NoError(t, guardDestructive(&config.Config{Environment: "dev"}))
	assert.ErrorIs(t, guardDestructive(&config.Config{Environment: "prod"}), errProduction)
}

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("100000")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), n)

	_, err = parseAmount("-5")
	assert.Error(t, err)
}
