package migrate

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableRef = regexp.MustCompile(`(?:CREATE TABLE IF NOT EXISTS|DROP TABLE IF EXISTS|REFERENCES|INDEX IF NOT EXISTS \S+\s+ON)\s+(\S+)`)

func TestMigrationsArePrefixed(t *testing.T) {
	files, err := fs.Glob(migrations, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			body, err := fs.ReadFile(migrations, name)
			require.NoError(t, err)
			text := string(body)

			assert.True(t, strings.HasPrefix(text, "-- +goose ENVSUB ON"), "envsub must be enabled before the first statement")
			assert.Contains(t, text, "-- +goose Up")
			assert.Contains(t, text, "-- +goose Down")

			for _, m := range tableRef.FindAllStringSubmatch(text, -1) {
				ref := m[1]
				assert.True(t, strings.HasPrefix(ref, "${TABLE_PREFIX}"), "unprefixed table %q", ref)
			}
		})
	}
}

func TestVersionTable(t *testing.T) {
	assert.Equal(t, "dev_goose_db_version", New("postgres://localhost/db", "dev_").VersionTable())
	assert.Equal(t, "goose_db_version", New("postgres://localhost/db", "").VersionTable())
}
