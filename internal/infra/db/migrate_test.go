package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{
		"migrations/00001_init.sql",
		"migrations/00002_material_types.sql",
	}, names)

	for _, name := range names {
		body, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"), name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestInitSchemaTables(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/00001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"material_type", "material", "product", "product_material"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, string(body), "REFERENCES material (id) ON DELETE RESTRICT")
}

func TestConnect_BadDSN(t *testing.T) {
	_, err := Connect(t.Context(), "postgres://%zz")
	assert.ErrorContains(t, err, "parse dsn")
}
