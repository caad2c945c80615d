package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/database"
)

func TestMigrateAndSeed(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	require.NoError(t, Migrate(db), "migrate is repeatable")

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)
}
