package pageviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/database"
)

func newTestCounter(t *testing.T) *Counter {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&PageView{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewCounter(db)
}

func TestCounter_RecordAndTotal(t *testing.T) {
	c := newTestCounter(t)
	ctx := context.Background()

	total, err := c.Total(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	for _, p := range []string{"/", "/", "/", "/gallery", "/about"} {
		require.NoError(t, c.Record(ctx, p))
	}

	total, err = c.Total(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)

	top, err := c.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "/", top[0].Path)
	assert.EqualValues(t, 3, top[0].Views)
	assert.Equal(t, "/about", top[1].Path)
}
