package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/database"
)

func TestRecordAndRecent(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}))
	ctx := context.Background()

	require.NoError(t, Record(ctx, db, "admin@yantrashilpa.com", ActionProductCreated, "p-1", map[string]string{"name": "Rig"}))
	require.NoError(t, Record(ctx, db, "admin@yantrashilpa.com", ActionProductDeleted, "p-1", nil))

	evs, err := Recent(ctx, db, 5)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	var created Event
	for _, e := range evs {
		if e.Action == ActionProductCreated {
			created = e
		}
	}
	var payload map[string]string
	require.NoError(t, json.Unmarshal(created.Payload, &payload))
	assert.Equal(t, "Rig", payload["name"])
	assert.Equal(t, "p-1", created.ProductID)
}

func TestRecord_RejectsUnmarshalablePayload(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}))

	err = Record(context.Background(), db, "a", "x", "", map[string]any{"f": func() {}})
	assert.Error(t, err)
}
