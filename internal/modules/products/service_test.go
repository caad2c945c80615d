package products

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/modules/audit"
)

const actor = "admin@yantrashilpa.com"

func validInput() CreateInput {
	return CreateInput{
		Name:        "Brake Test Rig",
		Category:    "Automotive Safety",
		Description: "Brake performance testing.",
		Image:       strings.NewReader("fake-png"),
		ImageMeta:   ImageMeta{Filename: "rig.png", ContentType: "image/png", Size: 8},
	}
}

func TestService_CreateStoresImageAndAudits(t *testing.T) {
	svc, store, db := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, actor, validInput())
	require.NoError(t, err)

	assert.Equal(t, "brake-test-rig", p.Slug)
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, "/uploads/krig.png", p.ImageURL)
	assert.Equal(t, []byte("fake-png"), store.objects["krig.png"])

	var events []audit.Event
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionProductCreated, events[0].Action)
	assert.Equal(t, p.ID, events[0].ProductID)
	assert.Equal(t, actor, events[0].Actor)
}

func TestService_CreateDeduplicatesSlug(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, actor, validInput())
	require.NoError(t, err)

	in := validInput()
	in.ImageMeta.Filename = "second.png"
	second, err := svc.Create(ctx, actor, in)
	require.NoError(t, err)

	assert.Equal(t, "brake-test-rig", first.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "brake-test-rig-"), second.Slug)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
		wantMsg string
	}{
		{"blank name", func(in *CreateInput) { in.Name = "   " }, ErrMissingFields, "Please fill in all required fields."},
		{"no category", func(in *CreateInput) { in.Category = "" }, ErrMissingFields, "Please fill in all required fields."},
		{"blank description", func(in *CreateInput) { in.Description = "\n" }, ErrMissingFields, "Please fill in all required fields."},
		{"unknown category", func(in *CreateInput) { in.Category = "Toys" }, ErrInvalidCategory, "Please fill in all required fields."},
		{"no image", func(in *CreateInput) { in.Image = nil }, ErrImageRequired, "Please select an image for the product."},
		{"not an image", func(in *CreateInput) { in.ImageMeta.ContentType = "application/pdf" }, ErrImageType, "Please select a valid image file."},
		{"declared too large", func(in *CreateInput) { in.ImageMeta.Size = DefaultMaxImageBytes + 1 }, ErrImageTooLarge, "Image size must be less than 5MB."},
		{"image checked before fields", func(in *CreateInput) {
			in.Name = ""
			in.ImageMeta.ContentType = "text/plain"
		}, ErrImageType, "Please select a valid image file."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), actor, in)
			assert.ErrorIs(t, err, tt.wantErr)
			msg, ok := Message(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Empty(t, store.objects)
		})
	}
}

func TestService_ExactlyFiveMiBIsAccepted(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := validInput()
	body := strings.Repeat("x", int(DefaultMaxImageBytes))
	in.Image = strings.NewReader(body)
	in.ImageMeta.Size = DefaultMaxImageBytes

	_, err := svc.Create(context.Background(), actor, in)
	assert.NoError(t, err)
}

func TestService_CreateRejectsUnderstatedSize(t *testing.T) {
	svc, store, _ := newTestService(t)
	in := validInput()
	in.Image = strings.NewReader(strings.Repeat("x", int(DefaultMaxImageBytes)+10))
	in.ImageMeta.Size = 10

	_, err := svc.Create(context.Background(), actor, in)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Empty(t, store.objects)
}

func TestService_CreateStorageFailure(t *testing.T) {
	svc, store, db := newTestService(t)
	store.putErr = errors.New("bucket unavailable")

	_, err := svc.Create(context.Background(), actor, validInput())
	assert.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestService_DeleteRemovesImage(t *testing.T) {
	svc, store, db := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, actor, validInput())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, actor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, deleted.Name)
	assert.Equal(t, []string{p.ImageKey}, store.deleted)

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var actions []string
	require.NoError(t, db.Model(&audit.Event{}).Order("created_at").Pluck("action", &actions).Error)
	assert.Contains(t, actions, audit.ActionProductDeleted)

	_, err = svc.Delete(ctx, actor, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ToggleStatusAndCatalog(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	n, err := Seed(ctx, svc.db)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	all, err := svc.Catalog(ctx, AllCategories)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "Engine Dynamometer Test Rig", all[0].Name)
	assert.Equal(t, "Crash Test Simulation Rig", all[5].Name)

	engine, err := svc.Catalog(ctx, "Engine Testing")
	require.NoError(t, err)
	assert.Equal(t, []string{"Engine Dynamometer Test Rig", "Transmission Test Bench"}, names(engine))

	toggled, err := svc.ToggleStatus(ctx, actor, engine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, toggled.Status)

	engine, err = svc.Catalog(ctx, "Engine Testing")
	require.NoError(t, err)
	assert.Equal(t, []string{"Transmission Test Bench"}, names(engine))

	unknown, err := svc.Catalog(ctx, "Spaceships")
	require.NoError(t, err)
	assert.Len(t, unknown, 5)

	_, err = svc.ToggleStatus(ctx, actor, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeed_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = Seed(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessage_UnknownError(t *testing.T) {
	_, ok := Message(errors.New("boom"))
	assert.False(t, ok)
}
