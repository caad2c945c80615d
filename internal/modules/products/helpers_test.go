package products

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/database"
	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Product{}, &audit.Event{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if m.putErr != nil {
		return storage.PutResult{}, m.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return storage.PutResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "k" + in.Filename
	m.objects[key] = buf.Bytes()
	return storage.PutResult{Key: key, URL: "/uploads/" + key}, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	store := newMemStore()
	svc := NewService(ServiceDeps{
		DB:      db,
		Storage: store,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, store, db
}
