package auth

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/config"
	"yantrashilpa.com/web/internal/database"
)

const (
	testEmail    = "admin@yantrashilpa.com"
	testPassword = "YantraAdmin2025!"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Throttle{}, &Session{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := newAuthenticator(config.AdminConfig{Email: testEmail, Password: testPassword}, bcrypt.MinCost)
	require.NoError(t, err)
	return a
}

func newTestService(t *testing.T) (*Service, *fakeClock, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewService(ServiceDeps{
		Authenticator: newTestAuthenticator(t),
		Limiter:       NewLimiter(db, 5, 15*time.Minute).WithClock(clock.Now),
		Sessions:      NewSessionStore(db, 24*time.Hour).WithClock(clock.Now),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, clock, db
}
