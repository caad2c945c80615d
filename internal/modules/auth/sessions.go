package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CookieName is the cookie carrying the console session token.
const CookieName = "adminToken"

// ErrNoSession covers unknown, expired and empty tokens alike.
var ErrNoSession = errors.New("auth: no session")

// touchEvery limits last_seen_at writes to one per minute per session.
const touchEvery = time.Minute

type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	cp := *s
	cp.now = now
	return &cp
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create stores a new session and returns the raw token for the cookie.
func (s *SessionStore) Create(ctx context.Context, email, role string) (string, Session, error) {
	token, err := newToken()
	if err != nil {
		return "", Session{}, err
	}
	now := s.now()
	sess := Session{
		ID:         uuid.NewString(),
		TokenHash:  hashToken(token),
		Email:      email,
		Role:       role,
		ExpiresAt:  now.Add(s.ttl),
		LastSeenAt: now,
		CreatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", Session{}, err
	}
	return token, sess, nil
}

// Lookup resolves a cookie token to a live session.
func (s *SessionStore) Lookup(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	now := s.now()

	var sess Session
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", hashToken(token), now).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}

	if now.Sub(sess.LastSeenAt) >= touchEvery {
		if err := s.db.WithContext(ctx).Model(&Session{}).
			Where("id = ?", sess.ID).
			Update("last_seen_at", now).Error; err != nil {
			return Session{}, err
		}
		sess.LastSeenAt = now
	}
	return sess, nil
}

// Delete ends the session for token. Unknown tokens are not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&Session{}, "token_hash = ?", hashToken(token)).Error
}

func (s *SessionStore) ActiveCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Session{}).Where("expires_at > ?", s.now()).Count(&n).Error
	return n, err
}

// PurgeExpired removes sessions past their expiry and returns how many went.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&Session{}, "expires_at <= ?", s.now())
	return res.RowsAffected, res.Error
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
