package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"yantrashilpa.com/web/internal/config"
)

// Authenticator checks the single configured console identity.
type Authenticator struct {
	email string
	hash  []byte
	id    string
}

// NewAuthenticator prefers a configured bcrypt hash and otherwise hashes the
// plain password once at start-up.
func NewAuthenticator(cfg config.AdminConfig) (*Authenticator, error) {
	return newAuthenticator(cfg, bcrypt.DefaultCost)
}

func newAuthenticator(cfg config.AdminConfig, cost int) (*Authenticator, error) {
	email := normalizeEmail(cfg.Email)
	if email == "" {
		return nil, errors.New("auth: admin email is empty")
	}

	var hash []byte
	switch {
	case cfg.PasswordHash != "":
		hash = []byte(cfg.PasswordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("auth: ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
	case cfg.Password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash admin password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("auth: admin password is empty")
	}

	return &Authenticator{
		email: email,
		hash:  hash,
		id:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
	}, nil
}

// Verify always runs bcrypt so a wrong email costs the same as a wrong password.
func (a *Authenticator) Verify(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(a.email)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return emailOK && passOK
}

func (a *Authenticator) Email() string { return a.email }

// UserID is stable across restarts for the configured email.
func (a *Authenticator) UserID() string { return a.id }

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
