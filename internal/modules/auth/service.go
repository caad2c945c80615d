package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"yantrashilpa.com/web/internal/observability"
)

const lockedMessage = "Account is temporarily locked. Please try again later."

var (
	ErrLocked             = errors.New("auth: locked")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// LoginError is a rejected login with the message shown on the form.
type LoginError struct {
	Reason  error
	Message string
	Status  Status
}

func (e *LoginError) Error() string { return e.Reason.Error() }
func (e *LoginError) Unwrap() error { return e.Reason }

type LoginInput struct {
	Email     string
	Password  string
	ClientKey string // throttle key, the client IP
	RequestID string
}

type LoginResult struct {
	Token   string
	User    AuthUser
	Session Session
}

type Service struct {
	auth     *Authenticator
	limiter  *Limiter
	sessions *SessionStore
	log      *slog.Logger
	metrics  *observability.Metrics
}

type ServiceDeps struct {
	Authenticator *Authenticator
	Limiter       *Limiter
	Sessions      *SessionStore
	Logger        *slog.Logger
	Metrics       *observability.Metrics
}

func NewService(d ServiceDeps) *Service {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Service{auth: d.Authenticator, limiter: d.Limiter, sessions: d.Sessions, log: l, metrics: d.Metrics}
}

func (s *Service) Sessions() *SessionStore { return s.sessions }

// Status is the lockout state for key, for the login form hints.
func (s *Service) Status(ctx context.Context, key string) (Status, error) {
	return s.limiter.Check(ctx, key)
}

// Login checks the lock, then the credentials, and opens a session.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "auth.Login")
	defer span.End()

	st, err := s.limiter.Check(ctx, in.ClientKey)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: check throttle: %w", err)
	}
	if st.Locked {
		span.SetAttributes(attribute.String("auth.outcome", "locked"))
		s.log.WarnContext(ctx, "admin_login_blocked",
			"request_id", in.RequestID,
			"client", in.ClientKey,
			"minutes_left", st.MinutesRemaining(),
		)
		return LoginResult{}, &LoginError{Reason: ErrLocked, Message: lockedMessage, Status: st}
	}

	if !s.auth.Verify(in.Email, in.Password) {
		return LoginResult{}, s.fail(ctx, in)
	}

	if err := s.limiter.Reset(ctx, in.ClientKey); err != nil {
		return LoginResult{}, fmt.Errorf("auth: reset throttle: %w", err)
	}
	token, sess, err := s.sessions.Create(ctx, s.auth.Email(), RoleAdmin)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: create session: %w", err)
	}

	span.SetAttributes(attribute.String("auth.outcome", "ok"))
	s.log.InfoContext(ctx, "admin_login_succeeded",
		"request_id", in.RequestID,
		"client", in.ClientKey,
		"email", sess.Email,
	)
	return LoginResult{Token: token, User: s.userFor(sess), Session: sess}, nil
}

func (s *Service) fail(ctx context.Context, in LoginInput) error {
	st, err := s.limiter.Fail(ctx, in.ClientKey)
	if err != nil {
		return fmt.Errorf("auth: record failure: %w", err)
	}
	s.metrics.LoginFailed(ctx)

	if st.Locked {
		s.metrics.LockedOut(ctx)
		s.log.WarnContext(ctx, "admin_locked_out",
			"request_id", in.RequestID,
			"client", in.ClientKey,
			"attempts", st.Attempts,
		)
		minutes := int(s.limiter.Lockout().Minutes())
		return &LoginError{
			Reason:  ErrLocked,
			Message: "Too many failed attempts. Account locked for " + FormatMinutes(minutes) + ".",
			Status:  st,
		}
	}

	s.log.WarnContext(ctx, "admin_login_failed",
		"request_id", in.RequestID,
		"client", in.ClientKey,
		"email", strings.ToLower(strings.TrimSpace(in.Email)),
		"attempts", st.Attempts,
	)
	return &LoginError{
		Reason:  ErrInvalidCredentials,
		Message: fmt.Sprintf("Invalid credentials. %d attempts remaining.", st.Remaining),
		Status:  st,
	}
}

// Current resolves a cookie token to the signed-in user.
func (s *Service) Current(ctx context.Context, token string) (AuthUser, error) {
	sess, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return AuthUser{}, err
	}
	return s.userFor(sess), nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *Service) userFor(sess Session) AuthUser {
	return AuthUser{
		ID:        s.auth.UserID(),
		Email:     sess.Email,
		Role:      sess.Role,
		LastLogin: sess.CreatedAt,
	}
}
