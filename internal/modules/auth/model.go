package auth

import "time"

const RoleAdmin = "admin"

// Throttle counts consecutive failed logins for one client key.
type Throttle struct {
	ClientKey  string     `gorm:"primaryKey;size:64"`
	Attempts   int        `gorm:"not null;default:0"`
	LockoutEnd *time.Time
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (Throttle) TableName() string { return "login_throttles" }

// Session is a signed-in console visit. The cookie carries the raw token;
// only its SHA-256 is stored.
type Session struct {
	ID         string    `gorm:"primaryKey;type:char(36)"`
	TokenHash  string    `gorm:"size:64;not null;uniqueIndex:ux_admin_sessions_token"`
	Email      string    `gorm:"size:255;not null"`
	Role       string    `gorm:"size:32;not null"`
	ExpiresAt  time.Time `gorm:"not null;index:ix_admin_sessions_expires"`
	LastSeenAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (Session) TableName() string { return "admin_sessions" }

// AuthUser is the identity exposed to handlers and /api/auth/verify.
type AuthUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	LastLogin time.Time `json:"lastLogin"`
}
