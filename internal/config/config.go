package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

type DBConfig struct {
	Driver string // mysql | sqlite
	DSN    string
}

type SessionConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

// AdminConfig describes the single console identity. PasswordHash wins over
// Password when both are set.
type AdminConfig struct {
	Email        string
	Password     string
	PasswordHash string
}

type LoginConfig struct {
	MaxAttempts int
	Lockout     time.Duration
}

type StorageConfig struct {
	Driver          string // local | s3
	LocalDir        string
	LocalURLPrefix  string
	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none | tls | starttls
	SkipVerifyTLS bool
}

// Enabled reports whether an SMTP relay was configured at all.
func (c SMTPConfig) Enabled() bool { return strings.TrimSpace(c.Host) != "" }

type MailConfig struct {
	From         string
	FromName     string
	ContactInbox string
}

// MailtrapConfig selects the Mailtrap send API over SMTP when both are set.
type MailtrapConfig struct {
	APIURL   string
	APIToken string
}

func (c MailtrapConfig) Enabled() bool { return c.APIURL != "" && c.APIToken != "" }

type Config struct {
	Env      string
	Addr     string
	BaseURL  string
	LogLevel slog.Level

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed when resolving the client address. Empty trusts none.
	TrustedProxies []string

	DB          DBConfig
	Session     SessionConfig
	FlashSecret []byte
	Admin       AdminConfig
	Login       LoginConfig

	UploadMaxBytes int64

	Storage  StorageConfig
	SMTP     SMTPConfig
	Mailtrap MailtrapConfig
	Mail     MailConfig
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads the process environment. Call godotenv.Load beforehand if a
// .env file should be honoured.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds a Config from an arbitrary lookup function.
func LoadFrom(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	cfg := Config{
		Env:     e.str("APP_ENV", "development"),
		Addr:    e.str("APP_ADDR", ":8080"),
		BaseURL: e.str("APP_BASE_URL", "http://localhost:8080"),

		TrustedProxies: e.list("TRUSTED_PROXIES"),

		DB: DBConfig{
			Driver: strings.ToLower(e.str("DB_DRIVER", "sqlite")),
			DSN:    e.str("DB_DSN", "file:yantrashilpa.db?_foreign_keys=on"),
		},
		Admin: AdminConfig{
			Email:        strings.ToLower(e.str("ADMIN_EMAIL", "admin@yantrashilpa.com")),
			Password:     e.str("ADMIN_PASSWORD", ""),
			PasswordHash: e.str("ADMIN_PASSWORD_HASH", ""),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(e.str("STORAGE_DRIVER", "local")),
			LocalDir:        e.str("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix:  e.str("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:        e.str("S3_REGION", ""),
			S3Bucket:        e.str("S3_BUCKET", ""),
			S3Prefix:        e.str("S3_PREFIX", "uploads"),
			S3PublicBaseURL: e.str("S3_PUBLIC_BASE_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:    e.str("SMTP_HOST", ""),
			Port:    e.str("SMTP_PORT", "1025"),
			User:    e.str("SMTP_USER", ""),
			Pass:    e.str("SMTP_PASS", ""),
			TLSMode: strings.ToLower(e.str("SMTP_TLS_MODE", "none")),
		},
		Mailtrap: MailtrapConfig{
			APIURL:   e.str("MAILTRAP_API_URL", ""),
			APIToken: e.str("MAILTRAP_API_TOKEN", ""),
		},
		Mail: MailConfig{
			From:         e.str("MAIL_FROM", "no-reply@yantrashilpa.com"),
			FromName:     e.str("MAIL_FROM_NAME", "Yantrashilpa Technologies"),
			ContactInbox: e.str("CONTACT_INBOX", "support@yantrashilpa.com"),
		},
	}

	var err error
	if cfg.LogLevel, err = e.level("LOG_LEVEL", slog.LevelInfo); err != nil {
		return Config{}, err
	}
	if cfg.Session.TTL, err = e.duration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Session.CookieSecure, err = e.boolean("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.Login.MaxAttempts, err = e.integer("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.Login.Lockout, err = e.duration("LOGIN_LOCKOUT", 15*time.Minute); err != nil {
		return Config{}, err
	}
	maxBytes, err := e.integer("UPLOAD_MAX_BYTES", 5*1024*1024)
	if err != nil {
		return Config{}, err
	}
	cfg.UploadMaxBytes = int64(maxBytes)
	if cfg.SMTP.SkipVerifyTLS, err = e.boolean("SMTP_SKIP_VERIFY", false); err != nil {
		return Config{}, err
	}

	secret := e.str("FLASH_SECRET", "")
	if secret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("config: FLASH_SECRET is required in production")
		}
		secret = "dev-only-flash-secret-change-me"
	}
	cfg.FlashSecret = []byte(secret)

	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("config: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
		}
		cfg.Admin.Password = "YantraAdmin2025!"
	}

	if cfg.Login.MaxAttempts < 1 {
		return Config{}, fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must be positive")
	}
	for _, p := range cfg.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return Config{}, fmt.Errorf("config: TRUSTED_PROXIES: %q is not an IP or CIDR", p)
		}
	}
	switch cfg.DB.Driver {
	case "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("config: unknown DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

type env struct {
	get func(string) string
}

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

// list splits a comma separated value, dropping blanks. Unset yields nil.
func (e env) list(key string) []string {
	var out []string
	for _, v := range strings.Split(e.get(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (e env) integer(key string, def int) (int, error) {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func (e env) boolean(key string, def bool) (bool, error) {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func (e env) duration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func (e env) level(key string, def slog.Level) (slog.Level, error) {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return l, nil
}
