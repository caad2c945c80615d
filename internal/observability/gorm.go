package observability

import (
	"time"

	"gorm.io/gorm"
)

const (
	gormTimingStartKey      = "site:gorm:timing_start"
	gormTimingCallbacksName = "site_server_timing"
)

// RegisterServerTimingCallbacks makes every gorm operation add its duration
// to the "db" Server-Timing metric of the request that issued it.
func RegisterServerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	pairs := []struct {
		op       string
		register func(name string, before, after func(*gorm.DB)) error
	}{
		{"query", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(n+":before_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(n+":after_query", a)
		}},
		{"create", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(n+":before_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(n+":after_create", a)
		}},
		{"update", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(n+":before_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(n+":after_update", a)
		}},
		{"delete", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(n+":before_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(n+":after_delete", a)
		}},
		{"row", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register(n+":before_row", b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register(n+":after_row", a)
		}},
		{"raw", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register(n+":before_raw", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register(n+":after_raw", a)
		}},
	}
	for _, p := range pairs {
		if err := p.register(gormTimingCallbacksName, beforeTiming, afterTiming); err != nil {
			return err
		}
	}
	return nil
}

func beforeTiming(db *gorm.DB) {
	db.InstanceSet(gormTimingStartKey, time.Now())
}

func afterTiming(db *gorm.DB) {
	v, ok := db.InstanceGet(gormTimingStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	if db.Statement != nil && db.Statement.Context != nil {
		AddDBTime(db.Statement.Context, time.Since(start))
	}
}
