package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// WithTx returns a Repo bound to tx.
func (r *Repo) WithTx(tx *gorm.DB) *Repo { return &Repo{db: tx} }

// Filter narrows List. Zero fields do not filter.
type Filter struct {
	Query    string
	Category string // "All" or empty means every category
	Status   string
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Product, error) {
	q := r.db.WithContext(ctx).Model(&Product{})

	// sqlite's LOWER folds ASCII only, so non-ASCII letters match case-sensitively
	// there. MySQL folds them through the column collation.
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", like, like)
	}
	if c := strings.TrimSpace(f.Category); c != "" && c != AllCategories {
		q = q.Where("category = ?", c)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var items []Product
	err := q.Order("created_at DESC").Order("id").Find(&items).Error
	return items, err
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, p *Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusActive
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleStatus flips active and inactive under a row lock. Call it inside a
// transaction; the lock is held until commit.
func (r *Repo) ToggleStatus(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}

	from := p.Status
	to := StatusActive
	if from == StatusActive {
		to = StatusInactive
	}
	now := time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ? AND status = ?", p.ID, from).
		Updates(map[string]any{"status": to, "updated_at": now})
	if res.Error != nil {
		return Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Product{}, ErrNotFound
	}

	p.Status = to
	p.UpdatedAt = now
	return p, nil
}

func (r *Repo) Recent(ctx context.Context, n int) ([]Product, error) {
	var items []Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id").
		Limit(n).
		Find(&items).Error
	return items, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Product{}).Count(&n).Error
	return n, err
}

func (r *Repo) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Product{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// IsDuplicateKey reports a unique-index violation, translated by gorm or raw
// from the MySQL driver (error 1062).
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

// escapeLike neutralises LIKE wildcards using '!' as the escape character,
// which behaves the same on MySQL and sqlite.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
