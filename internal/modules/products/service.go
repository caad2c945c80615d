package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/observability"
	"yantrashilpa.com/web/internal/shared/slug"
	"yantrashilpa.com/web/internal/storage"
)

// DefaultMaxImageBytes caps product image uploads at 5 MiB.
const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

type Service struct {
	db       *gorm.DB
	repo     *Repo
	store    storage.Storage
	log      *slog.Logger
	metrics  *observability.Metrics
	maxImage int64
}

type ServiceDeps struct {
	DB            *gorm.DB
	Storage       storage.Storage
	Logger        *slog.Logger
	Metrics       *observability.Metrics
	MaxImageBytes int64
}

func NewService(d ServiceDeps) *Service {
	maxBytes := d.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Service{
		db:       d.DB,
		repo:     NewRepo(d.DB),
		store:    d.Storage,
		log:      l,
		metrics:  d.Metrics,
		maxImage: maxBytes,
	}
}

func (s *Service) Repo() *Repo { return s.repo }

// ImageMeta describes the uploaded file as reported by the client.
type ImageMeta struct {
	Filename    string
	ContentType string
	Size        int64
}

type CreateInput struct {
	Name        string
	Category    string
	Description string
	Image       io.Reader // nil when no file was chosen
	ImageMeta   ImageMeta
}

// CheckImage applies the upload rules: an image/* type no larger than the cap.
func (s *Service) CheckImage(m ImageMeta) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.ContentType)), "image/") {
		return ErrImageType
	}
	if m.Size > s.maxImage {
		return ErrImageTooLarge
	}
	return nil
}

func (s *Service) validate(in *CreateInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	if in.Image != nil {
		if err := s.CheckImage(in.ImageMeta); err != nil {
			return err
		}
	}
	if in.Name == "" || in.Category == "" || in.Description == "" {
		return ErrMissingFields
	}
	if !ValidCategory(in.Category) {
		return ErrInvalidCategory
	}
	if in.Image == nil {
		return ErrImageRequired
	}
	return nil
}

// Create validates the form, stores the image and inserts the product with
// its audit event in one transaction.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (Product, error) {
	ctx, span := observability.Tracer().Start(ctx, "products.create")
	defer span.End()

	if err := s.validate(&in); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Product{}, err
	}

	// Bytes past the cap mean the declared size lied.
	limited := &io.LimitedReader{R: in.Image, N: s.maxImage + 1}
	put, err := s.store.Put(ctx, limited, storage.PutInput{
		Filename:    in.ImageMeta.Filename,
		ContentType: in.ImageMeta.ContentType,
		Size:        in.ImageMeta.Size,
	})
	if err != nil {
		span.RecordError(err)
		return Product{}, fmt.Errorf("products: store image: %w", err)
	}
	if limited.N <= 0 {
		s.discardImage(ctx, put.Key)
		return Product{}, ErrImageTooLarge
	}

	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        slug.FromName(in.Name),
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    put.URL,
		ImageKey:    put.Key,
		Status:      StatusActive,
	}

	err = s.insertWithEvent(ctx, actor, &p)
	if IsDuplicateKey(err) {
		p.Slug = slug.WithSuffix(slug.FromName(in.Name))
		err = s.insertWithEvent(ctx, actor, &p)
	}
	if err != nil {
		s.discardImage(ctx, put.Key)
		span.RecordError(err)
		return Product{}, fmt.Errorf("products: create: %w", err)
	}

	span.SetAttributes(attribute.String("product.id", p.ID))
	s.metrics.ProductChanged(ctx, audit.ActionProductCreated)
	s.log.LogAttrs(ctx, slog.LevelInfo, audit.ActionProductCreated,
		slog.String("actor", actor),
		slog.String("product_id", p.ID),
		slog.String("name", p.Name),
		slog.String("category", p.Category),
		slog.String("image", in.ImageMeta.Filename),
	)
	return p, nil
}

func (s *Service) insertWithEvent(ctx context.Context, actor string, p *Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}
		return audit.Record(ctx, tx, actor, audit.ActionProductCreated, p.ID, map[string]string{
			"name":     p.Name,
			"category": p.Category,
			"slug":     p.Slug,
		})
	})
}

// Delete removes the product and then, best effort, its stored image.
func (s *Service) Delete(ctx context.Context, actor, id string) (Product, error) {
	ctx, span := observability.Tracer().Start(ctx, "products.delete")
	defer span.End()

	var deleted Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = p
		return audit.Record(ctx, tx, actor, audit.ActionProductDeleted, p.ID, map[string]string{"name": p.Name})
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
		}
		return Product{}, err
	}

	if deleted.ImageKey != "" {
		s.discardImage(ctx, deleted.ImageKey)
	}
	s.metrics.ProductChanged(ctx, audit.ActionProductDeleted)
	s.log.LogAttrs(ctx, slog.LevelInfo, audit.ActionProductDeleted,
		slog.String("actor", actor),
		slog.String("product_id", deleted.ID),
		slog.String("name", deleted.Name),
	)
	return deleted, nil
}

func (s *Service) ToggleStatus(ctx context.Context, actor, id string) (Product, error) {
	ctx, span := observability.Tracer().Start(ctx, "products.toggle_status")
	defer span.End()

	var out Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.repo.WithTx(tx).ToggleStatus(ctx, id)
		if err != nil {
			return err
		}
		out = p
		return audit.Record(ctx, tx, actor, audit.ActionStatusToggled, p.ID, map[string]string{"status": p.Status})
	})
	if err != nil {
		return Product{}, err
	}

	s.metrics.ProductChanged(ctx, audit.ActionStatusToggled)
	s.log.LogAttrs(ctx, slog.LevelInfo, audit.ActionStatusToggled,
		slog.String("actor", actor),
		slog.String("product_id", out.ID),
		slog.String("status", out.Status),
	)
	return out, nil
}

// Catalog lists active products for the public page.
func (s *Service) Catalog(ctx context.Context, category string) ([]Product, error) {
	if category != "" && category != AllCategories && !ValidCategory(category) {
		category = AllCategories
	}
	return s.repo.List(ctx, Filter{Category: category, Status: StatusActive})
}

// Search backs the admin table.
func (s *Service) Search(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) discardImage(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "product_image_delete_failed",
			slog.String("key", key),
			slog.Any("err", err),
		)
	}
}
