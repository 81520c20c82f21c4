// Package listing implements the car listing core: filtered pagination,
// the create/update/delete pipeline and view counting.
package listing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/metrics"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/store"
)

// Service runs listing queries and mutations against the database. Every
// call takes the caller's identity explicitly; nil means anonymous.
type Service struct {
	db      *sqlx.DB
	now     func() time.Time
	metrics *metrics.Metrics
	views   *ViewCounter
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records mutations and views in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService returns a Service backed by db.
func NewService(db *sqlx.DB, opts ...Option) *Service {
	s := &Service{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.views = NewViewCounter(db, s.metrics)
	return s
}

// Close waits for in-flight view increments.
func (s *Service) Close() {
	s.views.Wait()
}

// List returns one page of listings matching c. Anonymous callers only ever
// see published listings, whatever status c asks for.
func (s *Service) List(ctx context.Context, c model.Criteria, id *model.Identity) (*model.Page, error) {
	if id == nil {
		c.Status = model.StatusPublished
	}

	var (
		listings []model.Listing
		total    int
	)
	err := store.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		listings, total, err = store.ListListings(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, model.StorageError("listing cars", err)
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	return &model.Page{
		Listings:   listings,
		Page:       c.PageNumber(),
		PageSize:   model.PageSize,
		Total:      total,
		TotalPages: model.TotalPages(total),
	}, nil
}

// Get returns a listing with its images. Anonymous callers get ErrNotFound
// for listings that are not published, and each of their reads of a
// published listing counts one view. The returned views are the value
// before that increment.
func (s *Service) Get(ctx context.Context, listingID string, id *model.Identity) (*model.Listing, error) {
	var l *model.Listing
	err := store.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		l, err = store.GetListing(ctx, tx, listingID)
		return err
	})
	if err != nil {
		return nil, model.StorageError("getting car", err)
	}
	if l == nil {
		return nil, model.ErrNotFound
	}

	if id == nil {
		if l.Status != model.StatusPublished {
			return nil, model.ErrNotFound
		}
		s.views.Record(ctx, l.ID)
	}
	return l, nil
}

// Create validates and stores a new listing with its images in one
// transaction. Only admins may create listings.
func (s *Service) Create(ctx context.Context, in model.ListingInput, images []model.ImageInput, id *model.Identity) (*model.Listing, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := model.ValidateListing(in, images, now); err != nil {
		return nil, err
	}

	l := &model.Listing{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   id.UserID,
	}
	applyInput(l, in)
	l.PublishedAt = publishedAt(l.Status, nil, now)

	err := store.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := store.InsertListing(ctx, tx, l); err != nil {
			return err
		}
		stored, err := store.ReplaceImages(ctx, tx, l.ID, model.NormalizeImages(images))
		if err != nil {
			return err
		}
		l.Images = stored
		return nil
	})
	if err != nil {
		return nil, model.StorageError("creating car", err)
	}

	slog.Info("listing created", "listing", l.ID, "status", l.Status, "user", id.Email)
	s.metrics.Created()
	return l, nil
}

// Update replaces every editable field and the whole image set of a listing
// in one transaction. Views, owner and creation time are preserved.
func (s *Service) Update(ctx context.Context, listingID string, in model.ListingInput, images []model.ImageInput, id *model.Identity) (*model.Listing, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := model.ValidateListing(in, images, now); err != nil {
		return nil, err
	}

	var l *model.Listing
	err := store.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		existing, err := store.GetListing(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if existing == nil {
			return model.ErrNotFound
		}

		l = existing
		applyInput(l, in)
		l.PublishedAt = publishedAt(l.Status, existing.PublishedAt, now)
		l.UpdatedAt = now

		if err := store.UpdateListing(ctx, tx, l); err != nil {
			return err
		}
		stored, err := store.ReplaceImages(ctx, tx, l.ID, model.NormalizeImages(images))
		if err != nil {
			return err
		}
		l.Images = stored
		return nil
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, model.StorageError("updating car", err)
	}

	slog.Info("listing updated", "listing", l.ID, "status", l.Status, "user", id.Email)
	s.metrics.Updated()
	return l, nil
}

// Delete removes a listing and all of its images.
func (s *Service) Delete(ctx context.Context, listingID string, id *model.Identity) error {
	if err := requireAdmin(id); err != nil {
		return err
	}

	err := store.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		exists, err := store.ListingExists(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrNotFound
		}
		return store.DeleteListing(ctx, tx, listingID)
	})
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err != nil {
		return model.StorageError("deleting car", err)
	}

	slog.Info("listing deleted", "listing", listingID, "user", id.Email)
	s.metrics.Deleted()
	return nil
}

// Stats returns catalogue totals for the admin dashboard.
func (s *Service) Stats(ctx context.Context, id *model.Identity) (*model.Stats, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	stats, err := store.GetListingStats(ctx, s.db)
	if err != nil {
		return nil, model.StorageError("getting stats", err)
	}
	return stats, nil
}

// Recent returns the n most recently created listings of any status.
func (s *Service) Recent(ctx context.Context, n int, id *model.Identity) ([]model.Listing, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	listings, err := store.ListRecentListings(ctx, s.db, n)
	if err != nil {
		return nil, model.StorageError("listing recent cars", err)
	}
	return listings, nil
}

func requireAdmin(id *model.Identity) error {
	if id == nil {
		return model.ErrUnauthenticated
	}
	if !id.IsAdmin() {
		return model.ErrForbidden
	}
	return nil
}

// publishedAt returns the publish timestamp a listing with the given status
// should carry: kept if already published, now on first publish, and
// cleared for any other status.
func publishedAt(status string, prev *time.Time, now time.Time) *time.Time {
	if status != model.StatusPublished {
		return nil
	}
	if prev != nil {
		return prev
	}
	return &now
}

func applyInput(l *model.Listing, in model.ListingInput) {
	l.Title = strings.TrimSpace(in.Title)
	l.Make = strings.TrimSpace(in.Make)
	l.Model = strings.TrimSpace(in.Model)
	l.Year = in.Year
	l.Price = in.Price
	l.PriceNegotiable = in.PriceNegotiable
	l.Mileage = in.Mileage
	l.FuelType = in.FuelType
	l.Transmission = in.Transmission
	l.BodyType = in.BodyType
	l.Condition = in.Condition
	l.Color = optional(in.Color)
	l.City = strings.TrimSpace(in.City)
	l.Description = optional(in.Description)
	l.ContactPhone = optional(in.ContactPhone)
	l.ContactWhatsApp = optional(in.ContactWhatsApp)
	l.Featured = in.Featured
	l.Status = in.Status
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
