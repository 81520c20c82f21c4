package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/model"
)

const listingColumns = `id, title, make, model, year, price, price_negotiable, mileage,
	fuel_type, transmission, body_type, condition, color, city, description,
	contact_phone, contact_whatsapp, featured, status, views, published_at,
	created_at, updated_at, owner_id`

// listingOrder puts featured listings first, then the most recently
// published, then the most recently created. id makes the order total so
// that consecutive pages never overlap.
const listingOrder = `ORDER BY featured DESC, published_at DESC, created_at DESC, id DESC`

// ListListings returns one page of listings matching c, with images
// attached, and the total number of matches. Run it inside a transaction to
// get the page and the total from the same snapshot.
func ListListings(ctx context.Context, q sqlx.QueryerContext, c model.Criteria) ([]model.Listing, int, error) {
	where, args := criteriaWhere(c)

	var total int
	if err := sqlx.GetContext(ctx, q, &total, `SELECT COUNT(*) FROM listings`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	var listings []model.Listing
	query := `SELECT ` + listingColumns + ` FROM listings` + where + ` ` + listingOrder + ` LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), model.PageSize, c.Offset())
	if err := sqlx.SelectContext(ctx, q, &listings, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("listing listings: %w", err)
	}

	if err := attachImages(ctx, q, listings); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// criteriaWhere builds the WHERE clause for c. Every present criterion adds
// one AND-ed constraint; contradictory bounds simply match nothing.
func criteriaWhere(c model.Criteria) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, vals ...any) {
		conds = append(conds, cond)
		args = append(args, vals...)
	}

	if c.Status != "" {
		add(`status = ?`, c.Status)
	}
	if c.City != "" {
		add(`city = ?`, c.City)
	}
	if c.Make != "" {
		add(`make = ?`, c.Make)
	}
	if c.Featured != nil {
		add(`featured = ?`, *c.Featured)
	}
	if c.MinPrice != nil {
		add(`price >= ?`, *c.MinPrice)
	}
	if c.MaxPrice != nil {
		add(`price <= ?`, *c.MaxPrice)
	}
	if c.MinYear != nil {
		add(`year >= ?`, *c.MinYear)
	}
	if c.MaxYear != nil {
		add(`year <= ?`, *c.MaxYear)
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		add(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(make) LIKE ? ESCAPE '\' OR LOWER(model) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// GetListing returns a listing with its images, or nil if it does not exist.
func GetListing(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Listing, error) {
	var l model.Listing
	err := sqlx.GetContext(ctx, q, &l, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting listing: %w", err)
	}

	images, err := ListImages(ctx, q, id)
	if err != nil {
		return nil, err
	}
	l.Images = images
	return &l, nil
}

// ListingExists reports whether a listing with id exists.
func ListingExists(ctx context.Context, q sqlx.QueryerContext, id string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM listings WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("checking listing: %w", err)
	}
	return n > 0, nil
}

// ListRecentListings returns the n most recently created listings of any status.
func ListRecentListings(ctx context.Context, q sqlx.QueryerContext, n int) ([]model.Listing, error) {
	var listings []model.Listing
	err := sqlx.SelectContext(ctx, q, &listings,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing recent listings: %w", err)
	}
	if err := attachImages(ctx, q, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// InsertListing inserts l. Images are written separately with ReplaceImages.
func InsertListing(ctx context.Context, e sqlx.ExtContext, l *model.Listing) error {
	_, err := sqlx.NamedExecContext(ctx, e,
		`INSERT INTO listings (`+listingColumns+`) VALUES (
			:id, :title, :make, :model, :year, :price, :price_negotiable, :mileage,
			:fuel_type, :transmission, :body_type, :condition, :color, :city, :description,
			:contact_phone, :contact_whatsapp, :featured, :status, :views, :published_at,
			:created_at, :updated_at, :owner_id)`, l)
	if err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}
	return nil
}

// UpdateListing overwrites the editable fields of l. Views, creation time
// and owner are left untouched.
func UpdateListing(ctx context.Context, e sqlx.ExtContext, l *model.Listing) error {
	result, err := sqlx.NamedExecContext(ctx, e,
		`UPDATE listings SET
			title = :title, make = :make, model = :model, year = :year, price = :price,
			price_negotiable = :price_negotiable, mileage = :mileage, fuel_type = :fuel_type,
			transmission = :transmission, body_type = :body_type, condition = :condition,
			color = :color, city = :city, description = :description,
			contact_phone = :contact_phone, contact_whatsapp = :contact_whatsapp,
			featured = :featured, status = :status, published_at = :published_at,
			updated_at = :updated_at
		 WHERE id = :id`, l)
	if err != nil {
		return fmt.Errorf("updating listing: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating listing %s: no such row", l.ID)
	}
	return nil
}

// DeleteListing removes a listing and its images.
func DeleteListing(ctx context.Context, e sqlx.ExtContext, id string) error {
	if err := DeleteImages(ctx, e, id); err != nil {
		return err
	}
	if _, err := e.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}
	return nil
}

// IncrementViews adds one view to a published listing.
func IncrementViews(ctx context.Context, e sqlx.ExecerContext, id string) error {
	_, err := e.ExecContext(ctx,
		`UPDATE listings SET views = views + 1 WHERE id = ? AND status = ?`,
		id, model.StatusPublished,
	)
	if err != nil {
		return fmt.Errorf("incrementing views: %w", err)
	}
	return nil
}

// GetListingStats returns catalogue totals for the dashboard.
func GetListingStats(ctx context.Context, q sqlx.QueryerContext) (*model.Stats, error) {
	var s model.Stats
	err := sqlx.GetContext(ctx, q, &s,
		`SELECT COUNT(*) AS total,
		        COALESCE(SUM(status = 'PUBLISHED'), 0) AS published,
		        COALESCE(SUM(status = 'DRAFT'), 0) AS drafts,
		        COALESCE(SUM(status = 'SOLD'), 0) AS sold,
		        COALESCE(SUM(views), 0) AS total_views
		 FROM listings`)
	if err != nil {
		return nil, fmt.Errorf("getting listing stats: %w", err)
	}
	return &s, nil
}

// attachImages loads the galleries of listings with a single query.
func attachImages(ctx context.Context, q sqlx.QueryerContext, listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}

	byListing, err := ListImagesFor(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range listings {
		listings[i].Images = byListing[listings[i].ID]
		if listings[i].Images == nil {
			listings[i].Images = []model.Image{}
		}
	}
	return nil
}
