package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/model"
)

const imageColumns = `id, listing_id, url, is_primary, sort_order`

// ListImages returns a listing's images in display order.
func ListImages(ctx context.Context, q sqlx.QueryerContext, listingID string) ([]model.Image, error) {
	images := []model.Image{}
	err := sqlx.SelectContext(ctx, q, &images,
		`SELECT `+imageColumns+` FROM images WHERE listing_id = ? ORDER BY sort_order`, listingID)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	return images, nil
}

// ListImagesFor returns the images of several listings keyed by listing ID,
// each in display order.
func ListImagesFor(ctx context.Context, q sqlx.QueryerContext, listingIDs []string) (map[string][]model.Image, error) {
	result := make(map[string][]model.Image, len(listingIDs))
	if len(listingIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+imageColumns+` FROM images WHERE listing_id IN (?) ORDER BY listing_id, sort_order`,
		listingIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("building image query: %w", err)
	}

	var images []model.Image
	if err := sqlx.SelectContext(ctx, q, &images, query, args...); err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	for _, img := range images {
		result[img.ListingID] = append(result[img.ListingID], img)
	}
	return result, nil
}

// ReplaceImages deletes every image of a listing and inserts images in their
// place, assigning new IDs. It must run inside a transaction so readers
// never see a partial gallery.
func ReplaceImages(ctx context.Context, tx *sqlx.Tx, listingID string, images []model.Image) ([]model.Image, error) {
	if err := DeleteImages(ctx, tx, listingID); err != nil {
		return nil, err
	}

	stored := make([]model.Image, len(images))
	for i, img := range images {
		img.ID = uuid.NewString()
		img.ListingID = listingID
		if _, err := sqlx.NamedExecContext(ctx, tx,
			`INSERT INTO images (`+imageColumns+`) VALUES (:id, :listing_id, :url, :is_primary, :sort_order)`,
			img,
		); err != nil {
			return nil, fmt.Errorf("inserting image %d: %w", i, err)
		}
		stored[i] = img
	}
	return stored, nil
}

// DeleteImages removes all images of a listing.
func DeleteImages(ctx context.Context, e sqlx.ExecerContext, listingID string) error {
	if _, err := e.ExecContext(ctx, `DELETE FROM images WHERE listing_id = ?`, listingID); err != nil {
		return fmt.Errorf("deleting images: %w", err)
	}
	return nil
}
