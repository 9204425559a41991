package database

import (
	"context"

	"github.com/foxxcyber/bid-pricing/internal/models"
)

// CreateExport records an uploaded export
func (db *DB) CreateExport(ctx context.Context, export *models.Export) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO pricing_exports (inquiry_id, object_key, format, size_bytes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, export.InquiryID, export.ObjectKey, export.Format, export.SizeBytes,
	).Scan(&export.ID, &export.CreatedAt)
}

// ListExportsForInquiry returns an inquiry's exports, newest first
func (db *DB) ListExportsForInquiry(ctx context.Context, inquiryID int) ([]*models.Export, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, inquiry_id, object_key, format, size_bytes, created_at
		FROM pricing_exports
		WHERE inquiry_id = $1
		ORDER BY created_at DESC, id DESC
	`, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []*models.Export{}
	for rows.Next() {
		e := &models.Export{}
		if err := rows.Scan(&e.ID, &e.InquiryID, &e.ObjectKey, &e.Format, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
