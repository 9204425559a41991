package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/bid-pricing/internal/models"
)

var ErrInquiryNotFound = errors.New("pricing inquiry not found")

// CreateInquiry stores an inquiry and fills in its ID and CreatedAt
func (db *DB) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	products, err := json.Marshal(inquiry.ProductList)
	if err != nil {
		return fmt.Errorf("encoding product list: %w", err)
	}
	result, err := json.Marshal(inquiry.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	return db.Pool.QueryRow(ctx, `
		INSERT INTO pricing_inquiries (product_list, quantity_details, result, total_amount, item_count, drafter)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, products, inquiry.QuantityDetails, result, inquiry.TotalAmount, inquiry.ItemCount, inquiry.Drafter,
	).Scan(&inquiry.ID, &inquiry.CreatedAt)
}

// GetInquiryByID retrieves an inquiry with its full result
func (db *DB) GetInquiryByID(ctx context.Context, id int) (*models.Inquiry, error) {
	inquiry := &models.Inquiry{}
	var products, result []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT id, product_list, quantity_details, result, total_amount::float8, item_count, drafter, created_at
		FROM pricing_inquiries
		WHERE id = $1
	`, id).Scan(
		&inquiry.ID, &products, &inquiry.QuantityDetails, &result,
		&inquiry.TotalAmount, &inquiry.ItemCount, &inquiry.Drafter, &inquiry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInquiryNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(products, &inquiry.ProductList); err != nil {
		return nil, fmt.Errorf("decoding product list: %w", err)
	}
	if err := json.Unmarshal(result, &inquiry.Result); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return inquiry, nil
}

// ListInquiries returns inquiry summaries, newest first, and the total count
func (db *DB) ListInquiries(ctx context.Context, params *models.InquiryListParams) ([]*models.InquirySummary, int, error) {
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM pricing_inquiries`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, product_list, total_amount::float8, item_count, drafter, created_at
		FROM pricing_inquiries
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	inquiries := []*models.InquirySummary{}
	for rows.Next() {
		s := &models.InquirySummary{}
		var products []byte
		if err := rows.Scan(&s.ID, &products, &s.TotalAmount, &s.ItemCount, &s.Drafter, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(products, &s.ProductList); err != nil {
			return nil, 0, fmt.Errorf("decoding product list: %w", err)
		}
		inquiries = append(inquiries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return inquiries, total, nil
}

// DeleteInquiry removes an inquiry and, by cascade, its export records
func (db *DB) DeleteInquiry(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM pricing_inquiries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInquiryNotFound
	}
	return nil
}
