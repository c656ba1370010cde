package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"villetta/internal/models"
)

// GetProperty returns a property by ID, or ErrPropertyNotFound.
func (db *DB) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	err := db.QueryRowContext(ctx, `
		SELECT id, name, base_price_cents, currency, is_active, created_at, updated_at
		FROM properties
		WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.BasePriceCents, &p.Currency, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	return &p, nil
}

// CreateProperty inserts a property and fills in its ID. Used by seeding and
// tests; the administrative CRUD surface lives elsewhere.
func (db *DB) CreateProperty(ctx context.Context, p *models.Property) error {
	now := time.Now().UTC()
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO properties (name, base_price_cents, currency, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.BasePriceCents, p.Currency, p.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}
