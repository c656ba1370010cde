package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"villetta/internal/models"
)

// ListActiveBlackouts returns active blackout intervals for a property.
func (db *DB) ListActiveBlackouts(ctx context.Context, propertyID int64) ([]models.BlackoutInterval, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, property_id, start_date, end_date, reason, is_active, created_at
		FROM blackout_intervals
		WHERE property_id = ? AND is_active = 1
		ORDER BY start_date ASC`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blackouts for property %d: %w", propertyID, err)
	}
	defer rows.Close()

	var blackouts []models.BlackoutInterval
	for rows.Next() {
		var b models.BlackoutInterval
		var reason sql.NullString
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.StartDate, &b.EndDate, &reason, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blackout: %w", err)
		}
		if reason.Valid {
			b.Reason = reason.String
		}
		blackouts = append(blackouts, b)
	}
	return blackouts, rows.Err()
}

// ListConfirmedBookings returns confirmed internal bookings for a property.
func (db *DB) ListConfirmedBookings(ctx context.Context, propertyID int64) ([]models.BookingInterval, error) {
	return db.listBookings(ctx, `
		SELECT id, property_id, check_in, check_out, status, source, external_id, created_at
		FROM bookings
		WHERE property_id = ? AND source = 'internal' AND status = 'confirmed'
		ORDER BY check_in ASC`,
		propertyID,
	)
}

// ListExternalBookings returns imported external bookings for a property,
// excluding cancelled ones.
func (db *DB) ListExternalBookings(ctx context.Context, propertyID int64) ([]models.BookingInterval, error) {
	return db.listBookings(ctx, `
		SELECT id, property_id, check_in, check_out, status, source, external_id, created_at
		FROM bookings
		WHERE property_id = ? AND source = 'external' AND status != 'cancelled'
		ORDER BY check_in ASC`,
		propertyID,
	)
}

func (db *DB) listBookings(ctx context.Context, query string, propertyID int64) ([]models.BookingInterval, error) {
	rows, err := db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for property %d: %w", propertyID, err)
	}
	defer rows.Close()

	var bookings []models.BookingInterval
	for rows.Next() {
		var b models.BookingInterval
		var externalID sql.NullString
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.CheckIn, &b.CheckOut, &b.Status, &b.Source, &externalID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if externalID.Valid {
			b.ExternalID = externalID.String
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CreateBlackout inserts a blackout interval and fills in its ID.
func (db *DB) CreateBlackout(ctx context.Context, b *models.BlackoutInterval) error {
	if b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("blackout end_date before start_date")
	}
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `
		INSERT INTO blackout_intervals (property_id, start_date, end_date, reason, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.PropertyID, b.StartDate, b.EndDate, b.Reason, b.IsActive, now,
	)
	if err != nil {
		return fmt.Errorf("insert blackout: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now
	return nil
}

// CreateBooking inserts a booking interval and fills in its ID.
func (db *DB) CreateBooking(ctx context.Context, b *models.BookingInterval) error {
	if !b.CheckOut.After(b.CheckIn) {
		return fmt.Errorf("booking check_out must be after check_in")
	}
	if b.Source == "" {
		b.Source = models.BookingInternal
	}
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `
		INSERT INTO bookings (property_id, check_in, check_out, status, source, external_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.PropertyID, b.CheckIn, b.CheckOut, b.Status, b.Source, b.ExternalID, now,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now
	return nil
}
