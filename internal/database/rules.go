package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"villetta/internal/models"
)

// ListActiveRules returns every active rate rule that is either scoped to the
// property or global (NULL property_id), ordered by ascending priority with
// creation order breaking ties. The ordering is the application order consumed
// by the price accumulator, so it is part of the contract, not cosmetics.
func (db *DB) ListActiveRules(ctx context.Context, propertyID int64) ([]models.RateRule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, property_id, kind, start_date, end_date, weekdays,
		       price_modifier, modifier_type, min_nights, max_nights,
		       advance_booking_days, is_active, priority, conditions,
		       created_at, updated_at
		FROM rate_rules
		WHERE is_active = 1 AND (property_id = ? OR property_id IS NULL)
		ORDER BY priority ASC, created_at ASC, id ASC`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rules for property %d: %w", propertyID, err)
	}
	defer rows.Close()

	var rules []models.RateRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func scanRule(rows *sql.Rows) (*models.RateRule, error) {
	var r models.RateRule
	var propertyID, minNights, maxNights, advanceDays sql.NullInt64
	var startDate, endDate sql.NullTime
	var weekdays, conditions sql.NullString

	err := rows.Scan(
		&r.ID, &r.Name, &propertyID, &r.Kind, &startDate, &endDate, &weekdays,
		&r.PriceModifier, &r.ModifierType, &minNights, &maxNights,
		&advanceDays, &r.IsActive, &r.Priority, &conditions,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan rule: %w", err)
	}

	if propertyID.Valid {
		r.PropertyID = &propertyID.Int64
	}
	if startDate.Valid {
		t := startDate.Time
		r.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		r.EndDate = &t
	}
	if minNights.Valid {
		v := int(minNights.Int64)
		r.MinNights = &v
	}
	if maxNights.Valid {
		v := int(maxNights.Int64)
		r.MaxNights = &v
	}
	if advanceDays.Valid {
		v := int(advanceDays.Int64)
		r.AdvanceBookingDays = &v
	}
	if weekdays.Valid && weekdays.String != "" {
		r.Weekdays = parseWeekdays(weekdays.String)
	}
	if conditions.Valid && conditions.String != "" {
		if err := json.Unmarshal([]byte(conditions.String), &r.Conditions); err != nil {
			return nil, fmt.Errorf("rule %d: parse conditions: %w", r.ID, err)
		}
	}
	return &r, nil
}

// CreateRateRule inserts a rate rule and fills in its ID.
func (db *DB) CreateRateRule(ctx context.Context, r *models.RateRule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	var conditions any
	if len(r.Conditions) > 0 {
		data, err := json.Marshal(r.Conditions)
		if err != nil {
			return fmt.Errorf("marshal conditions: %w", err)
		}
		conditions = string(data)
	}

	var weekdays any
	if len(r.Weekdays) > 0 {
		weekdays = formatWeekdays(r.Weekdays)
	}

	now := time.Now().UTC()
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO rate_rules (
			name, property_id, kind, start_date, end_date, weekdays,
			price_modifier, modifier_type, min_nights, max_nights,
			advance_booking_days, is_active, priority, conditions,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, nullableInt64Ptr(r.PropertyID), r.Kind,
		nullableTimePtr(r.StartDate), nullableTimePtr(r.EndDate), weekdays,
		r.PriceModifier, r.ModifierType,
		nullableIntPtr(r.MinNights), nullableIntPtr(r.MaxNights),
		nullableIntPtr(r.AdvanceBookingDays), r.IsActive, r.Priority, conditions,
		createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("insert rate rule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}
	r.ID = id
	r.CreatedAt = createdAt
	r.UpdatedAt = now
	return nil
}

// Weekdays are stored as a comma-separated list, e.g. "5,6" for Fri+Sat.
func parseWeekdays(s string) []int {
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}

func formatWeekdays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func nullableInt64Ptr(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTimePtr(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
