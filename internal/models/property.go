package models

import "time"

// Property represents a rental property record.
type Property struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	BasePriceCents int64     `json:"base_price_cents"` // nightly base price in minor units
	Currency       string    `json:"currency"`         // ISO 4217 code, e.g. "EUR"
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
