package models

import "time"

// BlackoutInterval is an admin-defined date range during which a property
// cannot be booked, independent of existing reservations. Both endpoints are
// inclusive.
type BlackoutInterval struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	StartDate  time.Time `json:"start_date"` // inclusive
	EndDate    time.Time `json:"end_date"`   // inclusive
	Reason     string    `json:"reason"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// OverlapsStay checks the blackout against a candidate stay using INCLUSIVE
// endpoint comparison on both sides: blackout.start <= checkOut &&
// blackout.end >= checkIn. This is deliberately looser than booking overlap;
// a blackout ending on the check-in day still blocks the stay.
func (b *BlackoutInterval) OverlapsStay(checkIn, checkOut time.Time) bool {
	return !DateOnly(b.StartDate).After(DateOnly(checkOut)) &&
		!DateOnly(b.EndDate).Before(DateOnly(checkIn))
}

// ContainsDate reports whether a calendar day falls inside the inclusive
// [StartDate, EndDate] range.
func (b *BlackoutInterval) ContainsDate(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(b.StartDate)) && !d.After(DateOnly(b.EndDate))
}

// BookingSource distinguishes internally-created bookings from ones imported
// from external channels (e.g. a listing platform sync).
type BookingSource string

const (
	BookingInternal BookingSource = "internal"
	BookingExternal BookingSource = "external"
)

// Booking statuses. Only confirmed internal bookings and non-cancelled
// external bookings participate in overlap checks.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// BookingInterval is an occupancy span: a confirmed internal booking or an
// imported external one. CheckIn/CheckOut form a half-open [check_in, check_out)
// range so a checkout day can be another guest's check-in day.
type BookingInterval struct {
	ID         int64         `json:"id"`
	PropertyID int64         `json:"property_id"`
	CheckIn    time.Time     `json:"check_in"`  // inclusive
	CheckOut   time.Time     `json:"check_out"` // exclusive
	Status     string        `json:"status"`
	Source     BookingSource `json:"source"`
	ExternalID string        `json:"external_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// OverlapsStay checks occupancy overlap against a candidate stay using
// half-open [start, end) semantics: existing.start < checkOut &&
// existing.end > checkIn.
func (b *BookingInterval) OverlapsStay(checkIn, checkOut time.Time) bool {
	return DateOnly(b.CheckIn).Before(DateOnly(checkOut)) &&
		DateOnly(b.CheckOut).After(DateOnly(checkIn))
}

// CoversNight reports whether the booking occupies the night starting on the
// given date, i.e. date in [check_in, check_out).
func (b *BookingInterval) CoversNight(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(b.CheckIn)) && d.Before(DateOnly(b.CheckOut))
}
