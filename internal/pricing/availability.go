package pricing

import (
	"time"

	"villetta/internal/models"
)

// checkAvailability tests a candidate stay against the three occupancy
// sources in a snapshot. It returns the first blocking reason found, with
// blackouts reporting their configured reason text.
//
// Interval semantics differ per source and are a preserved contract:
// bookings and external bookings use half-open [check_in, check_out) overlap,
// blackouts use inclusive comparison on both endpoints. A checkout day is a
// valid new check-in day; a blackout boundary day is not.
func checkAvailability(snap *Snapshot, checkIn, checkOut time.Time) (available bool, reason string) {
	for i := range snap.Bookings {
		if snap.Bookings[i].OverlapsStay(checkIn, checkOut) {
			return false, "booked"
		}
	}

	for i := range snap.Blackouts {
		if snap.Blackouts[i].OverlapsStay(checkIn, checkOut) {
			reason := snap.Blackouts[i].Reason
			if reason == "" {
				reason = "blocked"
			}
			return false, reason
		}
	}

	for i := range snap.External {
		if snap.External[i].OverlapsStay(checkIn, checkOut) {
			return false, "booked"
		}
	}

	return true, ""
}

// availabilityCalendar marks every date in the inclusive [start, end] window.
// A date starts out available and is flipped by any booking night, any
// blackout day, or any external booking night covering it. Overlaps never
// error here; the map is the whole answer.
func availabilityCalendar(snap *Snapshot, start, end time.Time) map[string]bool {
	calendar := make(map[string]bool)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		calendar[models.DateKey(d)] = true
	}

	markUnavailable := func(date time.Time) {
		key := models.DateKey(date)
		if _, ok := calendar[key]; ok {
			calendar[key] = false
		}
	}

	for i := range snap.Bookings {
		b := &snap.Bookings[i]
		for d := models.DateOnly(b.CheckIn); d.Before(models.DateOnly(b.CheckOut)); d = d.AddDate(0, 0, 1) {
			markUnavailable(d)
		}
	}

	for i := range snap.Blackouts {
		b := &snap.Blackouts[i]
		for d := models.DateOnly(b.StartDate); !d.After(models.DateOnly(b.EndDate)); d = d.AddDate(0, 0, 1) {
			markUnavailable(d)
		}
	}

	for i := range snap.External {
		b := &snap.External[i]
		for d := models.DateOnly(b.CheckIn); d.Before(models.DateOnly(b.CheckOut)); d = d.AddDate(0, 0, 1) {
			markUnavailable(d)
		}
	}

	return calendar
}
