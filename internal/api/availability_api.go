package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"villetta/internal/cache"
	"villetta/internal/metrics"
)

// AvailabilityCheckRequest is the request body for POST /api/v1/availability/check.
type AvailabilityCheckRequest struct {
	PropertyID int64  `json:"property_id"`
	CheckIn    string `json:"check_in"`  // Format: YYYY-MM-DD
	CheckOut   string `json:"check_out"` // Format: YYYY-MM-DD, exclusive
}

// AvailabilityCheckResponse reports whether the stay is bookable.
type AvailabilityCheckResponse struct {
	PropertyID int64  `json:"property_id"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"` // e.g. "booked" or the blackout reason
}

// CalendarRequest is the shared request body for the calendar endpoints.
type CalendarRequest struct {
	PropertyID int64  `json:"property_id"`
	StartDate  string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate    string `json:"end_date"`   // Format: YYYY-MM-DD, inclusive
}

// AvailabilityCalendarResponse maps each date in the window to bookability.
type AvailabilityCalendarResponse struct {
	PropertyID int64           `json:"property_id"`
	Calendar   map[string]bool `json:"calendar"`
	Period     Period          `json:"period"`
}

// Period echoes the requested window back to the caller.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// handleAvailabilityCheck decides whether a date range is bookable.
// POST /api/v1/availability/check
func (s *HTTPServer) handleAvailabilityCheck(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_check")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityCheckRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	available, reason, err := s.engine.CheckAvailability(r.Context(), req.PropertyID, checkIn, checkOut)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AvailabilityCheckResponse{
		PropertyID: req.PropertyID,
		Available:  available,
		Reason:     reason,
	})
}

// handleAvailabilityCalendar returns per-date bookability for a window.
// POST /api/v1/availability/calendar
func (s *HTTPServer) handleAvailabilityCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_calendar")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CalendarRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, end, err := s.parseCalendarWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.AvailabilityCalendarKey(req.PropertyID, req.StartDate, req.EndDate)
	var calendar map[string]bool
	if !s.cache.Get(r.Context(), key, &calendar) {
		calendar, err = s.engine.GetAvailabilityCalendar(r.Context(), req.PropertyID, start, end)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.cache.Set(r.Context(), key, calendar)
	}

	writeJSON(w, http.StatusOK, AvailabilityCalendarResponse{
		PropertyID: req.PropertyID,
		Calendar:   calendar,
		Period:     Period{Start: req.StartDate, End: req.EndDate},
	})
}

// parseStay validates the check-in/check-out pair of a single-stay request.
func parseStay(checkInStr, checkOutStr string) (checkIn, checkOut time.Time, err error) {
	if checkInStr == "" || checkOutStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("check_in and check_out are required")
	}
	checkIn, err = time.Parse("2006-01-02", checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid check_in format; expected YYYY-MM-DD")
	}
	checkOut, err = time.Parse("2006-01-02", checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid check_out format; expected YYYY-MM-DD")
	}
	return checkIn, checkOut, nil
}

// parseCalendarWindow validates a calendar window and enforces the span cap.
func (s *HTTPServer) parseCalendarWindow(startStr, endStr string) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}
	start, err = time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}
	end, err = time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before or equal to end_date")
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > s.opts.MaxCalendarDays {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of %d days", s.opts.MaxCalendarDays)
	}
	return start, end, nil
}
