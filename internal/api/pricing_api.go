package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"villetta/internal/cache"
	"villetta/internal/export"
	"villetta/internal/metrics"
)

// QuoteRequest is the request body for POST /api/v1/pricing/quote.
type QuoteRequest struct {
	PropertyID int64  `json:"property_id"`
	CheckIn    string `json:"check_in"`  // Format: YYYY-MM-DD
	CheckOut   string `json:"check_out"` // Format: YYYY-MM-DD, exclusive
}

// PricingCalendarResponse maps each date in the window to a nightly rate in
// minor currency units.
type PricingCalendarResponse struct {
	PropertyID int64            `json:"property_id"`
	Calendar   map[string]int64 `json:"calendar"`
	Period     Period           `json:"period"`
}

// handlePricingQuote prices a whole stay.
// POST /api/v1/pricing/quote
func (s *HTTPServer) handlePricingQuote(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("pricing_quote")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req QuoteRequest
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

	result, err := s.engine.CalculatePricing(r.Context(), req.PropertyID, checkIn, checkOut)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePricingCalendar returns per-date nightly rates for a window. Results
// are served from the response cache when one is configured.
// POST /api/v1/pricing/calendar
func (s *HTTPServer) handlePricingCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("pricing_calendar")

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

	key := cache.PricingCalendarKey(req.PropertyID, req.StartDate, req.EndDate)
	var calendar map[string]int64
	if !s.cache.Get(r.Context(), key, &calendar) {
		calendar, err = s.engine.GetPricingCalendar(r.Context(), req.PropertyID, start, end)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.cache.Set(r.Context(), key, calendar)
	}

	writeJSON(w, http.StatusOK, PricingCalendarResponse{
		PropertyID: req.PropertyID,
		Calendar:   calendar,
		Period:     Period{Start: req.StartDate, End: req.EndDate},
	})
}

// handlePricingCalendarExport streams the pricing calendar as an XLSX file.
// GET /api/v1/pricing/calendar/export?property_id=&start_date=&end_date=
func (s *HTTPServer) handlePricingCalendarExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("pricing_calendar_export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	query := r.URL.Query()
	var propertyID int64
	if _, err := fmt.Sscanf(query.Get("property_id"), "%d", &propertyID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing property_id")
		return
	}

	startStr, endStr := query.Get("start_date"), query.Get("end_date")
	start, end, err := s.parseCalendarWindow(startStr, endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	property, err := s.properties.GetProperty(r.Context(), propertyID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	prices, err := s.engine.GetPricingCalendar(r.Context(), propertyID, start, end)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	availability, err := s.engine.GetAvailabilityCalendar(r.Context(), propertyID, start, end)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	filename := fmt.Sprintf("pricing_%d_%s_%s.xlsx", propertyID, startStr, endStr)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.PricingCalendarXLSX(w, property, prices, availability); err != nil {
		s.logger.Error().Err(err).Msg("pricing calendar export failed")
	}
}
