package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "villetta",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	quotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "villetta",
			Name:      "pricing_quotes_total",
			Help:      "Count of pricing quotes by outcome.",
		},
		[]string{"outcome"},
	)

	fallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "villetta",
			Name:      "pricing_fallback_total",
			Help:      "Count of quotes served from the base-price fallback because the rule backend was unreachable.",
		},
	)

	ruleConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "villetta",
			Name:      "rule_conflict_total",
			Help:      "Count of stays matched by more than one absolute_price rule.",
		},
	)

	calendarDays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "villetta",
			Name:      "calendar_days_total",
			Help:      "Count of calendar days priced, by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, quotes, fallbacks, ruleConflicts, calendarDays)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncQuote(outcome string) {
	quotes.WithLabelValues(outcome).Inc()
}

func IncFallback() {
	fallbacks.Inc()
}

func IncRuleConflict() {
	ruleConflicts.Inc()
}

func IncCalendarDay(result string) {
	calendarDays.WithLabelValues(result).Inc()
}
