// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by route, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "registration",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "registration",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// StudentOps counts service operations by name and outcome.
	StudentOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "registration",
		Name:      "student_operations_total",
		Help:      "Student operations by op and result.",
	}, []string{"op", "result"})

	// EventsPublished counts change events handed to the queue.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "registration",
		Name:      "events_published_total",
		Help:      "Change events published by type and result.",
	}, []string{"type", "result"})

	// EventsConsumed counts change events processed by the worker.
	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "registration",
		Name:      "events_consumed_total",
		Help:      "Change events consumed by type.",
	}, []string{"type"})

	// RateLimited counts requests rejected by the limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "registration",
		Name:      "rate_limited_total",
		Help:      "Requests rejected with 429.",
	})
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
)
