package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dispatch metrics
	SkillRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_requests_total",
		Help: "Skill requests dispatched, by request kind and outcome",
	}, []string{"kind", "outcome"})

	SkillDispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skill_dispatch_duration_seconds",
		Help:    "Time spent producing a response for one request envelope",
		Buckets: prometheus.DefBuckets,
	})

	// Profile API metrics
	ProfileAPIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_profile_api_requests_total",
		Help: "Customer profile API calls, by lookup and HTTP status (or transport error)",
	}, []string{"lookup", "status"})

	ProfileAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skill_profile_api_latency_seconds",
		Help:    "Customer profile API call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"lookup"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_events_published_total",
		Help: "Interaction events handed to the message queue",
	}, []string{"status"})
)
