// Package telemetry provides OpenTelemetry instrumentation for the reelscope
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "reelscope"

// Metrics holds all reelscope Prometheus metrics
type Metrics struct {
	// Reconcile metrics
	AnalysesTotal     *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	ForcedRefreshes   prometheus.Counter
	CommentsPerReel   prometheus.Histogram
	SpamCommentsTotal prometheus.Counter

	// Scraper metrics
	ScrapeAttempts *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec

	// Model gateway metrics
	ModelCalls        prometheus.Counter
	ModelCallDuration prometheus.Histogram
	ModelFallbacks    *prometheus.CounterVec

	// Aggregation metrics
	ComparisonsTotal   prometheus.Counter
	ComparisonSize     prometheus.Histogram
	UserAnalyticsTotal prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initReconcileMetrics(m)
	initScrapeMetrics(m)
	initModelMetrics(m)
	initAggregationMetrics(m)
	return m
}

func initReconcileMetrics(m *Metrics) {
	m.AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelscope_analyses_total",
		Help: "Total analyze requests by outcome (cache_hit, refreshed, failed)",
	}, []string{"outcome"})

	m.AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelscope_analysis_duration_seconds",
		Help:    "End-to-end time for one fresh reel analysis",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	m.CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_cache_hits_total",
		Help: "Analyze requests served from a fresh stored record",
	})

	m.CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_cache_misses_total",
		Help: "Analyze requests that required a fresh scrape",
	})

	m.ForcedRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_forced_refreshes_total",
		Help: "Analyze requests that bypassed the freshness window",
	})

	m.CommentsPerReel = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelscope_comments_per_reel",
		Help:    "Number of comments analyzed per reel",
		Buckets: []float64{0, 1, 5, 10, 15, 20},
	})

	m.SpamCommentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_spam_comments_total",
		Help: "Total comments flagged as spam",
	})
}

func initScrapeMetrics(m *Metrics) {
	m.ScrapeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelscope_scrape_attempts_total",
		Help: "Scrape attempts by provider and outcome",
	}, []string{"provider", "outcome"})

	m.ScrapeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reelscope_scrape_duration_seconds",
		Help:    "Time spent per provider fetch",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"provider"})
}

func initModelMetrics(m *Metrics) {
	m.ModelCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_model_calls_total",
		Help: "Total hosted-model analysis calls",
	})

	m.ModelCallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelscope_model_call_duration_seconds",
		Help:    "Latency of hosted-model analysis calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
	})

	m.ModelFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelscope_model_fallbacks_total",
		Help: "Analyses that degraded to the deterministic fallback",
	}, []string{"reason"})
}

func initAggregationMetrics(m *Metrics) {
	m.ComparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_comparisons_total",
		Help: "Total comparison requests",
	})

	m.ComparisonSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelscope_comparison_size",
		Help:    "Number of URLs per comparison request",
		Buckets: []float64{2, 3, 4, 5},
	})

	m.UserAnalyticsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelscope_user_analytics_total",
		Help: "Total user analytics requests",
	})
}

// RecordCacheHit records an analyze request served from the store.
func (p *Provider) RecordCacheHit(ctx context.Context) {
	p.Metrics.CacheHits.Inc()
	p.Metrics.AnalysesTotal.WithLabelValues("cache_hit").Inc()
}

// RecordFreshAnalysis records a completed scrape-and-analyze cycle.
func (p *Provider) RecordFreshAnalysis(ctx context.Context, duration time.Duration, comments, spam int, forced bool) {
	p.Metrics.CacheMisses.Inc()
	p.Metrics.AnalysesTotal.WithLabelValues("refreshed").Inc()
	p.Metrics.AnalysisDuration.Observe(duration.Seconds())
	p.Metrics.CommentsPerReel.Observe(float64(comments))
	p.Metrics.SpamCommentsTotal.Add(float64(spam))
	if forced {
		p.Metrics.ForcedRefreshes.Inc()
	}
}

// RecordAnalysisFailure records an analyze request that surfaced an error.
func (p *Provider) RecordAnalysisFailure(ctx context.Context) {
	p.Metrics.AnalysesTotal.WithLabelValues("failed").Inc()
}

// RecordScrape records one provider attempt.
func (p *Provider) RecordScrape(ctx context.Context, provider string, success bool, duration time.Duration) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	p.Metrics.ScrapeAttempts.WithLabelValues(provider, outcome).Inc()
	p.Metrics.ScrapeDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordModelCall records one hosted-model round trip.
func (p *Provider) RecordModelCall(ctx context.Context, duration time.Duration) {
	p.Metrics.ModelCalls.Inc()
	p.Metrics.ModelCallDuration.Observe(duration.Seconds())
}

// RecordModelFallback records an analysis that used the deterministic
// fallback instead of model output.
func (p *Provider) RecordModelFallback(ctx context.Context, reason string) {
	p.Metrics.ModelFallbacks.WithLabelValues(reason).Inc()
}

// RecordComparison records one comparison request.
func (p *Provider) RecordComparison(ctx context.Context, urlCount int) {
	p.Metrics.ComparisonsTotal.Inc()
	p.Metrics.ComparisonSize.Observe(float64(urlCount))
}

// RecordUserAnalytics records one user analytics request.
func (p *Provider) RecordUserAnalytics(ctx context.Context) {
	p.Metrics.UserAnalyticsTotal.Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
