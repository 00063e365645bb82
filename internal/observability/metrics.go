// Package observability exposes Prometheus metrics for ephemeris fetches,
// scene size and the HTTP surface.
package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-orrery/internal/ephem"
)

// Collector bundles the orrery's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	FetchRequests  *prometheus.CounterVec
	FetchDurations *prometheus.HistogramVec
	StaleResults   prometheus.Counter
	SceneMeshes    prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_fetch_requests_total",
		Help: "Ephemeris service requests, labeled by endpoint and outcome.",
	}, []string{"endpoint", "outcome"}), "orrery_fetch_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orrery_fetch_duration_seconds",
		Help:    "Ephemeris service request latency in seconds.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"}), "orrery_fetch_duration_seconds")
	if err != nil {
		return nil, err
	}

	stale, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_stale_results_total",
		Help: "Position results discarded because a newer request was issued.",
	}), "orrery_stale_results_total")
	if err != nil {
		return nil, err
	}

	meshes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_scene_meshes",
		Help: "Meshes in the most recently built scene, including the central star.",
	}), "orrery_scene_meshes")
	if err != nil {
		return nil, err
	}

	httpRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_http_requests_total",
		Help: "Served HTTP requests, labeled by route and status code.",
	}, []string{"route", "code"}), "orrery_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		FetchRequests:  requests,
		FetchDurations: durations,
		StaleResults:   stale,
		SceneMeshes:    meshes,
		HTTPRequests:   httpRequests,
	}, nil
}

// ObserveFetch implements ephem.Recorder.
func (c *Collector) ObserveFetch(endpoint string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.FetchRequests.WithLabelValues(endpoint, Outcome(err)).Inc()
	c.FetchDurations.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveStale counts a discarded position result.
func (c *Collector) ObserveStale() {
	if c == nil {
		return
	}
	c.StaleResults.Inc()
}

// SetSceneMeshes records the current scene size.
func (c *Collector) SetSceneMeshes(n int) {
	if c == nil {
		return
	}
	c.SceneMeshes.Set(float64(n))
}

// ObserveHTTP counts one served request.
func (c *Collector) ObserveHTTP(route string, code int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Outcome maps a fetch error to a metric label: "ok", "status_<code>" for
// non-200 responses, or "error".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var se *ephem.StatusError
	if errors.As(err, &se) {
		return "status_" + strconv.Itoa(se.Code)
	}
	return "error"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
