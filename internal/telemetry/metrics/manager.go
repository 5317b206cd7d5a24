package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterLoginAttempts       *prometheus.CounterVec
	CounterWorkoutsLogged      prometheus.Counter
	CounterSetsLogged          prometheus.Counter
	CounterTemplatesUsed       prometheus.Counter
	CounterFavoriteToggles     prometheus.Counter
	CounterExerciseCacheLookup *prometheus.CounterVec

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramStatsWorkouts   *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("liftlog", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftlog", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterLoginAttempts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "login_attempts",
		Help:      "Login attempts by outcome",
	}, []string{"outcome"})
	counterWorkoutsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_logged",
		Help:      "The total number of logged workouts",
	})
	counterSetsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sets_logged",
		Help:      "The total number of sets in logged workouts",
	})
	counterTemplatesUsed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "templates_used",
		Help:      "The total number of template instantiations",
	})
	counterFavoriteToggles := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "favorite_toggles",
		Help:      "The total number of favorite exercise toggles",
	})
	counterExerciseCacheLookup := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exercise_cache_lookup",
		Help:      "Exercise cache lookups by result (hit, miss)",
	}, []string{"result"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of open connections",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramStatsWorkouts := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stats_workouts_scanned",
		Help:      "Number of workouts loaded per stats computation",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"stat"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterLoginAttempts:       counterLoginAttempts,
		CounterWorkoutsLogged:      counterWorkoutsLogged,
		CounterSetsLogged:          counterSetsLogged,
		CounterTemplatesUsed:       counterTemplatesUsed,
		CounterFavoriteToggles:     counterFavoriteToggles,
		CounterExerciseCacheLookup: counterExerciseCacheLookup,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramStatsWorkouts:     histogramStatsWorkouts,
	}
}
