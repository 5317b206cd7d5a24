package stats

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/gymstats/exercises"
	"github.com/2beens/liftlog/internal/gymstats/workouts"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/validation"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=stats_test

type workoutsSource interface {
	ListAll(ctx context.Context, userID string, from, to *time.Time) ([]workouts.Workout, error)
}

type exerciseCatalog interface {
	Lookup(ctx context.Context, ids []string) (map[string]exercises.Exercise, error)
}

// Service computes statistics from scratch on every call, over the workouts
// loaded once per request.
type Service struct {
	workouts     workoutsSource
	catalog      exerciseCatalog
	metrics      *metrics.Manager
	defaultWeeks int
	now          func() time.Time
}

func NewService(
	source workoutsSource,
	catalog exerciseCatalog,
	metricsManager *metrics.Manager,
	defaultWeeks int,
) *Service {
	if defaultWeeks <= 0 {
		defaultWeeks = DefaultWeeks
	}
	return &Service{
		workouts:     source,
		catalog:      catalog,
		metrics:      metricsManager,
		defaultWeeks: defaultWeeks,
		now:          time.Now,
	}
}

// Volume returns the weekly volume of the trailing window of weeks (0 means the default).
func (s *Service) Volume(ctx context.Context, userID string, weeks int) (_ map[string]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.volume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if weeks == 0 {
		weeks = s.defaultWeeks
	}
	if weeks < 1 || weeks > MaxWeeks {
		return nil, validation.New("weeks", fmt.Sprintf("must be between 1 and %d", MaxWeeks))
	}
	span.SetAttributes(attribute.Int("weeks", weeks))

	now := s.now().UTC()
	from := WindowStart(now, weeks)
	history, err := s.workouts.ListAll(ctx, userID, &from, &now)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	s.observe("volume", len(history))

	return WeeklyVolume(history), nil
}

func (s *Service) PersonalRecords(ctx context.Context, userID string) (_ map[string]PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.personalRecords")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	history, err := s.workouts.ListAll(ctx, userID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	s.observe("pr", len(history))

	var ids []string
	for _, w := range history {
		for _, set := range w.Sets {
			ids = append(ids, set.ExerciseID)
		}
	}
	found, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup exercises: %w", err)
	}

	names := make(map[string]string, len(found))
	for id, e := range found {
		names[id] = e.Name
	}

	records := PersonalRecords(history, names)
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (s *Service) observe(stat string, workoutsCount int) {
	if s.metrics != nil {
		s.metrics.HistogramStatsWorkouts.WithLabelValues(stat).Observe(float64(workoutsCount))
	}
}
