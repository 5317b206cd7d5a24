package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/gymstats/exercises"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/validation"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	List(ctx context.Context, params ListParams) ([]Workout, int, error)
	ListAll(ctx context.Context, userID string, from, to *time.Time) ([]Workout, error)
	Get(ctx context.Context, userID, id string) (*Workout, error)
	Create(ctx context.Context, workout *Workout) error
	Update(ctx context.Context, workout *Workout) error
	Delete(ctx context.Context, userID, id string) error
}

type exerciseCatalog interface {
	Lookup(ctx context.Context, ids []string) (map[string]exercises.Exercise, error)
}

type Service struct {
	repo    workoutsRepo
	catalog exerciseCatalog
	metrics *metrics.Manager
	now     func() time.Time
}

func NewService(repo workoutsRepo, catalog exerciseCatalog, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		metrics: metricsManager,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, params ListParams) (_ *ListResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if params.Limit == 0 {
		params.Limit = DefaultListLimit
	}
	if vErrs := validateListParams(params); vErrs != nil {
		return nil, vErrs
	}

	workouts, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	views, err := s.expand(ctx, workouts...)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Workouts: views,
		Total:    total,
	}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.expandOne(ctx, workout)
}

func (s *Service) Create(ctx context.Context, userID string, req Request) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.validate(ctx, userID, req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	workout := &Workout{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         now,
		Sets:         req.Sets,
		Notes:        req.Notes,
		Duration:     req.Duration,
		TemplateUsed: req.TemplateUsed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Date != nil {
		workout.Date = req.Date.UTC()
	}

	if err := s.repo.Create(ctx, workout); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	if s.metrics != nil {
		s.metrics.CounterWorkoutsLogged.Inc()
		s.metrics.CounterSetsLogged.Add(float64(len(workout.Sets)))
	}
	log.Debugf("workout %s logged with %d sets", workout.ID, len(workout.Sets))

	return s.expandOne(ctx, workout)
}

// Update replaces date, sets, notes, duration and template of an existing workout.
// A missing date keeps the stored one.
func (s *Service) Update(ctx context.Context, userID, id string, req Request) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	if err := s.validate(ctx, userID, req); err != nil {
		return nil, err
	}

	workout := &Workout{
		ID:           id,
		UserID:       userID,
		Sets:         req.Sets,
		Notes:        req.Notes,
		Duration:     req.Duration,
		TemplateUsed: req.TemplateUsed,
		UpdatedAt:    s.now().UTC(),
	}
	if req.Date != nil {
		workout.Date = req.Date.UTC()
	} else {
		existing, err := s.repo.Get(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		workout.Date = existing.Date
	}

	if err := s.repo.Update(ctx, workout); err != nil {
		return nil, err
	}

	return s.expandOne(ctx, workout)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// ListAll returns the user's workouts in the date range in chronological order.
func (s *Service) ListAll(ctx context.Context, userID string, from, to *time.Time) ([]Workout, error) {
	return s.repo.ListAll(ctx, userID, from, to)
}

// validate checks the request shape and that every set references an exercise
// visible to the user.
func (s *Service) validate(ctx context.Context, userID string, req Request) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	ids := make([]string, 0, len(req.Sets))
	for _, set := range req.Sets {
		ids = append(ids, set.ExerciseID)
	}
	found, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return fmt.Errorf("lookup exercises: %w", err)
	}

	var vErrs validation.Errors
	for i, set := range req.Sets {
		e, ok := found[set.ExerciseID]
		if !ok || !e.VisibleTo(userID) {
			vErrs = append(vErrs, validation.FieldError{
				Field:   fmt.Sprintf("sets[%d].exerciseId", i),
				Message: "references an unknown exercise",
			})
		}
	}
	if len(vErrs) > 0 {
		return vErrs
	}

	return nil
}

func (s *Service) expandOne(ctx context.Context, workout *Workout) (*View, error) {
	views, err := s.expand(ctx, *workout)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// expand resolves the exercise of every set. Exercises that no longer resolve
// are left as null.
func (s *Service) expand(ctx context.Context, workouts ...Workout) ([]View, error) {
	var ids []string
	for _, w := range workouts {
		for _, set := range w.Sets {
			ids = append(ids, set.ExerciseID)
		}
	}

	found, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup exercises: %w", err)
	}

	views := make([]View, 0, len(workouts))
	for _, w := range workouts {
		sets := make([]SetView, 0, len(w.Sets))
		for _, set := range w.Sets {
			sv := SetView{Set: set}
			if e, ok := found[set.ExerciseID]; ok {
				sv.Exercise = e.Ref()
			}
			sets = append(sets, sv)
		}

		views = append(views, View{
			ID:           w.ID,
			UserID:       w.UserID,
			Date:         w.Date,
			Sets:         sets,
			Notes:        w.Notes,
			Duration:     w.Duration,
			TemplateUsed: w.TemplateUsed,
			TotalVolume:  TotalVolume(w.Sets),
			CreatedAt:    w.CreatedAt,
			UpdatedAt:    w.UpdatedAt,
		})
	}

	return views, nil
}

func validateListParams(params ListParams) validation.Errors {
	var vErrs validation.Errors
	if params.Limit < 1 || params.Limit > MaxListLimit {
		vErrs = append(vErrs, validation.FieldError{
			Field:   "limit",
			Message: fmt.Sprintf("must be between 1 and %d", MaxListLimit),
		})
	}
	if params.Skip < 0 {
		vErrs = append(vErrs, validation.FieldError{Field: "skip", Message: "must be greater than or equal to 0"})
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		vErrs = append(vErrs, validation.FieldError{Field: "startDate", Message: "must not be after endDate"})
	}
	return vErrs
}
