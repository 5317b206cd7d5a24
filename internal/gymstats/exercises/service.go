package exercises

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/validation"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	ListVisible(ctx context.Context, userID string) ([]Exercise, error)
	Get(ctx context.Context, id string) (*Exercise, error)
	AddCustom(ctx context.Context, exercise *Exercise) error
	UpsertGlobal(ctx context.Context, batch []Exercise) (int, error)
}

// favoritesStore keeps the user's set of favorite exercises.
type favoritesStore interface {
	FavoriteExerciseIDs(ctx context.Context, userID string) ([]string, error)
	ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error)
}

type Service struct {
	repo      exercisesRepo
	favorites favoritesStore
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewService(repo exercisesRepo, favorites favoritesStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:      repo,
		favorites: favorites,
		metrics:   metricsManager,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID string) (_ []ListItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercises, err := s.repo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	favoriteIDs, err := s.favorites.FavoriteExerciseIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	favorites := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favorites[id] = true
	}

	items := make([]ListItem, 0, len(exercises))
	for _, e := range exercises {
		items = append(items, ListItem{
			Exercise:   e,
			IsFavorite: favorites[e.ID],
		})
	}

	return items, nil
}

func (s *Service) CreateCustom(ctx context.Context, userID string, req CreateRequest) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.createCustom")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	owner := userID
	exercise := &Exercise{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		IsCustom:    true,
		CreatedBy:   &owner,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.AddCustom(ctx, exercise); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("exercise.id", exercise.ID))
	log.Debugf("custom exercise %s added by %s", exercise.ID, userID)
	return exercise, nil
}

// ToggleFavorite flips the exercise in the user's favorites and returns the new state.
// Exercises the user cannot see are reported as not found.
func (s *Service) ToggleFavorite(ctx context.Context, userID, exerciseID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.toggleFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	exercise, err := s.repo.Get(ctx, exerciseID)
	if err != nil {
		return false, err
	}
	if !exercise.VisibleTo(userID) {
		return false, ErrExerciseNotFound
	}

	isFavorite, err := s.favorites.ToggleFavorite(ctx, userID, exercise.ID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterFavoriteToggles.Inc()
	}
	return isFavorite, nil
}

// Seed adds the default global exercises that are missing from the catalog.
func (s *Service) Seed(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	defaults := DefaultCatalog()
	now := s.now().UTC()
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		defaults[i].CreatedAt = now
	}

	added, err := s.repo.UpsertGlobal(ctx, defaults)
	if err != nil {
		return added, fmt.Errorf("upsert global exercises: %w", err)
	}

	log.Infof("exercise catalog seeded: %d added, %d already present", added, len(defaults)-added)
	return added, nil
}
