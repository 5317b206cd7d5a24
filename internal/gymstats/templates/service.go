package templates

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

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=templates_test

type templatesRepo interface {
	ListActive(ctx context.Context, userID string) ([]Template, error)
	Get(ctx context.Context, userID, id string) (*Template, error)
	Create(ctx context.Context, template *Template) error
	Update(ctx context.Context, template *Template) error
	SoftDelete(ctx context.Context, userID, id string, at time.Time) error
}

type exerciseCatalog interface {
	Lookup(ctx context.Context, ids []string) (map[string]exercises.Exercise, error)
}

type lastTemplateStore interface {
	SetLastTemplate(ctx context.Context, userID, templateID string) error
}

type Service struct {
	repo         templatesRepo
	catalog      exerciseCatalog
	lastTemplate lastTemplateStore
	metrics      *metrics.Manager
	now          func() time.Time
}

func NewService(
	repo templatesRepo,
	catalog exerciseCatalog,
	lastTemplate lastTemplateStore,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:         repo,
		catalog:      catalog,
		lastTemplate: lastTemplate,
		metrics:      metricsManager,
		now:          time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID string) (_ []View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	templates, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, templates...)
}

// Get returns the template even when it was soft deleted.
func (s *Service) Get(ctx context.Context, userID, id string) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	template, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.expandOne(ctx, template)
}

func (s *Service) Create(ctx context.Context, userID string, req Request) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	template := &Template{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Exercises:   req.Exercises,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("template.id", template.ID))

	return s.expandOne(ctx, template)
}

func (s *Service) Update(ctx context.Context, userID, id string, req Request) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	if err := s.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	template := &Template{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Exercises:   req.Exercises,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}

	return s.expandOne(ctx, template)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.SoftDelete(ctx, userID, id, s.now().UTC())
}

// Use expands an active template into suggested sets and remembers it as the
// user's last used template. No workout is created.
func (s *Service) Use(ctx context.Context, userID, id string) (_ *UseResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.use")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	template, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !template.IsActive {
		return nil, ErrTemplateNotFound
	}

	if err := s.lastTemplate.SetLastTemplate(ctx, userID, template.ID); err != nil {
		return nil, fmt.Errorf("set last template: %w", err)
	}

	view, err := s.expandOne(ctx, template)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CounterTemplatesUsed.Inc()
	}
	log.Tracef("template %s used by %s", template.ID, userID)

	return &UseResponse{
		Template:      view,
		SuggestedSets: Expand(template.Exercises),
	}, nil
}

func (s *Service) validate(ctx context.Context, userID string, req *Request) error {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return err
	}

	ids := make([]string, 0, len(req.Exercises))
	for _, entry := range req.Exercises {
		ids = append(ids, entry.ExerciseID)
	}
	found, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return fmt.Errorf("lookup exercises: %w", err)
	}

	var vErrs validation.Errors
	for i, entry := range req.Exercises {
		e, ok := found[entry.ExerciseID]
		if !ok || !e.VisibleTo(userID) {
			vErrs = append(vErrs, validation.FieldError{
				Field:   fmt.Sprintf("exercises[%d].exerciseId", i),
				Message: "references an unknown exercise",
			})
		}
	}
	if len(vErrs) > 0 {
		return vErrs
	}

	return nil
}

func (s *Service) expandOne(ctx context.Context, template *Template) (*View, error) {
	views, err := s.expand(ctx, *template)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) expand(ctx context.Context, templates ...Template) ([]View, error) {
	var ids []string
	for _, t := range templates {
		for _, entry := range t.Exercises {
			ids = append(ids, entry.ExerciseID)
		}
	}

	found, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup exercises: %w", err)
	}

	views := make([]View, 0, len(templates))
	for _, t := range templates {
		entries := make([]EntryView, 0, len(t.Exercises))
		for _, entry := range t.Exercises {
			ev := EntryView{Entry: entry}
			if e, ok := found[entry.ExerciseID]; ok {
				ev.Exercise = e.Ref()
			}
			entries = append(entries, ev)
		}

		views = append(views, View{
			ID:          t.ID,
			UserID:      t.UserID,
			Name:        t.Name,
			Description: t.Description,
			Exercises:   entries,
			IsActive:    t.IsActive,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}

	return views, nil
}
