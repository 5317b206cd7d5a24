package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

var ErrTemplateNotFound = errors.New("template not found")

const templateColumns = `id, user_id, name, description, exercises, is_active, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListActive returns the user's active templates, most recently updated first.
func (r *Repo) ListActive(ctx context.Context, userID string) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.listActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+templateColumns+`
			FROM workout_template
			WHERE user_id = $1 AND is_active
			ORDER BY updated_at DESC, id;
		`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("templates [query]: %w", err)
	}

	templates, err := pgx.CollectRows(rows, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("templates [collect]: %w", err)
	}

	return templates, nil
}

// Get returns the user's template, soft deleted ones included.
func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTemplateNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+templateColumns+` FROM workout_template WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("template [query]: %w", err)
	}

	template, err := pgx.CollectExactlyOneRow(rows, scanTemplate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("template [collect]: %w", err)
	}

	return &template, nil
}

func (r *Repo) Create(ctx context.Context, template *Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", template.ID))

	entriesJson, err := json.Marshal(template.Exercises)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO workout_template (id, user_id, name, description, exercises, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7);
		`,
		template.ID, template.UserID, template.Name, template.Description, entriesJson,
		template.CreatedAt, template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}

	template.IsActive = true
	return nil
}

// Update replaces name, description and entries of an active template and
// fills in its creation time.
func (r *Repo) Update(ctx context.Context, template *Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", template.ID))

	if _, err := uuid.Parse(template.ID); err != nil {
		return ErrTemplateNotFound
	}

	entriesJson, err := json.Marshal(template.Exercises)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`
			UPDATE workout_template
			SET name = $1, description = $2, exercises = $3, updated_at = $4
			WHERE id = $5 AND user_id = $6 AND is_active
			RETURNING created_at;
		`,
		template.Name, template.Description, entriesJson, template.UpdatedAt, template.ID, template.UserID,
	).Scan(&template.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTemplateNotFound
	}
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}

	template.IsActive = true
	return nil
}

// SoftDelete deactivates an active template. The row stays in storage.
func (r *Repo) SoftDelete(ctx context.Context, userID, id string, at time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.softDelete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return ErrTemplateNotFound
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_template SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND user_id = $3 AND is_active;`,
		at, id, userID,
	)
	if err != nil {
		return fmt.Errorf("soft delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func scanTemplate(row pgx.CollectableRow) (Template, error) {
	var t Template
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Description,
		&t.Exercises,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if t.Exercises == nil {
		t.Exercises = []Entry{}
	}
	return t, err
}
