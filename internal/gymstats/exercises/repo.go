package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const exerciseColumns = `id, name, category, muscle_group, equipment, is_custom, created_by, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListVisible returns the global exercises plus the user's custom ones, sorted by name.
func (r *Repo) ListVisible(ctx context.Context, userID string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listVisible")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+exerciseColumns+`
			FROM exercise
			WHERE NOT is_custom OR created_by = $1
			ORDER BY name, id;
		`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("exercises [query]: %w", err)
	}

	exercises, err := pgx.CollectRows(rows, scanExercise)
	if err != nil {
		return nil, fmt.Errorf("exercises [collect]: %w", err)
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrExerciseNotFound
	}

	rows, err := r.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercise WHERE id = $1;`, id)
	if err != nil {
		return nil, fmt.Errorf("exercise [query]: %w", err)
	}

	exercise, err := pgx.CollectExactlyOneRow(rows, scanExercise)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("exercise [collect]: %w", err)
	}

	return &exercise, nil
}

// GetMany returns the exercises found for ids. Unknown and malformed ids are skipped.
func (r *Repo) GetMany(ctx context.Context, ids []string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.getMany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercises.requested", len(ids)))

	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		uuids = append(uuids, parsed)
	}
	if len(uuids) == 0 {
		return []Exercise{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercise WHERE id = ANY($1);`, uuids)
	if err != nil {
		return nil, fmt.Errorf("exercises [query]: %w", err)
	}

	exercises, err := pgx.CollectRows(rows, scanExercise)
	if err != nil {
		return nil, fmt.Errorf("exercises [collect]: %w", err)
	}

	span.SetAttributes(attribute.Int("exercises.found", len(exercises)))
	return exercises, nil
}

func (r *Repo) AddCustom(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addCustom")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exercise.ID))

	if !exercise.IsCustom || exercise.CreatedBy == nil {
		return errors.New("custom exercise must have an owner")
	}

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO exercise (id, name, category, muscle_group, equipment, is_custom, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7);
		`,
		exercise.ID, exercise.Name, exercise.Category, exercise.MuscleGroup, exercise.Equipment,
		*exercise.CreatedBy, exercise.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}

	return nil
}

// UpsertGlobal inserts the global exercises whose names are not in the catalog yet
// and returns how many were added. Existing entries are left untouched, exercises
// never change once created.
func (r *Repo) UpsertGlobal(ctx context.Context, exercises []Exercise) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.upsertGlobal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	batch := &pgx.Batch{}
	for _, e := range exercises {
		batch.Queue(
			`
				INSERT INTO exercise (id, name, category, muscle_group, equipment, is_custom, created_by, created_at)
				VALUES ($1, $2, $3, $4, $5, FALSE, NULL, $6)
				ON CONFLICT (name) WHERE NOT is_custom DO NOTHING;
			`,
			e.ID, e.Name, e.Category, e.MuscleGroup, e.Equipment, e.CreatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	added := 0
	for range exercises {
		tag, err := results.Exec()
		if err != nil {
			return added, fmt.Errorf("upsert exercise: %w", err)
		}
		added += int(tag.RowsAffected())
	}

	span.SetAttributes(attribute.Int("exercises.added", added))
	return added, nil
}

func scanExercise(row pgx.CollectableRow) (Exercise, error) {
	var e Exercise
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Category,
		&e.MuscleGroup,
		&e.Equipment,
		&e.IsCustom,
		&e.CreatedBy,
		&e.CreatedAt,
	)
	return e, err
}
