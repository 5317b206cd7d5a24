package workouts

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
	"go.opentelemetry.io/otel/trace"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

var ErrWorkoutNotFound = errors.New("workout not found")

const workoutColumns = `id, user_id, date, sets, notes, duration, template_used, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns a page of the user's workouts, newest first, and the total count
// of workouts matching the date filter.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))
	span.SetAttributes(attribute.Int("limit", params.Limit))
	span.SetAttributes(attribute.Int("skip", params.Skip))
	setRangeAttributes(span, params.From, params.To)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date <= $3)
			ORDER BY date DESC, created_at DESC
			LIMIT $4 OFFSET $5;
		`,
		params.UserID, params.From, params.To, params.Limit, params.Skip,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("workouts [query]: %w", err)
	}

	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, 0, fmt.Errorf("workouts [collect]: %w", err)
	}

	total, err = r.Count(ctx, params.UserID, params.From, params.To)
	if err != nil {
		return nil, 0, err
	}

	return workouts, total, nil
}

func (r *Repo) Count(ctx context.Context, userID string, from, to *time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(
		ctx,
		`
			SELECT COUNT(*) FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date <= $3);
		`,
		userID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("workouts count: %w", err)
	}

	return count, nil
}

// ListAll returns every workout of the user within the optional date range in
// chronological order (date, then creation time).
func (r *Repo) ListAll(ctx context.Context, userID string, from, to *time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	setRangeAttributes(span, from, to)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date <= $3)
			ORDER BY date, created_at, id;
		`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("workouts [query]: %w", err)
	}

	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, fmt.Errorf("workouts [collect]: %w", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrWorkoutNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+` FROM workout WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("workout [query]: %w", err)
	}

	workout, err := pgx.CollectExactlyOneRow(rows, scanWorkout)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workout [collect]: %w", err)
	}

	return &workout, nil
}

func (r *Repo) Create(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))
	span.SetAttributes(attribute.Int("workout.sets", len(workout.Sets)))

	setsJson, err := json.Marshal(workout.Sets)
	if err != nil {
		return fmt.Errorf("marshal sets: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO workout (id, user_id, date, sets, notes, duration, template_used, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`,
		workout.ID, workout.UserID, workout.Date, setsJson, workout.Notes, workout.Duration,
		workout.TemplateUsed, workout.CreatedAt, workout.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of the user's workout and fills in its creation time.
func (r *Repo) Update(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	if _, err := uuid.Parse(workout.ID); err != nil {
		return ErrWorkoutNotFound
	}

	setsJson, err := json.Marshal(workout.Sets)
	if err != nil {
		return fmt.Errorf("marshal sets: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`
			UPDATE workout
			SET date = $1, sets = $2, notes = $3, duration = $4, template_used = $5, updated_at = $6
			WHERE id = $7 AND user_id = $8
			RETURNING created_at;
		`,
		workout.Date, setsJson, workout.Notes, workout.Duration, workout.TemplateUsed, workout.UpdatedAt,
		workout.ID, workout.UserID,
	).Scan(&workout.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrWorkoutNotFound
	}
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return ErrWorkoutNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func scanWorkout(row pgx.CollectableRow) (Workout, error) {
	var w Workout
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Date,
		&w.Sets,
		&w.Notes,
		&w.Duration,
		&w.TemplateUsed,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if w.Sets == nil {
		w.Sets = []Set{}
	}
	return w, err
}

func setRangeAttributes(span trace.Span, from, to *time.Time) {
	if from != nil {
		span.SetAttributes(attribute.String("from", from.Format(time.RFC3339)))
	}
	if to != nil {
		span.SetAttributes(attribute.String("to", to.Format(time.RFC3339)))
	}
}
