package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO app_user (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5);`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *Repo) getOne(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRow(
		ctx,
		`SELECT id, email, name, password_hash, last_template_id, created_at FROM app_user `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.LastTemplateID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// FavoriteExerciseIDs returns the user's favorites, oldest first.
func (r *Repo) FavoriteExerciseIDs(ctx context.Context, userID string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.favorites")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_id FROM user_favorite_exercise WHERE user_id = $1 ORDER BY created_at, exercise_id;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect favorites: %w", err)
	}

	span.SetAttributes(attribute.Int("favorites.count", len(ids)))
	return ids, nil
}

// ToggleFavorite flips the membership of exerciseID in the user's favorites and
// returns the new membership. The user row is locked for the duration of the
// transaction, so concurrent toggles of the same user run one after another.
func (r *Repo) ToggleFavorite(ctx context.Context, userID, exerciseID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.toggleFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	// no-op after a successful commit
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM app_user WHERE id = $1 FOR UPDATE;`, userID).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("lock user: %w", err)
	}

	tag, err := tx.Exec(
		ctx,
		`DELETE FROM user_favorite_exercise WHERE user_id = $1 AND exercise_id = $2;`,
		userID, exerciseID,
	)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}

	isFavorite := false
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO user_favorite_exercise (user_id, exercise_id) VALUES ($1, $2);`,
			userID, exerciseID,
		); err != nil {
			return false, fmt.Errorf("add favorite: %w", err)
		}
		isFavorite = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	span.SetAttributes(attribute.Bool("exercise.favorite", isFavorite))
	return isFavorite, nil
}

func (r *Repo) SetLastTemplate(ctx context.Context, userID, templateID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.setLastTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("template.id", templateID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET last_template_id = $1 WHERE id = $2;`,
		templateID, userID,
	)
	if err != nil {
		return fmt.Errorf("update last template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
