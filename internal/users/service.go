package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/validation"
	"github.com/2beens/liftlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users_test

var ErrInvalidCredentials = errors.New("invalid credentials")

type usersRepo interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	FavoriteExerciseIDs(ctx context.Context, userID string) ([]string, error)
}

type sessionManager interface {
	Login(ctx context.Context, userID string) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type Service struct {
	repo     usersRepo
	sessions sessionManager
	metrics  *metrics.Manager

	// injectable for tests
	hashPassword func(password string) (string, error)
	now          func() time.Time
}

func NewService(repo usersRepo, sessions sessionManager, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:         repo,
		sessions:     sessions,
		metrics:      metricsManager,
		hashPassword: pkg.HashPassword,
		now:          time.Now,
	}
}

// Signup registers a new user and logs them in right away.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (_ *TokenResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.signup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req.Email = NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	passwordHash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, validation.New("email", "is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := s.sessions.Login(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login new user: %w", err)
	}

	log.Debugf("new user signed up: %s", user.ID)
	return &TokenResponse{
		Token: token,
		User: &Profile{
			User:        *user,
			Preferences: Preferences{FavoriteExercises: []string{}},
		},
	}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (_ *TokenResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(req.Email))
	if errors.Is(err, ErrUserNotFound) {
		s.countLogin("unknown_user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.countLogin("wrong_password")
		log.Tracef("failed login attempt for user: %s", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Login(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.countLogin("ok")

	profile, err := s.profile(ctx, user)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		Token: token,
		User:  profile,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	return s.sessions.Logout(ctx, token)
}

func (s *Service) Me(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.me")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.profile(ctx, user)
}

func (s *Service) profile(ctx context.Context, user *User) (*Profile, error) {
	favorites, err := s.repo.FavoriteExerciseIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	if favorites == nil {
		favorites = []string{}
	}

	return &Profile{
		User: *user,
		Preferences: Preferences{
			FavoriteExercises: favorites,
			LastTemplate:      user.LastTemplateID,
		},
	}, nil
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.CounterLoginAttempts.WithLabelValues(outcome).Inc()
	}
}
