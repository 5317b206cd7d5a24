package users

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/validation"
	"github.com/2beens/liftlog/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	loginRateLimitAllowedPerMin int,
) {
	authRouter := mainRouter.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")

	// rate limit signup and login per client ip to slow down credential stuffing
	publicRouter := authRouter.NewRoute().Subrouter()
	publicRouter.HandleFunc("/signup", handler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	publicRouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	publicRouter.Use(middleware.RateLimit(rateLimiter, "login", loginRateLimitAllowedPerMin, metricsManager))
}

func (handler *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signup")
	defer span.End()

	var req SignupRequest
	if !validation.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := handler.service.Signup(ctx, req)
	if err != nil {
		writeError(w, err, "signup")
		return
	}

	pkg.WriteJSON(w, resp, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req LoginRequest
	if !validation.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := handler.service.Login(ctx, req)
	if err != nil {
		writeError(w, err, "login")
		return
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	token := middleware.BearerToken(r)
	if token == "" {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.service.Logout(ctx, token)
	if err != nil {
		writeError(w, err, "logout")
		return
	}
	if !loggedOut {
		log.Tracef("logout: session already gone")
	}

	pkg.WriteJSON(w, map[string]string{"message": "logged out"}, http.StatusOK)
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.me")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := handler.service.Me(ctx, userID)
	if err != nil {
		writeError(w, err, "me")
		return
	}

	pkg.WriteJSON(w, profile, http.StatusOK)
}

func writeError(w http.ResponseWriter, err error, op string) {
	if vErrs, ok := validation.AsErrors(err); ok {
		validation.WriteErrors(w, vErrs)
		return
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		pkg.WriteJSONError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, ErrUserNotFound):
		// session points to a user that no longer exists
		pkg.WriteJSONError(w, "user not found", http.StatusNotFound)
	default:
		log.Errorf("users %s: %s", op, err)
		pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
