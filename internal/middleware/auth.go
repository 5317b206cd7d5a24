package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type loginChecker interface {
	SessionUser(ctx context.Context, token string) (string, error)
}

type AuthMiddlewareHandler struct {
	loginChecker loginChecker
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			"/":            true,
			"/version":     true,
			"/auth/signup": true,
			"/auth/login":  true,
		},
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthCheck resolves the bearer token to a user id and stores it in the
// request context. Public paths and preflight requests pass through.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := BearerToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.loginChecker.SessionUser(ctx, token)
			if errors.Is(err, auth.ErrSessionNotFound) {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}

			span.SetAttributes(attribute.String("user.id", userID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(ctx, userID)))
		})
	}
}
