package exercises

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/auth"
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

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	mainRouter.HandleFunc("/exercises", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-exercise")
	mainRouter.HandleFunc("/exercises/{id}/favorite", handler.HandleToggleFavorite).Methods("PATCH", "OPTIONS").Name("toggle-favorite")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := handler.service.List(ctx, userID)
	if err != nil {
		writeError(w, err, "list")
		return
	}

	pkg.WriteJSON(w, items, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if !validation.DecodeJSON(w, r, &req) {
		return
	}

	exercise, err := handler.service.CreateCustom(ctx, userID, req)
	if err != nil {
		writeError(w, err, "create")
		return
	}

	pkg.WriteJSON(w, exercise, http.StatusCreated)
}

func (handler *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.toggleFavorite")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	isFavorite, err := handler.service.ToggleFavorite(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "toggle favorite")
		return
	}

	pkg.WriteJSON(w, FavoriteResponse{IsFavorite: isFavorite}, http.StatusOK)
}

func writeError(w http.ResponseWriter, err error, op string) {
	if vErrs, ok := validation.AsErrors(err); ok {
		validation.WriteErrors(w, vErrs)
		return
	}

	if errors.Is(err, ErrExerciseNotFound) {
		pkg.WriteJSONError(w, "exercise not found", http.StatusNotFound)
		return
	}

	log.Errorf("exercises %s: %s", op, err)
	pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
}
