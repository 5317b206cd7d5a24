package workouts

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/validation"
	"github.com/2beens/liftlog/pkg"
)

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	mainRouter.HandleFunc("/workouts", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-workout")
	mainRouter.HandleFunc("/workouts/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export-workouts")
	mainRouter.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	mainRouter.HandleFunc("/workouts/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	mainRouter.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	from, to, vErrs := parseDateRange(query)
	params := ListParams{
		UserID: userID,
		From:   from,
		To:     to,
		Limit:  parseIntParam(query, "limit", &vErrs),
		Skip:   parseIntParam(query, "skip", &vErrs),
	}
	if query.Has("limit") && params.Limit == 0 && len(vErrs) == 0 {
		vErrs = append(vErrs, validation.FieldError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxListLimit)})
	}
	if len(vErrs) > 0 {
		validation.WriteErrors(w, vErrs)
		return
	}

	resp, err := handler.service.List(ctx, params)
	if err != nil {
		writeError(w, err, "list")
		return
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	workout, err := handler.service.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get")
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req Request
	if !validation.DecodeJSON(w, r, &req) {
		return
	}

	workout, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		writeError(w, err, "create")
		return
	}

	pkg.WriteJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req Request
	if !validation.DecodeJSON(w, r, &req) {
		return
	}

	workout, err := handler.service.Update(ctx, userID, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, "update")
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(ctx, userID, id); err != nil {
		writeError(w, err, "delete")
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	from, to, vErrs := parseDateRange(r.URL.Query())
	if len(vErrs) > 0 {
		validation.WriteErrors(w, vErrs)
		return
	}

	csvBytes, err := handler.service.Export(ctx, userID, from, to)
	if err != nil {
		writeError(w, err, "export")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ExportFilename(handler.now())))
	pkg.WriteResponseBytes(w, pkg.ContentType.CSV, csvBytes, http.StatusOK)
}

func writeError(w http.ResponseWriter, err error, op string) {
	if vErrs, ok := validation.AsErrors(err); ok {
		validation.WriteErrors(w, vErrs)
		return
	}

	if errors.Is(err, ErrWorkoutNotFound) {
		pkg.WriteJSONError(w, "workout not found", http.StatusNotFound)
		return
	}

	log.Errorf("workouts %s: %s", op, err)
	pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
}
