package templates

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
	mainRouter.HandleFunc("/templates", handler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	mainRouter.HandleFunc("/templates", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-template")
	mainRouter.HandleFunc("/templates/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
	mainRouter.HandleFunc("/templates/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-template")
	mainRouter.HandleFunc("/templates/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-template")
	mainRouter.HandleFunc("/templates/{id}/use", handler.HandleUse).Methods("POST", "OPTIONS").Name("use-template")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	templates, err := handler.service.List(ctx, userID)
	if err != nil {
		writeError(w, err, "list")
		return
	}

	pkg.WriteJSON(w, templates, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	template, err := handler.service.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get")
		return
	}

	pkg.WriteJSON(w, template, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.create")
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

	template, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		writeError(w, err, "create")
		return
	}

	pkg.WriteJSON(w, template, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.update")
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

	template, err := handler.service.Update(ctx, userID, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, "update")
		return
	}

	pkg.WriteJSON(w, template, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.delete")
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

func (handler *Handler) HandleUse(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.use")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := handler.service.Use(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "use")
		return
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func writeError(w http.ResponseWriter, err error, op string) {
	if vErrs, ok := validation.AsErrors(err); ok {
		validation.WriteErrors(w, vErrs)
		return
	}

	if errors.Is(err, ErrTemplateNotFound) {
		pkg.WriteJSONError(w, "template not found", http.StatusNotFound)
		return
	}

	log.Errorf("templates %s: %s", op, err)
	pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
}
