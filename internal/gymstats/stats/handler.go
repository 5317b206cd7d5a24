package stats

import (
	"net/http"
	"strconv"

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
	mainRouter.HandleFunc("/stats/volume", handler.HandleVolume).Methods("GET", "OPTIONS").Name("stats-volume")
	mainRouter.HandleFunc("/stats/pr", handler.HandlePersonalRecords).Methods("GET", "OPTIONS").Name("stats-pr")
}

func (handler *Handler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.volume")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	weeks := 0
	if weeksParam := r.URL.Query().Get("weeks"); weeksParam != "" {
		var err error
		weeks, err = strconv.Atoi(weeksParam)
		if err != nil || weeks == 0 {
			validation.WriteErrors(w, validation.New("weeks", "must be a positive integer"))
			return
		}
	}

	volume, err := handler.service.Volume(ctx, userID, weeks)
	if err != nil {
		writeError(w, err, "volume")
		return
	}

	pkg.WriteJSON(w, volume, http.StatusOK)
}

func (handler *Handler) HandlePersonalRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.pr")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := handler.service.PersonalRecords(ctx, userID)
	if err != nil {
		writeError(w, err, "personal records")
		return
	}

	pkg.WriteJSON(w, records, http.StatusOK)
}

func writeError(w http.ResponseWriter, err error, op string) {
	if vErrs, ok := validation.AsErrors(err); ok {
		validation.WriteErrors(w, vErrs)
		return
	}

	log.Errorf("stats %s: %s", op, err)
	pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
}
