package handler

import (
	"encoding/json"
	"net/http"

	"hackportal/internal/api/middleware"
	"hackportal/internal/app/service"
	"hackportal/internal/common"

	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(ts *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// RegisterRoutes expects the caller to have applied the Authenticator and
// the Participant role gate already.
func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.createTeam)
	r.Post("/join", h.joinTeam)
	r.Get("/mine", h.myTeam)
}

func (h *TeamHandler) createTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	team, err := h.teamService.CreateTeam(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) joinTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.JoinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	team, err := h.teamService.JoinTeam(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) myTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "event query parameter is required")
		return
	}
	team, err := h.teamService.MyTeam(r.Context(), userID, eventID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, team)
}
