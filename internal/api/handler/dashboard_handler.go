package handler

import (
	"net/http"

	"hackportal/internal/api/middleware"
	"hackportal/internal/app/service"
	"hackportal/internal/common"
	"hackportal/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	eventService   *service.EventService
	judgingService *service.JudgingService
}

func NewDashboardHandler(es *service.EventService, js *service.JudgingService) *DashboardHandler {
	return &DashboardHandler{eventService: es, judgingService: js}
}

// RegisterRoutes expects an authenticated router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRoles(model.RoleEventManager, model.RoleAdmin)).
		Get("/manager", h.managerDashboard)
	r.With(middleware.RequireRoles(model.RoleLeadOrganizer, model.RoleAdmin)).
		Get("/organizer", h.organizerDashboard)
	r.With(middleware.RequireRoles(model.RoleJudge)).
		Get("/judge", h.judgeDashboard)
}

func (h *DashboardHandler) managerDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	summaries, err := h.eventService.ManagerDashboard(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *DashboardHandler) organizerDashboard(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.eventService.OrganizerDashboard(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *DashboardHandler) judgeDashboard(w http.ResponseWriter, r *http.Request) {
	judgeID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	dashboard, err := h.judgingService.Dashboard(r.Context(), judgeID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, dashboard)
}
