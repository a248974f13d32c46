package handler

import (
	"encoding/json"
	"net/http"

	"hackportal/internal/api/middleware"
	"hackportal/internal/app/service"
	"hackportal/internal/common"
	"hackportal/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	announcementService *service.AnnouncementService
}

func NewNotificationHandler(as *service.AnnouncementService) *NotificationHandler {
	return &NotificationHandler{announcementService: as}
}

// RegisterRoutes expects an authenticated router. Reading the inbox and
// marking it read are separate operations: GET never mutates.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/read", h.markRead)
}

// RegisterInviteRoutes mounts staff-invite management.
func (h *NotificationHandler) RegisterInviteRoutes(r chi.Router) {
	r.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleLeadOrganizer))
	r.Post("/", h.createInvite)
	r.Get("/", h.listInvites)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	notifications, err := h.announcementService.ListNotifications(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	updated, err := h.announcementService.MarkNotificationsRead(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"marked_read": updated})
}

func (h *NotificationHandler) createInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	invite, err := h.announcementService.CreateInvite(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, invite)
}

func (h *NotificationHandler) listInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	invites, err := h.announcementService.ListInvites(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, invites)
}
