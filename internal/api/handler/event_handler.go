package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hackportal/internal/api/middleware"
	"hackportal/internal/app/service"
	"hackportal/internal/common"
	"hackportal/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	eventService        *service.EventService
	announcementService *service.AnnouncementService
	auth                *middleware.Auth
}

func NewEventHandler(es *service.EventService, as *service.AnnouncementService, auth *middleware.Auth) *EventHandler {
	return &EventHandler{eventService: es, announcementService: as, auth: auth}
}

func (h *EventHandler) RegisterRoutes(r chi.Router) {
	// Public listing and detail. Identity is optional: a creator may view
	// their own draft, everyone else sees published events only.
	r.Group(func(public chi.Router) {
		public.Use(h.auth.OptionalAuthenticator)
		public.Get("/", h.listEvents)          // GET /api/v1/events
		public.Get("/{eventSlug}", h.getEvent) // GET /api/v1/events/hack-the-campus
	})

	r.Group(func(managed chi.Router) {
		managed.Use(h.auth.Authenticator)
		managed.Use(middleware.RequireRoles(model.RoleEventManager, model.RoleAdmin))
		managed.Post("/", h.createEvent)
		managed.Put("/{eventID}", h.updateEvent)
	})

	r.Group(func(broadcast chi.Router) {
		broadcast.Use(h.auth.Authenticator)
		broadcast.Use(middleware.RequireRoles(model.RoleEventManager, model.RoleLeadOrganizer, model.RoleAdmin))
		broadcast.Post("/{eventID}/announcements", h.announce)
		broadcast.Get("/{eventID}/announcements", h.listAnnouncements)
	})
}

func (h *EventHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	events, err := h.eventService.ListPublishedEvents(r.Context(), limit, offset)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) getEvent(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserIDFromContext(r.Context())
	callerRole, _ := middleware.GetUserRoleFromContext(r.Context())

	event, err := h.eventService.GetEventBySlug(r.Context(), callerID, callerRole, chi.URLParam(r, "eventSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	event, err := h.eventService.CreateEvent(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) updateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	event, err := h.eventService.UpdateEvent(r.Context(), userID, role, chi.URLParam(r, "eventID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) announce(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.AnnounceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	announcement, err := h.announcementService.Announce(r.Context(), userID, role, chi.URLParam(r, "eventID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, announcement)
}

func (h *EventHandler) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcementService.ListForEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, announcements)
}
