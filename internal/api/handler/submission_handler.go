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

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	judgingService    *service.JudgingService
}

func NewSubmissionHandler(ss *service.SubmissionService, js *service.JudgingService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, judgingService: js}
}

// RegisterTeamRoutes mounts the leader-facing submission routes under
// /teams/{teamID}/submission. Caller applies authentication.
func (h *SubmissionHandler) RegisterTeamRoutes(r chi.Router) {
	r.Put("/", h.submit)
	r.Get("/", h.getSubmission)
}

// RegisterQueueRoutes mounts the judge work queue.
func (h *SubmissionHandler) RegisterQueueRoutes(r chi.Router) {
	r.Use(middleware.RequireRoles(model.RoleJudge))
	r.Get("/queue", h.queue)
}

// RegisterJudgingRoutes mounts the judge-facing routes.
func (h *SubmissionHandler) RegisterJudgingRoutes(r chi.Router) {
	r.Group(func(judge chi.Router) {
		judge.Use(middleware.RequireRoles(model.RoleJudge))
		judge.Post("/{submissionID}/scores", h.score)
	})

	r.Group(func(organizer chi.Router) {
		organizer.Use(middleware.RequireRoles(model.RoleLeadOrganizer, model.RoleEventManager, model.RoleAdmin))
		organizer.Get("/{submissionID}/scores", h.listScores)
	})
}

func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	sub, err := h.submissionService.Submit(r.Context(), userID, chi.URLParam(r, "teamID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	sub, err := h.submissionService.GetTeamSubmission(r.Context(), userID, chi.URLParam(r, "teamID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) queue(w http.ResponseWriter, r *http.Request) {
	judgeID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	subs, err := h.judgingService.JudgingQueue(r.Context(), judgeID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) score(w http.ResponseWriter, r *http.Request) {
	judgeID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	score, err := h.judgingService.ScoreSubmission(r.Context(), judgeID, chi.URLParam(r, "submissionID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, score)
}

func (h *SubmissionHandler) listScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.judgingService.ScoresForSubmission(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scores)
}
