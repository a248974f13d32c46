package api

import (
	"net/http"
	"time"

	"hackportal/internal/api/handler"
	"hackportal/internal/api/middleware"
	"hackportal/internal/app/service"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/model"
	"hackportal/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	auth *middleware.Auth,
	authService *service.AuthService,
	profileService *service.ProfileService,
	eventService *service.EventService,
	teamService *service.TeamService,
	submissionService *service.SubmissionService,
	judgingService *service.JudgingService,
	announcementService *service.AnnouncementService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)

	// Verifies a bearer token when present and puts claims in context.
	// Enforcement happens in middleware.Auth per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Ops surface
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public, rate limited)
		authLimiter := middleware.NewTokenBucket(
			config.AppConfig.AuthRateLimitBurst,
			config.AppConfig.AuthRateLimitPerMinute,
		)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", func(authRouter chi.Router) {
			authRouter.Use(authLimiter.Handler)
			authHandler.RegisterRoutes(authRouter)
		})

		// Event catalog (public reads, role-gated writes)
		eventHandler := handler.NewEventHandler(eventService, announcementService, auth)
		v1.Route("/events", eventHandler.RegisterRoutes)

		// Profile (authenticated, self only)
		profileHandler := handler.NewProfileHandler(profileService)
		v1.Route("/profile", func(profileRouter chi.Router) {
			profileRouter.Use(auth.Authenticator)
			profileHandler.RegisterRoutes(profileRouter)
		})

		// Team formation (participants only)
		teamHandler := handler.NewTeamHandler(teamService)
		submissionHandler := handler.NewSubmissionHandler(submissionService, judgingService)
		v1.Route("/teams", func(teamRouter chi.Router) {
			teamRouter.Use(auth.Authenticator)
			teamRouter.Group(func(participant chi.Router) {
				participant.Use(middleware.RequireRoles(model.RoleParticipant))
				teamHandler.RegisterRoutes(participant)
			})
			teamRouter.Route("/{teamID}/submission", func(subRouter chi.Router) {
				subRouter.Use(middleware.RequireRoles(model.RoleParticipant))
				submissionHandler.RegisterTeamRoutes(subRouter)
			})
		})

		// Judging
		v1.Route("/submissions", func(subRouter chi.Router) {
			subRouter.Use(auth.Authenticator)
			submissionHandler.RegisterJudgingRoutes(subRouter)
		})
		v1.Route("/judging", func(judgingRouter chi.Router) {
			judgingRouter.Use(auth.Authenticator)
			submissionHandler.RegisterQueueRoutes(judgingRouter)
		})

		// Notifications (authenticated)
		notificationHandler := handler.NewNotificationHandler(announcementService)
		v1.Route("/notifications", func(notifRouter chi.Router) {
			notifRouter.Use(auth.Authenticator)
			notificationHandler.RegisterRoutes(notifRouter)
		})

		// Staff invites (admin / lead organizer)
		v1.Route("/invites", func(inviteRouter chi.Router) {
			inviteRouter.Use(auth.Authenticator)
			notificationHandler.RegisterInviteRoutes(inviteRouter)
		})

		// Dashboards
		dashboardHandler := handler.NewDashboardHandler(eventService, judgingService)
		v1.Route("/dashboard", func(dashRouter chi.Router) {
			dashRouter.Use(auth.Authenticator)
			dashboardHandler.RegisterRoutes(dashRouter)
		})
	})

	return r
}
