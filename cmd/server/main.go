package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hackportal/internal/api"
	"hackportal/internal/api/middleware"
	"hackportal/internal/app/service"
	"hackportal/internal/app/worker"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/repository"
	"hackportal/internal/platform/config"
	"hackportal/internal/platform/database"
	"hackportal/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	eventRepo := repository.NewPgEventRepository(database.DB)
	teamRepo := repository.NewPgTeamRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	notificationRepo := repository.NewPgNotificationRepository(database.DB)
	inviteRepo := repository.NewPgInviteRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, inviteRepo, database.DB)
	profileService := service.NewProfileService(userRepo)
	eventService := service.NewEventService(eventRepo, teamRepo, database.DB)
	teamService := service.NewTeamService(teamRepo, eventRepo, database.DB)
	submissionService := service.NewSubmissionService(submissionRepo, teamRepo)
	judgingService := service.NewJudgingService(submissionRepo)
	announcementService := service.NewAnnouncementService(notificationRepo, eventRepo, inviteRepo, queue.RDB)

	// 7. Initialize Notification Fan-out Worker (as a goroutine)
	notificationWorker := worker.NewNotificationWorker(queue.RDB, notificationRepo, teamRepo, eventRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)
	fmt.Println("Notification worker started.")

	// 8. Initialize Router & HTTP Server
	auth := middleware.NewAuth(userRepo)
	router := api.NewRouter(
		auth,
		authService,
		profileService,
		eventService,
		teamService,
		submissionService,
		judgingService,
		announcementService,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
