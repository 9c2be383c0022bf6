package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brightsteps/internal/config"
	"brightsteps/internal/database"
	"brightsteps/internal/handlers"
	"brightsteps/internal/models"
	"brightsteps/internal/realtime"
	"brightsteps/internal/repository"
	"brightsteps/internal/security"
	"brightsteps/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.StudentTokenSecret == "" {
		log.Fatal("STUDENT_TOKEN_SECRET must be set")
	}

	// Initialize database (sqlite, postgres or mysql)
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	// Run migrations
	if err := db.RunMigrations(startupCtx, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the category, difficulty and badge catalogs
	if err := db.SeedCatalogs(startupCtx); err != nil {
		log.Printf("Warning: Failed to seed catalogs: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	expressionRepo := repository.NewExpressionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	parentRepo := repository.NewParentRepository(db)

	// Realtime insert feed
	hub := realtime.NewHub()
	hub.Start()
	defer hub.Stop()

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	authService := service.NewAuthService(userRepo, emailService,
		cfg.SessionDuration, cfg.StudentTokenSecret, cfg.StudentTokenDuration,
		db.Dialect.IsForeignKeyViolation)
	activityService := service.NewActivityService(activityRepo, questionRepo, progressRepo, hub)
	statsService := service.NewStatsService(progressRepo, activityRepo)
	breakdownService := service.NewBreakdownService(activityRepo, progressRepo)
	checkinService := service.NewCheckinService(expressionRepo, notificationRepo, userRepo, emailService, hub)
	badgeService := service.NewBadgeService(badgeRepo, userRepo)
	parentService := service.NewParentService(parentRepo, statsService, expressionRepo)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter, cfg.RequestTimeout)
	authHandler := handlers.NewAuthHandler(authService, userRepo, oauthProviders, cfg.OAuthRedirectBaseURL)
	activityHandler := handlers.NewActivityHandler(activityService)
	progressHandler := handlers.NewProgressHandler(activityService, statsService, breakdownService, badgeService)
	checkinHandler := handlers.NewCheckinHandler(checkinService)
	parentHandler := handlers.NewParentHandler(parentService, checkinService, statsService, breakdownService, userRepo)
	adminHandler := handlers.NewAdminHandler(authService, statsService, breakdownService, badgeService, userRepo, activityRepo)
	feedHandler := handlers.NewFeedHandler(hub)

	// Setup routes
	mux := http.NewServeMux()

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/student-login", middleware.RateLimit(authHandler.StudentLogin))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.RateLimit(authHandler.ConfirmPasswordReset))
	mux.HandleFunc("GET /api/auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /api/auth/{provider}/callback", authHandler.OAuthCallback)

	// Signed-in account routes
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("PUT /api/auth/me/profile", middleware.RequireAuth(authHandler.UpdateProfile))

	// Catalog routes
	mux.HandleFunc("GET /api/activities", middleware.RequireAuth(activityHandler.List))
	mux.HandleFunc("GET /api/activities/{id}", middleware.RequireAuth(activityHandler.Get))
	mux.HandleFunc("GET /api/categories", middleware.RequireAuth(activityHandler.Categories))
	mux.HandleFunc("GET /api/difficulties", middleware.RequireAuth(activityHandler.Difficulties))

	// Activity authoring (admin)
	mux.HandleFunc("POST /api/activities", middleware.RequireRole(activityHandler.Create, models.RoleAdmin))
	mux.HandleFunc("PUT /api/activities/{id}", middleware.RequireRole(activityHandler.Update, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/activities/{id}", middleware.RequireRole(activityHandler.Delete, models.RoleAdmin))
	mux.HandleFunc("POST /api/activities/{id}/questions", middleware.RequireRole(activityHandler.AddQuestion, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/questions/{id}", middleware.RequireRole(activityHandler.DeleteQuestion, models.RoleAdmin))

	// Student progress and dashboard routes
	mux.HandleFunc("POST /api/progress", middleware.RequireRole(progressHandler.Record, models.RoleStudent))
	mux.HandleFunc("GET /api/progress", middleware.RequireRole(progressHandler.History, models.RoleStudent))
	mux.HandleFunc("GET /api/progress/attempts", middleware.RequireRole(progressHandler.Attempts, models.RoleStudent))
	mux.HandleFunc("GET /api/stats", middleware.RequireRole(progressHandler.Stats, models.RoleStudent))
	mux.HandleFunc("GET /api/stats/breakdown", middleware.RequireRole(progressHandler.Breakdown, models.RoleStudent))
	mux.HandleFunc("GET /api/badges", middleware.RequireRole(progressHandler.Badges, models.RoleStudent))

	// Emotional check-ins
	mux.HandleFunc("POST /api/checkins", middleware.RateLimit(middleware.RequireRole(checkinHandler.Create, models.RoleStudent)))
	mux.HandleFunc("GET /api/checkins", middleware.RequireRole(checkinHandler.History, models.RoleStudent))

	// Notifications (parents and admins)
	mux.HandleFunc("GET /api/notifications", middleware.RequireRole(checkinHandler.Notifications, models.RoleParent, models.RoleAdmin))
	mux.HandleFunc("GET /api/notifications/unread-count", middleware.RequireRole(checkinHandler.UnreadCount, models.RoleParent, models.RoleAdmin))
	mux.HandleFunc("POST /api/notifications/{id}/read", middleware.RequireRole(checkinHandler.MarkRead, models.RoleParent, models.RoleAdmin))
	mux.HandleFunc("POST /api/notifications/read-all", middleware.RequireRole(checkinHandler.MarkAllRead, models.RoleParent, models.RoleAdmin))

	// Parent monitoring routes
	mux.HandleFunc("GET /api/parent/children", middleware.RequireRole(parentHandler.Children, models.RoleParent))
	mux.HandleFunc("POST /api/parent/children", middleware.RequireRole(parentHandler.LinkChild, models.RoleParent))
	mux.HandleFunc("DELETE /api/parent/children/{id}", middleware.RequireRole(parentHandler.UnlinkChild, models.RoleParent))
	mux.HandleFunc("GET /api/parent/children/{id}/stats", middleware.RequireRole(parentHandler.ChildStats, models.RoleParent))
	mux.HandleFunc("GET /api/parent/children/{id}/breakdown", middleware.RequireRole(parentHandler.ChildBreakdown, models.RoleParent))
	mux.HandleFunc("GET /api/parent/children/{id}/checkins", middleware.RequireRole(parentHandler.ChildCheckins, models.RoleParent))

	// Admin routes
	mux.HandleFunc("GET /api/admin/dashboard", middleware.RequireRole(adminHandler.Dashboard, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/alerts", middleware.RequireRole(checkinHandler.Alerts, models.RoleAdmin))
	mux.HandleFunc("POST /api/admin/students", middleware.RequireRole(adminHandler.CreateStudent, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/students", middleware.RequireRole(adminHandler.ListStudents, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/students/{id}/stats", middleware.RequireRole(adminHandler.StudentStats, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/students/{id}/breakdown", middleware.RequireRole(adminHandler.StudentBreakdown, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/students/{id}/badges", middleware.RequireRole(adminHandler.StudentBadges, models.RoleAdmin))
	mux.HandleFunc("POST /api/admin/students/{id}/badges", middleware.RequireRole(adminHandler.AwardBadge, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/badges", middleware.RequireRole(adminHandler.BadgeSummary, models.RoleAdmin))
	mux.HandleFunc("POST /api/admin/admins", middleware.RequireRole(adminHandler.CreateAdmin, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/admin/users/{id}", middleware.RequireRole(adminHandler.DeleteUser, models.RoleAdmin))

	// Realtime insert feed (admins and parents)
	mux.HandleFunc("GET /api/feed", middleware.RequireRole(feedHandler.Subscribe, models.RoleParent, models.RoleAdmin))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions.
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		removed, err := authService.CleanupExpiredSessions(ctx)
		cancel()
		if err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}
