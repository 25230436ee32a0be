package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/teamly/project-management-api/internal/auth"
	"github.com/teamly/project-management-api/internal/config"
	"github.com/teamly/project-management-api/internal/database"
	"github.com/teamly/project-management-api/internal/handlers"
	"github.com/teamly/project-management-api/internal/mailer"
	"github.com/teamly/project-management-api/internal/middleware"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/realtime"
	"github.com/teamly/project-management-api/internal/repository"
	"github.com/teamly/project-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// Authorization engine
	checker := permissions.NewChecker(repository.NewMembershipStore(db))

	// Infrastructure
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	hub := realtime.NewHub(cfg.AllowedWSOrigins)
	smtpMailer := mailer.NewSMTPMailer(cfg)

	// Services
	notificationService := services.NewNotificationService(notifRepo, userRepo, hub)
	authService := services.NewAuthService(userRepo, tokens)
	orgService := services.NewOrganizationService(orgRepo, checker)
	membershipService := services.NewMembershipService(orgRepo, userRepo, checker, notificationService, smtpMailer, cfg.FrontendURL)
	projectService := services.NewProjectService(projectRepo, orgRepo, userRepo, checker)
	taskService := services.NewTaskService(taskRepo, projectRepo, checker, notificationService)
	commentService := services.NewCommentService(commentRepo, taskRepo, userRepo, checker, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	orgMemberHandler := handlers.NewOrganizationMemberHandler(membershipService)
	inviteHandler := handlers.NewInviteHandler(membershipService)
	projectHandler := handlers.NewProjectHandler(projectService)
	projectMemberHandler := handlers.NewProjectMemberHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWSHandler(hub, tokens)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(requireAuth)
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.PATCH("/:id", orgHandler.UpdateOrganization)
			orgs.DELETE("/:id", orgHandler.DeleteOrganization)

			orgs.GET("/:id/members", orgMemberHandler.ListMembers)
			orgs.POST("/:id/members", orgMemberHandler.CreateMemberNotAllowed)
			orgs.GET("/:id/members/:userId", orgMemberHandler.GetMember)
			orgs.PATCH("/:id/members/:userId", orgMemberHandler.UpdateMemberRole)
			orgs.DELETE("/:id/members/:userId", orgMemberHandler.RemoveMember)

			orgs.POST("/:id/invites", inviteHandler.CreateInvite)
		}

		// Invite acceptance (protected, token in body)
		api.POST("/invites/accept", requireAuth, inviteHandler.AcceptInvite)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)

			projects.GET("/:id/members", projectMemberHandler.ListMembers)
			projects.POST("/:id/members", projectMemberHandler.CreateMemberNotAllowed)
			projects.POST("/:id/assign-member", projectMemberHandler.AssignMember)
			projects.DELETE("/:id/members/:userId", projectMemberHandler.RemoveMember)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.POST("", commentHandler.CreateComment)
			comments.GET("", commentHandler.ListComments)
			comments.GET("/:id", commentHandler.GetComment)
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		// Live notification channel (token via query parameter)
		api.GET("/ws/notifications", wsHandler.Serve)
	}

	// Start server
	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
