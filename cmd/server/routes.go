package main

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/handlers"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices, cfg *config.Config) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.Use(middleware.CORS())

	// Login endpoints are rate limited to slow down credential guessing;
	// CSV import gets its own tighter limiter since each request parses a
	// whole file.
	loginLimiter := middleware.NewRateLimiter(5, 10)
	importLimiter := middleware.NewRateLimiter(1, 3)

	db := models.GetDB()
	healthHandler := handlers.NewHealthHandler()
	announcementHandler := handlers.NewAnnouncementHandler(db)
	documentHandler := handlers.NewDocumentHandler(db, cfg)
	configHandler := handlers.NewSystemConfigHandler(db)
	studentHandler := handlers.NewStudentHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	formSettingHandler := handlers.NewFormSettingHandler(db)
	feeHandler := handlers.NewFeeHandler(db)
	systemLogHandler := handlers.NewSystemLogHandler(db)

	r.GET("/health", healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), svc.authHandler.AdminLogin)
			auth.POST("/student-login", loginLimiter.Middleware(), svc.authHandler.StudentLogin)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}
		api.GET("/announcements", announcementHandler.ListPublished)
		api.GET("/documents", documentHandler.List)
		api.GET("/documents/:id/download", documentHandler.Download)
		api.GET("/enrollment-window", configHandler.GetEnrollmentWindow)

		// Routes for any authenticated subject
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)
		}

		// Student portal routes
		my := api.Group("/my")
		my.Use(middleware.AuthRequired(), middleware.StudentRequired())
		{
			my.GET("/result", studentHandler.MyResult)
			my.GET("/fees", feeHandler.MyFees)
			my.GET("/form-settings", formSettingHandler.Schema)
			my.GET("/profile", profileHandler.MyProfile)
			my.POST("/profile", profileHandler.SaveMyProfile)
			my.PUT("/profile", profileHandler.SaveMyProfile)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Students
			admin.GET("/students", studentHandler.List)
			admin.GET("/students/:id", studentHandler.GetByID)
			admin.POST("/students", studentHandler.Create)
			admin.PUT("/students/:id", studentHandler.Update)
			admin.DELETE("/students/:id", studentHandler.Delete)
			admin.POST("/students/:id/reset-password", studentHandler.ResetPassword)
			admin.POST("/students/publish-results", studentHandler.PublishResults)
			admin.POST("/students/import", importLimiter.Middleware(), studentHandler.Import)

			// Profiles
			admin.GET("/profiles", profileHandler.List)
			admin.GET("/students/:id/profile", profileHandler.GetByStudent)
			admin.PUT("/students/:id/profile", profileHandler.SaveByStudent)
			admin.DELETE("/students/:id/profile", profileHandler.DeleteByStudent)

			// Form builder
			admin.GET("/form-settings", formSettingHandler.List)
			admin.POST("/form-settings", formSettingHandler.Create)
			admin.PUT("/form-settings/:key", formSettingHandler.Update)
			admin.DELETE("/form-settings/:key", formSettingHandler.Delete)

			// Announcements
			admin.GET("/announcements", announcementHandler.List)
			admin.GET("/announcements/:id", announcementHandler.GetByID)
			admin.POST("/announcements", announcementHandler.Create)
			admin.PUT("/announcements/:id", announcementHandler.Update)
			admin.DELETE("/announcements/:id", announcementHandler.Delete)

			// Documents
			admin.POST("/documents", documentHandler.Upload)
			admin.DELETE("/documents/:id", documentHandler.Delete)

			// Fees
			admin.GET("/fees", feeHandler.ListItems)
			admin.POST("/fees", feeHandler.CreateItem)
			admin.PUT("/fees/:id", feeHandler.UpdateItem)
			admin.DELETE("/fees/:id", feeHandler.DeleteItem)
			admin.GET("/fee-exemptions", feeHandler.ListExemptions)
			admin.POST("/fee-exemptions", feeHandler.CreateExemption)
			admin.DELETE("/fee-exemptions/:id", feeHandler.DeleteExemption)

			// System configuration
			admin.PUT("/enrollment-window", configHandler.UpdateEnrollmentWindow)
			admin.GET("/configs", configHandler.ListByGroup)
			admin.PUT("/configs", configHandler.Set)

			// Audit logs
			admin.GET("/logs", systemLogHandler.List)
			admin.GET("/logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/logs/retention", systemLogHandler.SetRetention)
			admin.POST("/logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
