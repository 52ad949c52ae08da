package routes

import (
	"campdir/internal/api/middleware"
	"campdir/internal/config"
	"campdir/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, mailer handlers.ResetMailer) {
	authHandler := handlers.NewAuthHandler(db, cfg, mailer)

	auth := e.Group("/api/v1/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgotpassword", authHandler.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", authHandler.ResetPassword)

	// Protected auth routes (require authentication)
	protected := auth.Group("")
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	protected.Use(authMiddleware.Middleware())

	protected.GET("/me", authHandler.GetMe)
	protected.GET("/logout", authHandler.Logout)
	protected.PUT("/updatedetails", authHandler.UpdateDetails)
	protected.PUT("/updatepassword", authHandler.UpdatePassword)
}
