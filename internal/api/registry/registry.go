package registry

import (
	"github.com/labstack/echo/v4"

	"campdir/internal/access"
	"campdir/internal/api/controllers"
	"campdir/internal/api/middleware"
	"campdir/internal/config"
	"campdir/internal/services"

	"gorm.io/gorm"
)

// Deps carries the optional collaborators the resource routes need.
type Deps struct {
	Geocoder controllers.Geocoder
	Uploader controllers.PhotoUploader
}

// RegisterResourceRoutes wires the resource controllers onto /api/v1.
// Reads are public; writes go through authentication plus a role gate, and
// ownership is enforced inside the controllers.
func RegisterResourceRoutes(g *echo.Group, db *gorm.DB, cfg *config.Config, deps Deps) {
	auth := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	authed := auth.Middleware()
	publishers := middleware.Authorize(access.RolePublisher, access.RoleAdmin)
	reviewers := middleware.Authorize(access.RoleUser, access.RoleAdmin)
	admins := middleware.Authorize(access.RoleAdmin)

	// Bootcamps
	bootcampController := controllers.NewBootcampController(
		services.NewBootcampService(db), deps.Geocoder, deps.Uploader, cfg.Upload.MaxFileSize)
	bootcamps := g.Group("/bootcamps")

	bootcamps.GET("", bootcampController.List)
	bootcamps.GET("/:id", bootcampController.Get)
	bootcamps.GET("/radius/:zipcode/:distance", bootcampController.Radius)
	bootcamps.POST("", bootcampController.Create, authed, publishers)
	bootcamps.PUT("/:id", bootcampController.Update, authed, publishers)
	bootcamps.DELETE("/:id", bootcampController.Delete, authed, publishers)
	bootcamps.PUT("/:id/photo", bootcampController.UploadPhoto, authed, publishers)

	// Courses
	courseController := controllers.NewCourseController(services.NewCourseService(db))
	courses := g.Group("/courses")

	courses.GET("", courseController.List)
	courses.GET("/:id", courseController.Get)
	courses.PUT("/:id", courseController.Update, authed, publishers)
	courses.DELETE("/:id", courseController.Delete, authed, publishers)

	bootcamps.GET("/:bootcampId/courses", courseController.List)
	bootcamps.POST("/:bootcampId/courses", courseController.Create, authed, publishers)

	// Reviews
	reviewController := controllers.NewReviewController(services.NewReviewService(db))
	reviews := g.Group("/reviews")

	reviews.GET("", reviewController.List)
	reviews.GET("/:id", reviewController.Get)
	reviews.PUT("/:id", reviewController.Update, authed, reviewers)
	reviews.DELETE("/:id", reviewController.Delete, authed, reviewers)

	bootcamps.GET("/:bootcampId/reviews", reviewController.List)
	bootcamps.POST("/:bootcampId/reviews", reviewController.Create, authed, reviewers)

	// Users (admin only)
	userController := controllers.NewUserController(services.NewUserService(db))
	users := g.Group("/users", authed, admins)

	users.GET("", userController.List)
	users.GET("/:id", userController.Get)
	users.POST("", userController.Create)
	users.PUT("/:id", userController.Update)
	users.DELETE("/:id", userController.Delete)
}
