package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"campdir/internal/access"
	"campdir/internal/api/controllers"
	"campdir/internal/api/validator"
	"campdir/internal/config"
	"campdir/internal/handlers"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/services"

	console "campdir/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
	deps   Deps
}

// Deps carries the optional collaborators wired in at boot. Nil members
// disable the feature they back instead of failing startup.
type Deps struct {
	Geocoder    controllers.Geocoder
	Uploader    controllers.PhotoUploader
	ResetMailer handlers.ResetMailer
}

var log = console.New("API-Server")

func NewServer(cfg *config.Config, db *gorm.DB, deps Deps) *Server {
	e := echo.New()

	e.Validator = validator.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	e.Use(middleware.BodyLimit("10M"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	e.HTTPErrorHandler = customHTTPErrorHandler

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
		deps:   deps,
	}

	if err := models.CreateAdminFromEnv(db, cfg); err != nil {
		log.Warn("Warning: Failed to create admin user: %v", err)
	}

	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// customHTTPErrorHandler translates domain errors into the uniform envelope.
// Denials deliberately map to 401 rather than 403, and a missing resource is
// always a plain 404 so callers cannot probe which IDs exist.
func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{}
	)

	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	var deniedErr *access.DeniedError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = formatValidationErrors(validationErrs)
	case errors.As(err, &deniedErr):
		if deniedErr.Reason == access.ReasonQuotaExceeded {
			code = http.StatusBadRequest
			message = "Quota exceeded: only one bootcamp per publisher"
		} else {
			code = http.StatusUnauthorized
			message = "Not authorized to access this route"
		}
	case errors.Is(err, query.ErrInvalidQuery):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrAlreadyReviewed):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = http.StatusNotFound
		message = "Resource not found"
	default:
		message = http.StatusText(code)
	}

	if !c.Response().Committed {
		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, controllers.Envelope{
				Success: false,
				Error:   fmt.Sprintf("%v", message),
			})
		}
		if writeErr != nil {
			c.Echo().Logger.Error(writeErr)
		}
	}
}

// formatValidationErrors formats validation errors into one line per field
func formatValidationErrors(errs validator.ValidationErrors) string {
	var msg string
	for i, err := range errs {
		if i > 0 {
			msg += "; "
		}
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			msg += fmt.Sprintf("%s is required", field)
		case "email":
			msg += fmt.Sprintf("%s must be a valid email", field)
		case "min":
			msg += fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			msg += fmt.Sprintf("%s must be at most %s", field, param)
		case "url":
			msg += fmt.Sprintf("%s must be a valid URL", field)
		case "oneof":
			msg += fmt.Sprintf("%s must be one of [%s]", field, param)
		case "user_role":
			msg += fmt.Sprintf("%s must be one of 'user', 'publisher' or 'admin'", field)
		case "minimum_skill":
			msg += fmt.Sprintf("%s must be one of 'beginner', 'intermediate' or 'advanced'", field)
		default:
			msg += fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return msg
}
