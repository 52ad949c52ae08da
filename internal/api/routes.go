package api

import (
	"campdir/internal/api/registry"
	"campdir/internal/routes"

	_ "campdir/docs/swagger"

	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	routes.SetupAuthRoutes(s.echo, s.db, s.config, s.deps.ResetMailer)

	api := s.echo.Group("/api/v1")
	registry.RegisterResourceRoutes(api, s.db, s.config, registry.Deps{
		Geocoder: s.deps.Geocoder,
		Uploader: s.deps.Uploader,
	})
}
