package middleware

import (
	"net/http"
	"strings"
	"time"

	"campdir/internal/access"
	"campdir/internal/db"
	"campdir/internal/models"
	"campdir/internal/utils"
	"campdir/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

var log = logger.New("auth_middleware")

const (
	contextKeyIdentity = "identity"
	contextKeyUser     = "user"
	contextKeyToken    = "token"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Middleware authenticates the bearer token, checks the session is still
// live and loads the caller onto the request context.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			return m.validateJWT(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateJWT(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims, err := utils.ParseJWT(tokenString, m.jwtSecret)
	if err != nil {
		log.Warn("rejected token: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
	}

	// A logout deletes the auth transaction, which invalidates the token
	// before its JWT expiry.
	transaction := &models.AuthTransaction{}
	if err := db.DB.Where("user_id = ? AND token = ?", claims.UserID, tokenString).
		First(transaction).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session not found")
	}
	if transaction.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
	}

	user := &models.User{}
	if err := db.DB.Where("id = ?", claims.UserID).First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	c.Set(contextKeyIdentity, access.Identity{ID: user.ID, Role: access.Role(user.Role)})
	c.Set(contextKeyUser, user)
	c.Set(contextKeyToken, tokenString)

	return next(c)
}

// GetIdentity returns the authenticated caller. The zero Identity means the
// request never went through the auth middleware.
func GetIdentity(c echo.Context) access.Identity {
	if id, ok := c.Get(contextKeyIdentity).(access.Identity); ok {
		return id
	}
	return access.Identity{}
}

// GetUser returns the full user record loaded during authentication.
func GetUser(c echo.Context) *models.User {
	if user, ok := c.Get(contextKeyUser).(*models.User); ok {
		return user
	}
	return nil
}

// GetToken returns the raw bearer token for the current request.
func GetToken(c echo.Context) string {
	if token, ok := c.Get(contextKeyToken).(string); ok {
		return token
	}
	return ""
}
