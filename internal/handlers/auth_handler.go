package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"campdir/internal/api/controllers"
	"campdir/internal/api/middleware"
	"campdir/internal/api/validator"
	"campdir/internal/config"
	"campdir/internal/models"
	"campdir/internal/utils"
	"campdir/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 10 * time.Minute

// ResetMailer queues the password reset email. Nil disables the forgot
// password flow.
type ResetMailer interface {
	EnqueueResetPasswordEmail(email, resetURL string) error
}

type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer ResetMailer
	log    *logger.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, mailer ResetMailer) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, mailer: mailer, log: logger.New("AuthHandler")}
}

// issueToken signs a JWT and records the session so logout can revoke it.
func (h *AuthHandler) issueToken(c echo.Context, user *models.User) (string, error) {
	ttl := time.Duration(h.cfg.JWT.ExpireHours) * time.Hour
	token, err := utils.GenerateJWT(*user, ttl, h.cfg.JWT.Secret)
	if err != nil {
		return "", err
	}

	transaction := &models.AuthTransaction{
		UserID:    user.ID,
		Token:     token,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := h.db.Create(transaction).Error; err != nil {
		return "", err
	}
	return token, nil
}

// Register creates an account and logs it in.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RegisterRequest true "Registration details"
// @Success 201 {object} controllers.Envelope
// @Failure 400 {object} controllers.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req validator.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	role := models.UserRoleUser
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := h.db.Create(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}

	token, err := h.issueToken(c, user)
	if err != nil {
		return err
	}
	return controllers.OK(c, http.StatusCreated, map[string]string{"token": token})
}

// Login authenticates credentials and returns a bearer token.
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.LoginRequest true "Login credentials"
// @Success 200 {object} controllers.Envelope
// @Failure 401 {object} controllers.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.issueToken(c, &user)
	if err != nil {
		return err
	}
	return controllers.OK(c, http.StatusOK, map[string]string{"token": token})
}

// Logout revokes the current session token.
// @Summary Logout current session
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} controllers.Envelope
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.GetToken(c)
	if err := h.db.Delete(&models.AuthTransaction{}, "token = ?", token).Error; err != nil {
		h.log.Warn("failed to revoke session: %v", err)
	}
	return controllers.OK(c, http.StatusOK, map[string]interface{}{})
}

// GetMe returns the authenticated user.
// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} controllers.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	return controllers.OK(c, http.StatusOK, middleware.GetUser(c))
}

// UpdateDetails changes the caller's name and email.
// @Summary Update current user details
// @Tags auth
// @Security BearerAuth
// @Param request body validator.UpdateDetailsRequest true "New details"
// @Success 200 {object} controllers.Envelope
// @Router /auth/updatedetails [put]
func (h *AuthHandler) UpdateDetails(c echo.Context) error {
	var req validator.UpdateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.GetUser(c)
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			return err
		}
	}
	return controllers.OK(c, http.StatusOK, user)
}

// UpdatePassword verifies the current password, sets a new one and rotates
// the session token.
// @Summary Update current user password
// @Tags auth
// @Security BearerAuth
// @Param request body validator.UpdatePasswordRequest true "Passwords"
// @Success 200 {object} controllers.Envelope
// @Failure 401 {object} controllers.Envelope
// @Router /auth/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req validator.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.GetUser(c)
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return err
	}

	// Old sessions die with the old password.
	if err := h.db.Delete(&models.AuthTransaction{}, "user_id = ?", user.ID).Error; err != nil {
		h.log.Warn("failed to revoke sessions for user %s: %v", user.ID, err)
	}

	token, err := h.issueToken(c, user)
	if err != nil {
		return err
	}
	return controllers.OK(c, http.StatusOK, map[string]string{"token": token})
}

// ForgotPassword stores a hashed reset token and mails the raw one.
// @Summary Request a password reset
// @Tags auth
// @Param request body validator.ForgotPasswordRequest true "Account email"
// @Success 200 {object} controllers.Envelope
// @Failure 404 {object} controllers.Envelope
// @Router /auth/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req validator.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := models.GetUserByEmail(req.Email, h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "There is no user with that email")
	}

	rawToken, err := utils.GenerateRandomString(20)
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetTokenTTL)
	updates := map[string]interface{}{
		"reset_password_token":   utils.HashToken(rawToken),
		"reset_password_expires": expires,
	}
	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		return err
	}

	if h.mailer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Email could not be sent")
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetpassword/%s", h.cfg.Server.PublicURL, rawToken)
	if err := h.mailer.EnqueueResetPasswordEmail(user.Email, resetURL); err != nil {
		// Roll the token back so a stale one cannot linger unmailed.
		h.db.Model(user).Updates(map[string]interface{}{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
		return echo.NewHTTPError(http.StatusInternalServerError, "Email could not be sent")
	}

	return controllers.OK(c, http.StatusOK, "Email sent")
}

// ResetPassword consumes a reset token and sets the new password.
// @Summary Reset password with a token
// @Tags auth
// @Param resettoken path string true "Reset token"
// @Param request body validator.ResetPasswordRequest true "New password"
// @Success 200 {object} controllers.Envelope
// @Failure 400 {object} controllers.Envelope
// @Router /auth/resetpassword/{resettoken} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req validator.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedToken := utils.HashToken(c.Param("resettoken"))

	var user models.User
	err := h.db.Where("reset_password_token = ? AND reset_password_expires > ?",
		hashedToken, time.Now()).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid token")
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"password":               string(hashed),
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	token, err := h.issueToken(c, &user)
	if err != nil {
		return err
	}
	return controllers.OK(c, http.StatusOK, map[string]string{"token": token})
}
