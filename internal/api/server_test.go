package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campdir/internal/access"
	"campdir/internal/api/controllers"
	"campdir/internal/query"
	"campdir/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func handleError(t *testing.T, err error) (int, controllers.Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	customHTTPErrorHandler(err, c)

	var env controllers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestErrorHandlerRoleDenialIs401(t *testing.T) {
	code, env := handleError(t, access.Denied(access.ReasonRoleNotPermitted))

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Not authorized to access this route", env.Error)
}

func TestErrorHandlerOwnershipDenialIs401(t *testing.T) {
	code, env := handleError(t, access.Denied(access.ReasonNotOwner))

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
}

func TestErrorHandlerQuotaDenialIs400(t *testing.T) {
	code, env := handleError(t, access.Denied(access.ReasonQuotaExceeded))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestErrorHandlerInvalidQueryIs400(t *testing.T) {
	code, _ := handleError(t, fmt.Errorf("%w: unknown filter field %q", query.ErrInvalidQuery, "password"))

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestErrorHandlerRecordNotFoundIs404(t *testing.T) {
	code, env := handleError(t, gorm.ErrRecordNotFound)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Resource not found", env.Error)
}

func TestErrorHandlerDuplicateReviewIs400(t *testing.T) {
	code, _ := handleError(t, services.ErrAlreadyReviewed)

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestErrorHandlerEchoErrorsPassThrough(t *testing.T) {
	code, env := handleError(t, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials"))

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Error)
}

func TestErrorHandlerUnknownErrorIs500(t *testing.T) {
	code, env := handleError(t, fmt.Errorf("disk exploded"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), env.Error)
}
