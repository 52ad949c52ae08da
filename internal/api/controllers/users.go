package controllers

import (
	"context"
	"net/http"

	"campdir/internal/api/validator"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/services"
	"campdir/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

type UserStore interface {
	List(ctx context.Context, opts *query.Options) (*services.ListResult[models.User], error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User, password string) error
	Update(ctx context.Context, id string, updates *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserController backs the admin-only user management routes. Role gating
// happens at the route level, so handlers here assume an admin caller.
type UserController struct {
	store UserStore
	log   *logger.Logger
}

func NewUserController(store UserStore) *UserController {
	return &UserController{store: store, log: logger.New("UserController")}
}

func (uc *UserController) List(ctx echo.Context) error {
	opts := query.Parse(ctx.QueryParams())
	result, err := uc.store.List(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}
	return OKList(ctx, result.Items, result.Pagination)
}

func (uc *UserController) Get(ctx echo.Context) error {
	user, err := uc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, user)
}

func (uc *UserController) Create(ctx echo.Context) error {
	var req validator.UserRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.UserRole(req.Role),
	}
	if err := uc.store.Create(ctx.Request().Context(), user, req.Password); err != nil {
		return err
	}
	return OK(ctx, http.StatusCreated, user)
}

func (uc *UserController) Update(ctx echo.Context) error {
	var req validator.UserUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	updates := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.UserRole(req.Role),
	}
	updated, err := uc.store.Update(ctx.Request().Context(), ctx.Param("id"), updates)
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, updated)
}

func (uc *UserController) Delete(ctx echo.Context) error {
	if err := uc.store.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, map[string]interface{}{})
}
