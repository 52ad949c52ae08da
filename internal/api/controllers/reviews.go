package controllers

import (
	"context"
	"net/http"

	"campdir/internal/access"
	"campdir/internal/api/middleware"
	"campdir/internal/api/validator"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/services"
	"campdir/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

type ReviewStore interface {
	List(ctx context.Context, opts *query.Options) (*services.ListResult[models.Review], error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, identity access.Identity, bootcampID string, review *models.Review) error
	Update(ctx context.Context, id string, updates *models.Review) (*models.Review, error)
	Delete(ctx context.Context, review *models.Review) error
}

type ReviewController struct {
	store ReviewStore
	log   *logger.Logger
}

func NewReviewController(store ReviewStore) *ReviewController {
	return &ReviewController{store: store, log: logger.New("ReviewController")}
}

func (rc *ReviewController) List(ctx echo.Context) error {
	if bootcampID := ctx.Param("bootcampId"); bootcampID != "" {
		reviews, err := rc.store.ListByBootcamp(ctx.Request().Context(), bootcampID)
		if err != nil {
			return err
		}
		return OKCount(ctx, reviews)
	}

	opts := query.Parse(ctx.QueryParams())
	result, err := rc.store.List(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}
	return OKList(ctx, result.Items, result.Pagination)
}

func (rc *ReviewController) Get(ctx echo.Context) error {
	review, err := rc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, review)
}

func (rc *ReviewController) Create(ctx echo.Context) error {
	var req validator.ReviewRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	review := &models.Review{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	}

	identity := middleware.GetIdentity(ctx)
	if err := rc.store.Create(ctx.Request().Context(), identity, ctx.Param("bootcampId"), review); err != nil {
		return err
	}
	return OK(ctx, http.StatusCreated, review)
}

func (rc *ReviewController) Update(ctx echo.Context) error {
	var req validator.ReviewRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	review, err := rc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionUpdate, review).Err(); err != nil {
		return err
	}

	updates := &models.Review{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	}
	updated, err := rc.store.Update(ctx.Request().Context(), review.ID, updates)
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, updated)
}

func (rc *ReviewController) Delete(ctx echo.Context) error {
	review, err := rc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionDelete, review).Err(); err != nil {
		return err
	}
	if err := rc.store.Delete(ctx.Request().Context(), review); err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, map[string]interface{}{})
}
