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

type CourseStore interface {
	List(ctx context.Context, opts *query.Options) (*services.ListResult[models.Course], error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, identity access.Identity, bootcampID string, course *models.Course) error
	Update(ctx context.Context, id string, updates *models.Course) (*models.Course, error)
	Delete(ctx context.Context, course *models.Course) error
}

type CourseController struct {
	store CourseStore
	log   *logger.Logger
}

func NewCourseController(store CourseStore) *CourseController {
	return &CourseController{store: store, log: logger.New("CourseController")}
}

// List serves both the flat collection and the bootcamp-scoped one. The
// scoped path returns everything for the parent, without filtering or
// pagination.
func (cc *CourseController) List(ctx echo.Context) error {
	if bootcampID := ctx.Param("bootcampId"); bootcampID != "" {
		courses, err := cc.store.ListByBootcamp(ctx.Request().Context(), bootcampID)
		if err != nil {
			return err
		}
		return OKCount(ctx, courses)
	}

	opts := query.Parse(ctx.QueryParams())
	result, err := cc.store.List(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}
	return OKList(ctx, result.Items, result.Pagination)
}

func (cc *CourseController) Get(ctx echo.Context) error {
	course, err := cc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, course)
}

func (cc *CourseController) Create(ctx echo.Context) error {
	var req validator.CourseRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	course := &models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         models.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipsAvail,
	}

	identity := middleware.GetIdentity(ctx)
	if err := cc.store.Create(ctx.Request().Context(), identity, ctx.Param("bootcampId"), course); err != nil {
		return err
	}
	return OK(ctx, http.StatusCreated, course)
}

func (cc *CourseController) Update(ctx echo.Context) error {
	var req validator.CourseRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	course, err := cc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionUpdate, course).Err(); err != nil {
		return err
	}

	updates := &models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         models.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipsAvail,
	}
	updated, err := cc.store.Update(ctx.Request().Context(), course.ID, updates)
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, updated)
}

func (cc *CourseController) Delete(ctx echo.Context) error {
	course, err := cc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionDelete, course).Err(); err != nil {
		return err
	}
	if err := cc.store.Delete(ctx.Request().Context(), course); err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, map[string]interface{}{})
}
