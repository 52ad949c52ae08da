package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"campdir/internal/access"
	"campdir/internal/api/middleware"
	"campdir/internal/api/validator"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/services"
	"campdir/internal/utils"
	"campdir/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

// BootcampStore is the slice of BootcampService the controller needs.
type BootcampStore interface {
	List(ctx context.Context, opts *query.Options) (*services.ListResult[models.Bootcamp], error)
	Get(ctx context.Context, id string) (*models.Bootcamp, error)
	Create(ctx context.Context, identity access.Identity, bootcamp *models.Bootcamp) error
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Bootcamp, error)
	Delete(ctx context.Context, id string) error
	WithinRadius(ctx context.Context, lat, lng, miles float64) ([]models.Bootcamp, error)
	UpdatePhoto(ctx context.Context, id, photo string) error
}

// Geocoder resolves addresses to coordinates. Nil means geocoding is not
// configured and location enrichment is skipped.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// PhotoUploader stores bootcamp photos. Nil disables the upload endpoint.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, bootcampID string, file []byte, filename, contentType string) (string, error)
}

type BootcampController struct {
	store       BootcampStore
	geocoder    Geocoder
	uploader    PhotoUploader
	maxFileSize int64
	log         *logger.Logger
}

func NewBootcampController(store BootcampStore, geocoder Geocoder, uploader PhotoUploader, maxFileSize int64) *BootcampController {
	return &BootcampController{
		store:       store,
		geocoder:    geocoder,
		uploader:    uploader,
		maxFileSize: maxFileSize,
		log:         logger.New("BootcampController"),
	}
}

// enrichLocation denormalizes geocoded coordinates onto the bootcamp. A
// failing geocoder downgrades to a plain address, it never fails the write.
func (bc *BootcampController) enrichLocation(ctx context.Context, bootcamp *models.Bootcamp, address string) {
	if bc.geocoder == nil || address == "" {
		return
	}
	lat, lng, err := bc.geocoder.Geocode(ctx, address)
	if err != nil {
		bc.log.Warn("geocoding failed for %q: %v", address, err)
		return
	}
	bootcamp.Location = models.Location{
		FormattedAddress: address,
		Lat:              lat,
		Lng:              lng,
	}
}

func (bc *BootcampController) List(ctx echo.Context) error {
	opts := query.Parse(ctx.QueryParams())
	result, err := bc.store.List(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}
	return OKList(ctx, result.Items, result.Pagination)
}

func (bc *BootcampController) Get(ctx echo.Context) error {
	bootcamp, err := bc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, bootcamp)
}

func (bc *BootcampController) Create(ctx echo.Context) error {
	var req validator.BootcampRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	careers, err := utils.StringsToJSON(req.Careers)
	if err != nil {
		return err
	}

	bootcamp := &models.Bootcamp{
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
	}

	bc.enrichLocation(ctx.Request().Context(), bootcamp, req.Address)

	identity := middleware.GetIdentity(ctx)
	if err := bc.store.Create(ctx.Request().Context(), identity, bootcamp); err != nil {
		return err
	}
	return OK(ctx, http.StatusCreated, bootcamp)
}

func (bc *BootcampController) Update(ctx echo.Context) error {
	var req validator.BootcampUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	bootcamp, err := bc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionUpdate, bootcamp).Err(); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = models.Slugify(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Careers != nil {
		careers, err := utils.StringsToJSON(req.Careers)
		if err != nil {
			return err
		}
		updates["careers"] = careers
	}
	if req.Housing != nil {
		updates["housing"] = *req.Housing
	}
	if req.JobAssistance != nil {
		updates["job_assistance"] = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		updates["job_guarantee"] = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		updates["accept_gi"] = *req.AcceptGi
	}
	if req.Address != nil {
		updates["address"] = *req.Address
		if bc.geocoder != nil {
			lat, lng, err := bc.geocoder.Geocode(ctx.Request().Context(), *req.Address)
			if err != nil {
				bc.log.Warn("geocoding failed for %q: %v", *req.Address, err)
			} else {
				updates["location_formatted_address"] = *req.Address
				updates["location_lat"] = lat
				updates["location_lng"] = lng
			}
		}
	}

	updated, err := bc.store.Update(ctx.Request().Context(), bootcamp.ID, updates)
	if err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, updated)
}

func (bc *BootcampController) Delete(ctx echo.Context) error {
	bootcamp, err := bc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionDelete, bootcamp).Err(); err != nil {
		return err
	}
	if err := bc.store.Delete(ctx.Request().Context(), bootcamp.ID); err != nil {
		return err
	}
	return OK(ctx, http.StatusOK, map[string]interface{}{})
}

// Radius lists bootcamps within a distance (miles) of a zipcode.
func (bc *BootcampController) Radius(ctx echo.Context) error {
	if bc.geocoder == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "geocoding not configured")
	}

	distance, err := strconv.ParseFloat(ctx.Param("distance"), 64)
	if err != nil || distance <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid distance")
	}

	lat, lng, err := bc.geocoder.Geocode(ctx.Request().Context(), ctx.Param("zipcode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not geocode zipcode")
	}

	bootcamps, err := bc.store.WithinRadius(ctx.Request().Context(), lat, lng, distance)
	if err != nil {
		return err
	}
	return OKCount(ctx, bootcamps)
}

// UploadPhoto stores an image for a bootcamp and patches its photo key.
func (bc *BootcampController) UploadPhoto(ctx echo.Context) error {
	if bc.uploader == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "photo storage not configured")
	}

	bootcamp, err := bc.store.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	identity := middleware.GetIdentity(ctx)
	if err := access.Can(identity, access.ActionUpdate, bootcamp).Err(); err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "please upload a file")
	}
	if fileHeader.Size > bc.maxFileSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "please upload an image file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, bc.maxFileSize))
	if err != nil {
		return err
	}

	key, err := bc.uploader.UploadPhoto(ctx.Request().Context(), bootcamp.ID, data,
		fileHeader.Filename, contentType)
	if err != nil {
		return err
	}
	// The photo is already stored; a failed column patch must not fail the
	// request that uploaded it.
	if err := bc.store.UpdatePhoto(ctx.Request().Context(), bootcamp.ID, key); err != nil {
		bc.log.Warn("failed to record photo %s for bootcamp %s: %v", key, bootcamp.ID, err)
	}

	return OK(ctx, http.StatusOK, key)
}
