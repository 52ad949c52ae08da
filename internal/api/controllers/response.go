package controllers

import (
	"net/http"

	"campdir/internal/query"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body. Count and Pagination are only set
// on list responses; Error is only set by the central error handler.
type Envelope struct {
	Success    bool              `json:"success"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func OK(ctx echo.Context, status int, data interface{}) error {
	return ctx.JSON(status, Envelope{Success: true, Data: data})
}

// OKCount writes a list response without pagination, for parent-scoped and
// radius listings that return every match.
func OKCount[T any](ctx echo.Context, items []T) error {
	count := len(items)
	return ctx.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: items})
}

// OKList writes a list response. Count is the number of items on this page,
// not the total across pages.
func OKList[T any](ctx echo.Context, items []T, pagination query.Pagination) error {
	count := len(items)
	return ctx.JSON(http.StatusOK, Envelope{
		Success:    true,
		Count:      &count,
		Pagination: &pagination,
		Data:       items,
	})
}
