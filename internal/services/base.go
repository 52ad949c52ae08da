package services

import (
	"context"

	"campdir/internal/query"

	"gorm.io/gorm"
)

// ListResult is one page of an advanced list query.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	Pagination query.Pagination
}

// ListAdvanced runs the compiled fetch plan for any model: filter, count,
// then shape (projection, sort, window) strictly in that order so the count
// covers all matches and ordering stays stable across pages.
func ListAdvanced[T any](ctx context.Context, db *gorm.DB, opts *query.Options) (*ListResult[T], error) {
	var model T

	tx := db.WithContext(ctx).Model(&model)
	tx, err := opts.ApplyFilters(tx, model)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	tx, err = opts.ApplyShape(tx, model)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}

	return &ListResult[T]{
		Items:      items,
		Total:      total,
		Pagination: opts.Page.Paginate(total),
	}, nil
}
