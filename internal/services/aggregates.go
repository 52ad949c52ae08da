package services

import (
	"context"
	"math"

	"campdir/internal/models"
	"campdir/internal/utils/logger"

	"gorm.io/gorm"
)

var aggLog = logger.New("AGGREGATES")

// RecomputeAverageRating refreshes a bootcamp's average review rating. It
// runs as a post-commit task; failures are logged by the caller, never
// surfaced to the request that triggered it.
func RecomputeAverageRating(ctx context.Context, db *gorm.DB, bootcampID string) error {
	var avg float64
	err := db.WithContext(ctx).Model(&models.Review{}).
		Where("bootcamp_id = ?", bootcampID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	avg = math.Round(avg*10) / 10

	return db.WithContext(ctx).Model(&models.Bootcamp{}).
		Where("id = ?", bootcampID).
		Update("average_rating", avg).Error
}

// RecomputeAverageCost refreshes a bootcamp's average tuition across its
// courses, rounded up to the nearest ten.
func RecomputeAverageCost(ctx context.Context, db *gorm.DB, bootcampID string) error {
	var avg float64
	err := db.WithContext(ctx).Model(&models.Course{}).
		Where("bootcamp_id = ?", bootcampID).
		Select("COALESCE(AVG(tuition), 0)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	avg = math.Ceil(avg/10) * 10

	return db.WithContext(ctx).Model(&models.Bootcamp{}).
		Where("id = ?", bootcampID).
		Update("average_cost", avg).Error
}

// RecomputeAllAggregates walks every bootcamp and refreshes both derived
// values. Used by the nightly reconciliation job to heal any drift left by
// lost fire-and-forget tasks.
func RecomputeAllAggregates(ctx context.Context, db *gorm.DB) error {
	var ids []string
	if err := db.WithContext(ctx).Model(&models.Bootcamp{}).Pluck("id", &ids).Error; err != nil {
		return err
	}

	for _, id := range ids {
		if err := RecomputeAverageRating(ctx, db, id); err != nil {
			aggLog.Warn("rating recompute failed for bootcamp %s: %v", id, err)
		}
		if err := RecomputeAverageCost(ctx, db, id); err != nil {
			aggLog.Warn("cost recompute failed for bootcamp %s: %v", id, err)
		}
	}
	return nil
}
