package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

// ReportingPostgreSQL serves the admin aggregates with grouped SQL instead of
// scanning whole tables client-side.
type ReportingPostgreSQL struct {
	db *gorm.DB
}

func NewReportingPostgreSQL(db *gorm.DB) repositories.ReportingRepository {
	return &ReportingPostgreSQL{db: db}
}

func (r *ReportingPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ReportingPostgreSQL) PlatformStats(ctx context.Context, tx *gorm.DB) (*repositories.PlatformStats, error) {
	db := r.getDB(tx)
	stats := &repositories.PlatformStats{}

	if err := db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Course{}).Count(&stats.TotalCourses).Error; err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Enrollment{}).Count(&stats.TotalEnrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return stats, nil
}

func (r *ReportingPostgreSQL) DailyRegistrations(ctx context.Context, tx *gorm.DB, since time.Time) ([]repositories.DailyCount, error) {
	return r.dailyCounts(ctx, tx, &models.User{}, "created_at", since)
}

func (r *ReportingPostgreSQL) DailyEnrollments(ctx context.Context, tx *gorm.DB, since time.Time) ([]repositories.DailyCount, error) {
	return r.dailyCounts(ctx, tx, &models.Enrollment{}, "enrolled_at", since)
}

// dailyCounts buckets rows by UTC calendar day.
func (r *ReportingPostgreSQL) dailyCounts(ctx context.Context, tx *gorm.DB, model interface{}, column string, since time.Time) ([]repositories.DailyCount, error) {
	db := r.getDB(tx)
	var buckets []repositories.DailyCount
	if err := db.WithContext(ctx).
		Model(model).
		Select(fmt.Sprintf("date_trunc('day', %s AT TIME ZONE 'UTC') AS day, COUNT(*) AS count", column)).
		Where(fmt.Sprintf("%s >= ?", column), since).
		Group("day").
		Order("day ASC").
		Scan(&buckets).Error; err != nil {
		return nil, fmt.Errorf("failed to bucket daily counts: %w", err)
	}
	return buckets, nil
}
