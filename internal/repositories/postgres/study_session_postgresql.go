package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type StudySessionPostgreSQL struct {
	db *gorm.DB
}

func NewStudySessionPostgreSQL(db *gorm.DB) repositories.StudySessionRepository {
	return &StudySessionPostgreSQL{db: db}
}

func (s *StudySessionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *StudySessionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, session *models.StudySession) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(session).Error
}

func (s *StudySessionPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.StudySessionFilters) ([]*models.StudySession, error) {
	db := s.getDB(tx)
	var sessions []*models.StudySession

	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to get study sessions: %w", err)
	}
	return sessions, nil
}

func (s *StudySessionPostgreSQL) SumDurationByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	db := s.getDB(tx)
	var total int64
	if err := db.WithContext(ctx).
		Model(&models.StudySession{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum study duration: %w", err)
	}
	return total, nil
}

// DailyMinutesByUser buckets study minutes by UTC calendar day so clients in
// different timezones see the same series.
func (s *StudySessionPostgreSQL) DailyMinutesByUser(ctx context.Context, tx *gorm.DB, userID string, since time.Time) ([]repositories.DailyMinutes, error) {
	db := s.getDB(tx)
	var buckets []repositories.DailyMinutes
	if err := db.WithContext(ctx).
		Model(&models.StudySession{}).
		Select("date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COALESCE(SUM(duration), 0) AS minutes").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("day").
		Order("day ASC").
		Scan(&buckets).Error; err != nil {
		return nil, fmt.Errorf("failed to bucket study minutes: %w", err)
	}
	return buckets, nil
}

func (s *StudySessionPostgreSQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.StudySession{}).Error
}
