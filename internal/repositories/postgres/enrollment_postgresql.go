package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

// Create inserts a new enrollment. A second enrollment for the same
// (user, course) pair fails on the composite unique index, which is the
// only duplicate check this repository does.
func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	return db.WithContext(ctx).Create(enrollment).Error
}

func (e *EnrollmentPostgreSQL) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	return db.WithContext(ctx).Save(enrollment).Error
}

func (e *EnrollmentPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollments []*models.Enrollment
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollments by user: %w", err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) GetByUserWithCourses(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollments []*models.Enrollment
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Course").
		Preload("Course.Lessons").
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollments with courses: %w", err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) GetByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollments []*models.Enrollment
	if err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollments by course: %w", err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	db := e.getDB(tx)
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Enrollment{}).Error
}

func (e *EnrollmentPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	db := e.getDB(tx)
	return db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error
}

func (e *EnrollmentPostgreSQL) CountByUser(ctx context.Context, tx *gorm.DB, userID string, completedOnly bool) (int64, error) {
	db := e.getDB(tx)
	var count int64
	query := db.WithContext(ctx).Model(&models.Enrollment{}).Where("user_id = ?", userID)
	if completedOnly {
		query = query.Where("progress >= 100")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := e.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Enrollment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollments []*models.Enrollment
	if err := db.WithContext(ctx).
		Preload("Course").
		Order("enrolled_at DESC").
		Limit(limit).
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent enrollments: %w", err)
	}
	return enrollments, nil
}
