package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type RatingPostgreSQL struct {
	db *gorm.DB
}

func NewRatingPostgreSQL(db *gorm.DB) repositories.RatingRepository {
	return &RatingPostgreSQL{db: db}
}

func (r *RatingPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RatingPostgreSQL) Create(ctx context.Context, tx *gorm.DB, rating *models.Rating) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Create(rating).Error
}

func (r *RatingPostgreSQL) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Rating, error) {
	db := r.getDB(tx)
	var rating models.Rating
	if err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingPostgreSQL) Update(ctx context.Context, tx *gorm.DB, rating *models.Rating) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Save(rating).Error
}

func (r *RatingPostgreSQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Rating{}).Error
}

func (r *RatingPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&models.Rating{}).Error
}
