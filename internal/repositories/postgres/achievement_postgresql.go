package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type AchievementPostgreSQL struct {
	db *gorm.DB
}

func NewAchievementPostgreSQL(db *gorm.DB) repositories.AchievementRepository {
	return &AchievementPostgreSQL{db: db}
}

func (a *AchievementPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AchievementPostgreSQL) Create(ctx context.Context, tx *gorm.DB, achievement *models.Achievement) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Create(achievement).Error
}

func (a *AchievementPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Achievement, error) {
	db := a.getDB(tx)
	var achievements []*models.Achievement
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return achievements, nil
}

func (a *AchievementPostgreSQL) CountByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	db := a.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Achievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (a *AchievementPostgreSQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Achievement{}).Error
}
