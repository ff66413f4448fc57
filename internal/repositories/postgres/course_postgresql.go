package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	helpers      *SharedHelpers
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
		helpers:      NewSharedHelpers(db),
	}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	c.cacheManager.InvalidateCourse(ctx, course.ID)
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	db := c.getDB(tx)

	// Single-course reads are the hottest path, serve them cache-aside
	cacheKey := fmt.Sprintf("id:%s", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := db.WithContext(ctx).First(&dbCourse, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})

	return &course, err
}

func (c *CoursePostgreSQL) GetByIDWithLessons(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Omit("Lessons").Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	c.cacheManager.InvalidateCourse(ctx, course.ID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	c.cacheManager.InvalidateCourse(ctx, id)
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, error) {
	db := c.getDB(tx)
	var courses []*models.Course

	query := db.WithContext(ctx).Model(&models.Course{})
	query = c.helpers.ApplyCourseFilters(query, filters)
	query = c.helpers.ApplyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)

	if err := query.Preload("Lessons").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, nil
}

func (c *CoursePostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := c.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (c *CoursePostgreSQL) ReplaceLessons(ctx context.Context, tx *gorm.DB, courseID string, lessons []models.Lesson) error {
	db := c.getDB(tx)

	if err := db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&models.Lesson{}).Error; err != nil {
		return fmt.Errorf("failed to clear lessons: %w", err)
	}

	for i := range lessons {
		lessons[i].CourseID = courseID
	}

	if len(lessons) > 0 {
		if err := db.WithContext(ctx).Create(&lessons).Error; err != nil {
			return fmt.Errorf("failed to create lessons: %w", err)
		}
	}

	c.cacheManager.InvalidateCourse(ctx, courseID)
	return nil
}

func (c *CoursePostgreSQL) CountLessons(ctx context.Context, tx *gorm.DB, courseID string) (int64, error) {
	db := c.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (c *CoursePostgreSQL) IncrementEnrollmentCount(ctx context.Context, tx *gorm.DB, id string, delta int) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update enrollment count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	c.cacheManager.InvalidateCourse(ctx, id)
	return nil
}

// ApplyRatingDelta maintains the running sum, count and one-decimal average on
// the course row. The caller runs it inside the rating write transaction, so
// concurrent submits serialize on the row instead of recomputing over all ratings.
func (c *CoursePostgreSQL) ApplyRatingDelta(ctx context.Context, tx *gorm.DB, id string, sumDelta, countDelta int) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating_sum":   gorm.Expr("rating_sum + ?", sumDelta),
			"rating_count": gorm.Expr("rating_count + ?", countDelta),
			"average_rating": gorm.Expr(
				"CASE WHEN rating_count + ? > 0 THEN ROUND((rating_sum + ?)::numeric / (rating_count + ?), 1) ELSE 0 END",
				countDelta, sumDelta, countDelta,
			),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to apply rating delta: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	c.cacheManager.InvalidateCourse(ctx, id)
	return nil
}
