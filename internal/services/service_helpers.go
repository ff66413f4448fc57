package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// runInTx executes fn inside a database transaction bound to ctx
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// decodeLessonSet reads the stored completed-lesson ID list
func decodeLessonSet(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode completed lessons: %w", err)
	}
	return ids, nil
}

// encodeLessonSet stores a completed-lesson ID list
func encodeLessonSet(ids []string) (datatypes.JSON, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completed lessons: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// toggleLesson adds or removes a lesson ID, idempotently
func toggleLesson(ids []string, lessonID string, completed bool) []string {
	found := -1
	for i, id := range ids {
		if id == lessonID {
			found = i
			break
		}
	}

	if completed {
		if found >= 0 {
			return ids
		}
		return append(ids, lessonID)
	}

	if found < 0 {
		return ids
	}
	return append(ids[:found], ids[found+1:]...)
}

// ratingDelta returns the sum and count adjustments a submitted rating applies
// to a course's aggregates. A re-rating moves the sum by the difference and
// leaves the count alone.
func ratingDelta(existed bool, oldValue, newValue int) (sumDelta, countDelta int) {
	if existed {
		return newValue - oldValue, 0
	}
	return newValue, 1
}

// ratingAverage mirrors the stored aggregate: sum over count, one decimal
func ratingAverage(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}

// computeProgress returns percent complete, rounded to the nearest integer
func computeProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// periodToDays maps an analytics period to its day span
func periodToDays(period string) (int, error) {
	switch period {
	case "", "30d":
		return 30, nil
	case "7d":
		return 7, nil
	case "90d":
		return 90, nil
	default:
		return 0, fmt.Errorf("unknown period %q: %w", period, ErrValidationFailed)
	}
}

// periodStart returns the UTC midnight that opens a period ending today
func periodStart(days int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
}

// sortActivity orders a merged feed newest first and trims it
func sortActivity(items []ActivityItem, limit int) []ActivityItem {
	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
