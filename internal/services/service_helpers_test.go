package services

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/course-service/internal/models"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no lessons", 0, 0, 0},
		{"nothing done", 0, 4, 0},
		{"one of four", 1, 4, 25},
		{"half done", 2, 4, 50},
		{"all done", 4, 4, 100},
		{"one of three rounds up", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"one of eight rounds to thirteen", 1, 8, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeProgress(tt.completed, tt.total); got != tt.want {
				t.Errorf("computeProgress(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestToggleLesson(t *testing.T) {
	ids := []string{"l1", "l2"}

	// Marking an already-complete lesson is a no-op
	got := toggleLesson(ids, "l1", true)
	if len(got) != 2 {
		t.Errorf("expected 2 lessons, got %v", got)
	}

	got = toggleLesson(ids, "l3", true)
	if len(got) != 3 {
		t.Errorf("expected 3 lessons, got %v", got)
	}

	got = toggleLesson(got, "l2", false)
	if len(got) != 2 {
		t.Errorf("expected 2 lessons after unmarking, got %v", got)
	}
	for _, id := range got {
		if id == "l2" {
			t.Error("l2 should have been removed")
		}
	}

	// Unmarking a lesson that was never complete is a no-op
	got = toggleLesson([]string{"l1"}, "l9", false)
	if len(got) != 1 {
		t.Errorf("expected 1 lesson, got %v", got)
	}
}

func TestEncodeDecodeLessonSet(t *testing.T) {
	encoded, err := encodeLessonSet([]string{"a", "b"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeLessonSet(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != "a" || decoded[1] != "b" {
		t.Errorf("roundtrip mismatch: %v", decoded)
	}

	// Empty column decodes to an empty set, not nil
	decoded, err = decodeLessonSet(nil)
	if err != nil {
		t.Fatalf("decode of empty failed: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Errorf("expected empty slice, got %v", decoded)
	}
}

func TestRatingDelta(t *testing.T) {
	tests := []struct {
		name      string
		existed   bool
		oldValue  int
		newValue  int
		wantSum   int
		wantCount int
	}{
		{"first rating", false, 0, 4, 4, 1},
		{"re-rate lower", true, 4, 2, -2, 0},
		{"re-rate higher", true, 2, 5, 3, 0},
		{"re-rate unchanged", true, 3, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sumDelta, countDelta := ratingDelta(tt.existed, tt.oldValue, tt.newValue)
			if sumDelta != tt.wantSum || countDelta != tt.wantCount {
				t.Errorf("ratingDelta(%v, %d, %d) = (%d, %d), want (%d, %d)",
					tt.existed, tt.oldValue, tt.newValue, sumDelta, countDelta, tt.wantSum, tt.wantCount)
			}
		})
	}
}

func TestRatingAverage(t *testing.T) {
	tests := []struct {
		sum   int64
		count int64
		want  float64
	}{
		{0, 0, 0},
		{4, 1, 4.0},
		{9, 2, 4.5},
		{10, 3, 3.3},
		{14, 3, 4.7},
	}

	for _, tt := range tests {
		if got := ratingAverage(tt.sum, tt.count); got != tt.want {
			t.Errorf("ratingAverage(%d, %d) = %v, want %v", tt.sum, tt.count, got, tt.want)
		}
	}
}

func TestRatingAggregatesAfterRerate(t *testing.T) {
	// A user rates 4, then changes their mind to 2: the count must stay at
	// one and the average must land on exactly 2.0
	var sum, count int64

	sumDelta, countDelta := ratingDelta(false, 0, 4)
	sum += int64(sumDelta)
	count += int64(countDelta)
	if avg := ratingAverage(sum, count); avg != 4.0 {
		t.Fatalf("average after first rating = %v, want 4.0", avg)
	}

	sumDelta, countDelta = ratingDelta(true, 4, 2)
	sum += int64(sumDelta)
	count += int64(countDelta)
	if count != 1 {
		t.Errorf("count after re-rate = %d, want 1", count)
	}
	if avg := ratingAverage(sum, count); avg != 2.0 {
		t.Errorf("average after re-rate = %v, want exactly 2.0", avg)
	}
}

func TestPeriodToDays(t *testing.T) {
	tests := []struct {
		period  string
		want    int
		wantErr bool
	}{
		{"7d", 7, false},
		{"30d", 30, false},
		{"90d", 90, false},
		{"", 30, false},
		{"365d", 0, true},
		{"week", 0, true},
	}

	for _, tt := range tests {
		got, err := periodToDays(tt.period)
		if tt.wantErr {
			if err == nil {
				t.Errorf("periodToDays(%q) should fail", tt.period)
			}
			continue
		}
		if err != nil {
			t.Errorf("periodToDays(%q) failed: %v", tt.period, err)
		}
		if got != tt.want {
			t.Errorf("periodToDays(%q) = %d, want %d", tt.period, got, tt.want)
		}
	}
}

func TestSortActivity(t *testing.T) {
	now := time.Now()
	items := []ActivityItem{
		{Type: "enrollment", OccurredAt: now.Add(-2 * time.Hour)},
		{Type: "achievement", OccurredAt: now},
		{Type: "study_session", OccurredAt: now.Add(-1 * time.Hour)},
	}

	sorted := sortActivity(items, 2)
	if len(sorted) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sorted))
	}
	if sorted[0].Type != "achievement" || sorted[1].Type != "study_session" {
		t.Errorf("unexpected order: %s, %s", sorted[0].Type, sorted[1].Type)
	}
}

func TestMatchesSearch(t *testing.T) {
	course := &models.Course{
		Title:       "Advanced Go Patterns",
		Description: "Concurrency and channels in depth",
		Instructor:  "Jane Doe",
		Category:    "programming",
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"go", true},
		{"GO", true},
		{"channels", true},
		{"jane", true},
		// A category-only hit is not a search match; category has its own filter
		{"programming", false},
		{"python", false},
	}

	for _, tt := range tests {
		if got := matchesSearch(course, tt.query); got != tt.want {
			t.Errorf("matchesSearch(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
