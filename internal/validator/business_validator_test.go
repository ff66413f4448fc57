package validator

import (
	"testing"

	"github.com/SAP-F-2025/course-service/internal/models"
)

func strPtr(s string) *string { return &s }

func TestValidateCourseCreate(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		req     CourseCreateRequest
		wantErr bool
	}{
		{
			name: "valid course",
			req: CourseCreateRequest{
				Title:      "Go for Backend Engineers",
				Instructor: "Jane Doe",
				Category:   "programming",
				Price:      29.99,
				Level:      "Intermediate",
				Lessons: []LessonRequest{
					{Title: "Setup", Duration: 15, Position: 1},
					{Title: "Basics", Duration: 45, Position: 2},
				},
			},
			wantErr: false,
		},
		{
			name: "free course",
			req: CourseCreateRequest{
				Title:      "Intro to Web Development",
				Instructor: "John Doe",
				Category:   "web-development",
				Price:      0,
				Level:      "Beginner",
			},
			wantErr: false,
		},
		{
			name: "missing title",
			req: CourseCreateRequest{
				Instructor: "Jane Doe",
				Category:   "programming",
			},
			wantErr: true,
		},
		{
			name: "negative price",
			req: CourseCreateRequest{
				Title:      "Go for Backend Engineers",
				Instructor: "Jane Doe",
				Category:   "programming",
				Price:      -10,
			},
			wantErr: true,
		},
		{
			name: "duplicate lesson positions",
			req: CourseCreateRequest{
				Title:      "Go for Backend Engineers",
				Instructor: "Jane Doe",
				Category:   "programming",
				Lessons: []LessonRequest{
					{Title: "Setup", Duration: 15, Position: 1},
					{Title: "Basics", Duration: 45, Position: 1},
				},
			},
			wantErr: true,
		},
		{
			name: "lesson duration out of range",
			req: CourseCreateRequest{
				Title:      "Go for Backend Engineers",
				Instructor: "Jane Doe",
				Category:   "programming",
				Lessons: []LessonRequest{
					{Title: "Marathon", Duration: 900, Position: 1},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := bv.ValidateCourseCreate(&tt.req)
			if tt.wantErr && len(errors) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && len(errors) > 0 {
				t.Errorf("expected no validation errors, got %v", errors)
			}
		})
	}
}

func TestValidateStatusTransition(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		from    models.CourseStatus
		to      models.CourseStatus
		wantErr bool
	}{
		{"draft to published", models.CourseDraft, models.CoursePublished, false},
		{"draft to archived", models.CourseDraft, models.CourseArchived, false},
		{"published to archived", models.CoursePublished, models.CourseArchived, false},
		{"archived to published", models.CourseArchived, models.CoursePublished, false},
		{"published to draft", models.CoursePublished, models.CourseDraft, true},
		{"archived to draft", models.CourseArchived, models.CourseDraft, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := bv.ValidateStatusTransition(tt.from, tt.to)
			if tt.wantErr && len(errors) == 0 {
				t.Error("expected transition to be rejected")
			}
			if !tt.wantErr && len(errors) > 0 {
				t.Errorf("expected transition to be allowed, got %v", errors)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	bv := NewBusinessValidator()

	if errors := bv.ValidateRating(&RatingRequest{Rating: 5, Review: strPtr("great course")}); len(errors) > 0 {
		t.Errorf("expected valid rating, got %v", errors)
	}

	if errors := bv.ValidateRating(&RatingRequest{Rating: 6}); len(errors) == 0 {
		t.Error("rating above 5 should be rejected")
	}

	if errors := bv.ValidateRating(&RatingRequest{Rating: 0}); len(errors) == 0 {
		t.Error("rating of 0 should be rejected")
	}

	if errors := bv.ValidateRating(&RatingRequest{Rating: 3, Review: strPtr("   ")}); len(errors) == 0 {
		t.Error("blank review should be rejected")
	}
}

func TestValidatorStruct(t *testing.T) {
	v := New()

	err := v.Struct(&RegisterRequest{
		Email:       "not-an-email",
		Password:    "short",
		DisplayName: "",
	})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(verrs), verrs)
	}
}
