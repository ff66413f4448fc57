package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Additional business validations
	errors = append(errors, bv.validateLessonRules(req.Lessons)...)

	return errors
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest, existing *models.Course) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	if req.Lessons != nil {
		errors = append(errors, bv.validateLessonRules(req.Lessons)...)
	}

	// Status transitions
	if req.Status != nil && *req.Status != existing.Status {
		errors = append(errors, bv.ValidateStatusTransition(existing.Status, *req.Status)...)
	}

	return errors
}

// ValidateStatusTransition validates course status transitions
func (bv *BusinessValidator) ValidateStatusTransition(currentStatus, newStatus models.CourseStatus) ValidationErrors {
	var errors ValidationErrors

	// Define allowed transitions
	allowedTransitions := map[models.CourseStatus][]models.CourseStatus{
		models.CourseDraft:     {models.CoursePublished, models.CourseArchived},
		models.CoursePublished: {models.CourseArchived},
		models.CourseArchived:  {models.CoursePublished},
	}

	allowed := false
	for _, allowedStatus := range allowedTransitions[currentStatus] {
		if newStatus == allowedStatus {
			allowed = true
			break
		}
	}

	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", currentStatus, newStatus),
			Value:   newStatus,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateRating validates rating submission business rules
func (bv *BusinessValidator) ValidateRating(req *RatingRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Review != nil && strings.TrimSpace(*req.Review) == "" {
		errors = append(errors, ValidationError{
			Field:   "review",
			Message: "review cannot be blank when provided",
			Value:   *req.Review,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateRoleChange validates role update business rules
func (bv *BusinessValidator) ValidateRoleChange(newRole models.UserRole) ValidationErrors {
	var errors ValidationErrors

	if !models.IsValidRole(newRole) {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: fmt.Sprintf("unknown role %s", newRole),
			Value:   newRole,
			Rule:    "user_role",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Course title validation (1-200 characters)
	bv.validate.RegisterValidation("course_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Course description validation (max 5000 characters)
	bv.validate.RegisterValidation("course_description", func(fl validator.FieldLevel) bool {
		desc := fl.Field().String()
		return len(desc) <= 5000
	})

	// Lesson duration validation in minutes (1-600)
	bv.validate.RegisterValidation("lesson_duration", func(fl validator.FieldLevel) bool {
		duration := fl.Field().Int()
		return duration >= 1 && duration <= 600
	})

	// Rating value validation (1-5 stars)
	bv.validate.RegisterValidation("rating_value", func(fl validator.FieldLevel) bool {
		value := fl.Field().Int()
		return value >= 1 && value <= 5
	})

	// course status validation
	bv.validate.RegisterValidation("course_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []models.CourseStatus{models.CourseDraft, models.CoursePublished, models.CourseArchived}
		for _, vs := range validStatuses {
			if models.CourseStatus(status) == vs {
				return true
			}
		}
		return false
	})

	// user role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		return models.IsValidRole(models.UserRole(role))
	})

	// study session action validation
	bv.validate.RegisterValidation("study_action", func(fl validator.FieldLevel) bool {
		action := fl.Field().String()
		validActions := []models.StudyAction{models.StudyStart, models.StudyPause, models.StudyComplete}
		for _, va := range validActions {
			if models.StudyAction(action) == va {
				return true
			}
		}
		return false
	})
}

// validateLessonRules validates lesson lists for duplicate positions
func (bv *BusinessValidator) validateLessonRules(lessons []LessonRequest) ValidationErrors {
	var errors ValidationErrors

	if len(lessons) > 100 {
		errors = append(errors, ValidationError{
			Field:   "lessons",
			Message: "cannot have more than 100 lessons",
			Value:   len(lessons),
			Rule:    "business_logic",
		})
	}

	seen := make(map[int]bool, len(lessons))
	for i, lesson := range lessons {
		if seen[lesson.Position] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("lessons[%d].position", i),
				Message: "lesson positions must be unique",
				Value:   lesson.Position,
				Rule:    "business_logic",
			})
		}
		seen[lesson.Position] = true
	}

	return errors
}
