package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventEnrollmentCreated, EnrollmentCreatedEvent{
		UserID:   "u1",
		CourseID: "c1",
	})

	if event.ID == "" {
		t.Error("event ID should be set")
	}
	if event.Type != EventEnrollmentCreated {
		t.Errorf("got type %q, want %q", event.Type, EventEnrollmentCreated)
	}
	if event.Source != "course-service" {
		t.Errorf("got source %q, want course-service", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("got version %q, want 1.0", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("event timestamp should be set")
	}
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	if err := publisher.Publish(ctx, EventUserRegistered, UserRegisteredEvent{UserID: "u1", Email: "a@b.c", Role: "student"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := publisher.Publish(ctx, EventUserDeleted, UserDeletedEvent{UserID: "u1"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("got %d events, want 2", len(published))
	}
	if published[0].Type != EventUserRegistered {
		t.Errorf("got first event type %q, want %q", published[0].Type, EventUserRegistered)
	}
	if published[1].Type != EventUserDeleted {
		t.Errorf("got second event type %q, want %q", published[1].Type, EventUserDeleted)
	}

	publisher.ClearEvents()
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("ClearEvents should drop recorded events")
	}
}
