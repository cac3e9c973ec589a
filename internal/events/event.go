// Package events publishes domain events about student records.
package events

import (
	"context"
	"time"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/google/uuid"
)

const (
	EventSource  = "student-service"
	EventVersion = "1.0"
)

// EventType identifies what happened to a record
type EventType string

const (
	StudentCreated EventType = "student.created"
	StudentUpdated EventType = "student.updated"
	StudentDeleted EventType = "student.deleted"
)

// Event is the envelope written to the message bus
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StudentEventData is the payload of every student event
type StudentEventData struct {
	StudentID string          `json:"student_id"`
	Student   *models.Student `json:"student,omitempty"`
}

// EventPublisher publishes events after a successful save
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NewStudentEvent builds an event for one record. student is nil for deletions.
func NewStudentEvent(eventType EventType, studentID string, student *models.Student) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data: StudentEventData{
			StudentID: studentID,
			Student:   student,
		},
	}
}
