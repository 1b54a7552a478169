// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Directory events
	EventProfileRegistered EventType = "directory.profile_registered"

	// Program events
	EventEventCreated       EventType = "program.event_created"
	EventLectureCreated     EventType = "program.lecture_created"
	EventCompetitionCreated EventType = "program.competition_created"

	// Invitation events
	EventInvitationCreated  EventType = "invitation.created"
	EventInvitationAccepted EventType = "invitation.accepted"
	EventInvitationDeclined EventType = "invitation.declined"
	EventFollowUpSent       EventType = "invitation.follow_up_sent"
	EventAppreciationSent   EventType = "invitation.appreciation_sent"

	// Engagement events
	EventEngagementWarning EventType = "engagement.warning_raised"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Directory Events
// ═══════════════════════════════════════════════════════════════════════════

// ProfileRegisteredEvent is emitted when a stakeholder joins the
// directory. Subscribers send the welcome/confirmation email off it.
type ProfileRegisteredEvent struct {
	BaseEvent
	ProfileID string   `json:"profile_id"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// Payload implements Event interface.
func (e ProfileRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"profile_id": e.ProfileID,
		"full_name":  e.FullName,
		"email":      e.Email,
		"roles":      e.Roles,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Program Events
// ═══════════════════════════════════════════════════════════════════════════

// SubjectCreatedEvent is emitted when an event, lecture, or competition
// is created by an organizer. It carries the target skill/topic set the
// invitation selector matched against.
type SubjectCreatedEvent struct {
	BaseEvent
	SubjectType    string   `json:"subject_type"`
	Title          string   `json:"title"`
	OrganizerID    string   `json:"organizer_id"`
	OrganizerName  string   `json:"organizer_name"`
	RequiredSkills []string `json:"required_skills"`
}

// Payload implements Event interface.
func (e SubjectCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"subject_type":    e.SubjectType,
		"title":           e.Title,
		"organizer_id":    e.OrganizerID,
		"organizer_name":  e.OrganizerName,
		"required_skills": e.RequiredSkills,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Invitation Events
// ═══════════════════════════════════════════════════════════════════════════

// InvitationCreatedEvent is emitted once per (recipient, subject) pair when
// the selector clears a candidate for invitation.
type InvitationCreatedEvent struct {
	BaseEvent
	InvitationID   string   `json:"invitation_id"`
	RecipientID    string   `json:"recipient_id"`
	RecipientName  string   `json:"recipient_name"`
	RecipientEmail string   `json:"recipient_email"`
	SubjectType    string   `json:"subject_type"`
	SubjectID      string   `json:"subject_id"`
	SubjectTitle   string   `json:"subject_title"`
	MatchedTerms   []string `json:"matched_terms"`
	MatchReason    string   `json:"match_reason"`
	MatchScore     int      `json:"match_score"`
}

// Payload implements Event interface.
func (e InvitationCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"invitation_id":   e.InvitationID,
		"recipient_id":    e.RecipientID,
		"recipient_name":  e.RecipientName,
		"recipient_email": e.RecipientEmail,
		"subject_type":    e.SubjectType,
		"subject_id":      e.SubjectID,
		"subject_title":   e.SubjectTitle,
		"matched_terms":   e.MatchedTerms,
		"match_reason":    e.MatchReason,
		"match_score":     e.MatchScore,
	}
}

// InvitationRespondedEvent is emitted on the terminal pending → accepted
// or pending → declined transition.
type InvitationRespondedEvent struct {
	BaseEvent
	InvitationID string `json:"invitation_id"`
	RecipientID  string `json:"recipient_id"`
	SubjectID    string `json:"subject_id"`
	Accepted     bool   `json:"accepted"`
}

// Payload implements Event interface.
func (e InvitationRespondedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"invitation_id": e.InvitationID,
		"recipient_id":  e.RecipientID,
		"subject_id":    e.SubjectID,
		"accepted":      e.Accepted,
	}
}

// FollowUpSentEvent is emitted when a reminder goes out for a pending invitation.
type FollowUpSentEvent struct {
	BaseEvent
	InvitationID  string `json:"invitation_id"`
	RecipientID   string `json:"recipient_id"`
	FollowUpCount int    `json:"follow_up_count"`
}

// Payload implements Event interface.
func (e FollowUpSentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"invitation_id":   e.InvitationID,
		"recipient_id":    e.RecipientID,
		"follow_up_count": e.FollowUpCount,
	}
}

// AppreciationSentEvent is emitted when a thank-you email goes out to a
// stakeholder who served at a concluded event, lecture, or competition.
type AppreciationSentEvent struct {
	BaseEvent
	InvitationID string `json:"invitation_id"`
	RecipientID  string `json:"recipient_id"`
	SubjectID    string `json:"subject_id"`
	SubjectTitle string `json:"subject_title"`
}

// Payload implements Event interface.
func (e AppreciationSentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"invitation_id": e.InvitationID,
		"recipient_id":  e.RecipientID,
		"subject_id":    e.SubjectID,
		"subject_title": e.SubjectTitle,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Engagement Events
// ═══════════════════════════════════════════════════════════════════════════

// EngagementWarningEvent is emitted when the health monitor detects a
// sustained decline. The warning itself is never persisted; this event
// lets subscribers (admin alerting) react to the computation.
type EngagementWarningEvent struct {
	BaseEvent
	Level       string   `json:"level"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	LatestValue float64  `json:"latest_value"`
	Period      string   `json:"period"`
}

// Payload implements Event interface.
func (e EngagementWarningEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"level":        e.Level,
		"message":      e.Message,
		"suggestions":  e.Suggestions,
		"latest_value": e.LatestValue,
		"period":       e.Period,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler processes a single domain event.
type EventHandler func(ctx context.Context, event Event) error

// EventPublisher publishes domain events.
type EventPublisher interface {
	// Publish publishes an event to all subscribed handlers.
	Publish(ctx context.Context, event Event) error

	// PublishBatch publishes multiple events.
	PublishBatch(ctx context.Context, events []Event) error
}

// EventSubscriber subscribes handlers to events.
type EventSubscriber interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber

	// Close shuts down the event bus gracefully.
	Close() error
}
