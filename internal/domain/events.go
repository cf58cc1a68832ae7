package domain

import (
	"fmt"
	"time"
)

// EventType identifies domain events published on the bus.
type EventType string

const (
	EventCheckInCreated         EventType = "CheckInCreated"
	EventCheckInResponded       EventType = "CheckInResponded"
	EventCheckInDismissed       EventType = "CheckInDismissed"
	EventCoachMessageSent       EventType = "CoachMessageSent"
	EventWeeklySummaryGenerated EventType = "WeeklySummaryGenerated"
	EventPlanGenerated          EventType = "PlanGenerated"
	EventPlanActivated          EventType = "PlanActivated"
	EventPlanPaused             EventType = "PlanPaused"
	EventPlanCompleted          EventType = "PlanCompleted"
	EventPlanAbandoned          EventType = "PlanAbandoned"
	EventPlanAdjusted           EventType = "PlanAdjusted"
	EventWorkoutRecorded        EventType = "WorkoutRecorded"

	// Coach action events, one per registered action kind.
	EventCoachAdjustPlan          EventType = "CoachAdjustPlan"
	EventCoachMaintainCurrentPlan EventType = "CoachMaintainCurrentPlan"
	EventCoachScheduleCheckIn     EventType = "CoachScheduleCheckIn"
	EventCoachSuggestRecovery     EventType = "CoachSuggestRecovery"
	EventCoachCelebrateMilestone  EventType = "CoachCelebrateMilestone"
)

// AllEventTypes lists every event type published by this core, for
// subscribers that want the full stream.
func AllEventTypes() []EventType {
	return []EventType{
		EventCheckInCreated,
		EventCheckInResponded,
		EventCheckInDismissed,
		EventCoachMessageSent,
		EventWeeklySummaryGenerated,
		EventPlanGenerated,
		EventPlanActivated,
		EventPlanPaused,
		EventPlanCompleted,
		EventPlanAbandoned,
		EventPlanAdjusted,
		EventWorkoutRecorded,
		EventCoachAdjustPlan,
		EventCoachMaintainCurrentPlan,
		EventCoachScheduleCheckIn,
		EventCoachSuggestRecovery,
		EventCoachCelebrateMilestone,
	}
}

// CoachActionType enumerates the action kinds the AI coach may emit.
// The set is closed: unregistered kinds have no event mapping and are
// rejected by EventForCoachAction.
type CoachActionType string

const (
	ActionAdjustPlan          CoachActionType = "adjust_plan"
	ActionMaintainCurrentPlan CoachActionType = "maintain_current_plan"
	ActionScheduleCheckIn     CoachActionType = "schedule_check_in"
	ActionSuggestRecovery     CoachActionType = "suggest_recovery"
	ActionCelebrateMilestone  CoachActionType = "celebrate_milestone"
)

var coachActionEvents = map[CoachActionType]EventType{
	ActionAdjustPlan:          EventCoachAdjustPlan,
	ActionMaintainCurrentPlan: EventCoachMaintainCurrentPlan,
	ActionScheduleCheckIn:     EventCoachScheduleCheckIn,
	ActionSuggestRecovery:     EventCoachSuggestRecovery,
	ActionCelebrateMilestone:  EventCoachCelebrateMilestone,
}

// Valid reports whether t is a registered action kind.
func (t CoachActionType) Valid() bool {
	_, ok := coachActionEvents[t]
	return ok
}

// Event is an advisory notification published after a successful
// mutation. It is not the source of truth for aggregate state; that is
// always recoverable from the repositories.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`

	// Context, at most a few set per event type.
	ConversationID string `json:"conversationId,omitempty"`
	CheckInID      string `json:"checkInId,omitempty"`
	PlanID         string `json:"planId,omitempty"`
	WorkoutID      string `json:"workoutId,omitempty"`

	ActionsApplied int        `json:"actionsApplied,omitempty"`
	Details        string     `json:"details,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	Adjustments    []string   `json:"adjustments,omitempty"`
}

// NewCheckInRespondedEvent is published once a check-in response is
// persisted.
func NewCheckInRespondedEvent(userID, conversationID, checkInID string, actionsApplied int, now time.Time) Event {
	return Event{
		Type:           EventCheckInResponded,
		UserID:         userID,
		Timestamp:      now,
		ConversationID: conversationID,
		CheckInID:      checkInID,
		ActionsApplied: actionsApplied,
	}
}

// NewCheckInCreatedEvent is published when a new check-in is posed.
func NewCheckInCreatedEvent(userID, conversationID, checkInID string, now time.Time) Event {
	return Event{
		Type:           EventCheckInCreated,
		UserID:         userID,
		Timestamp:      now,
		ConversationID: conversationID,
		CheckInID:      checkInID,
	}
}

// NewCheckInDismissedEvent is published when a check-in is dismissed.
func NewCheckInDismissedEvent(userID, conversationID, checkInID string, now time.Time) Event {
	return Event{
		Type:           EventCheckInDismissed,
		UserID:         userID,
		Timestamp:      now,
		ConversationID: conversationID,
		CheckInID:      checkInID,
	}
}

// NewCoachMessageSentEvent is published after the coach replies.
func NewCoachMessageSentEvent(userID, conversationID string, actionsApplied int, now time.Time) Event {
	return Event{
		Type:           EventCoachMessageSent,
		UserID:         userID,
		Timestamp:      now,
		ConversationID: conversationID,
		ActionsApplied: actionsApplied,
	}
}

// NewWeeklySummaryGeneratedEvent is published after a summary message
// is appended to the conversation.
func NewWeeklySummaryGeneratedEvent(userID, conversationID string, now time.Time) Event {
	return Event{
		Type:           EventWeeklySummaryGenerated,
		UserID:         userID,
		Timestamp:      now,
		ConversationID: conversationID,
	}
}

// NewPlanGeneratedEvent is published when a draft plan is persisted.
func NewPlanGeneratedEvent(userID, planID string, now time.Time) Event {
	return Event{Type: EventPlanGenerated, UserID: userID, Timestamp: now, PlanID: planID}
}

// NewPlanActivatedEvent carries the resolved start date.
func NewPlanActivatedEvent(userID, planID string, startDate time.Time, now time.Time) Event {
	return Event{
		Type:      EventPlanActivated,
		UserID:    userID,
		Timestamp: now,
		PlanID:    planID,
		StartDate: &startDate,
	}
}

// NewPlanPausedEvent carries the optional human-readable reason.
func NewPlanPausedEvent(userID, planID, reason string, now time.Time) Event {
	return Event{Type: EventPlanPaused, UserID: userID, Timestamp: now, PlanID: planID, Reason: reason}
}

// NewPlanCompletedEvent is published on the completed transition.
func NewPlanCompletedEvent(userID, planID string, now time.Time) Event {
	return Event{Type: EventPlanCompleted, UserID: userID, Timestamp: now, PlanID: planID}
}

// NewPlanAbandonedEvent is published on the abandoned transition.
func NewPlanAbandonedEvent(userID, planID, reason string, now time.Time) Event {
	return Event{Type: EventPlanAbandoned, UserID: userID, Timestamp: now, PlanID: planID, Reason: reason}
}

// NewPlanAdjustedEvent carries the computed adjustment summary.
func NewPlanAdjustedEvent(userID, planID string, adjustments []string, now time.Time) Event {
	return Event{
		Type:        EventPlanAdjusted,
		UserID:      userID,
		Timestamp:   now,
		PlanID:      planID,
		Adjustments: adjustments,
	}
}

// NewWorkoutRecordedEvent is published when a workout result lands.
func NewWorkoutRecordedEvent(userID, planID, workoutID string, now time.Time) Event {
	return Event{
		Type:      EventWorkoutRecorded,
		UserID:    userID,
		Timestamp: now,
		PlanID:    planID,
		WorkoutID: workoutID,
	}
}

// EventForCoachAction maps a coach action to its event. Unregistered
// action kinds yield an error so that typo'd or unknown kinds never
// reach the bus.
func EventForCoachAction(userID string, action CoachAction, now time.Time) (Event, error) {
	eventType, ok := coachActionEvents[action.Type]
	if !ok {
		return Event{}, NewError(KindValidation,
			fmt.Sprintf("unregistered coach action type %q", action.Type))
	}
	return Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: now,
		Details:   action.Details,
	}, nil
}
