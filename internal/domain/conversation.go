package domain

import (
	"fmt"
	"time"
)

// MessageRole identifies who authored a coaching message.
type MessageRole string

const (
	RoleUser   MessageRole = "user"
	RoleCoach  MessageRole = "coach"
	RoleSystem MessageRole = "system"
)

// CheckInType distinguishes why a check-in was created.
type CheckInType string

const (
	CheckInProactive CheckInType = "proactive"
	CheckInScheduled CheckInType = "scheduled"
)

// CheckInStatus is the one-way resolution state of a check-in.
type CheckInStatus string

const (
	CheckInPending   CheckInStatus = "pending"
	CheckInResponded CheckInStatus = "responded"
	CheckInDismissed CheckInStatus = "dismissed"
)

// CoachAction is a directive the AI coach emitted. Actions are not
// applied to the conversation itself; each one is dispatched as a
// domain event for other subsystems to consume.
type CoachAction struct {
	Type    CoachActionType `bson:"type" json:"type"`
	Details string          `bson:"details,omitempty" json:"details,omitempty"`
}

// CoachingMessage is immutable once appended to the conversation.
type CoachingMessage struct {
	ID        string        `bson:"id" json:"id"`
	Role      MessageRole   `bson:"role" json:"role"`
	Content   string        `bson:"content" json:"content"`
	Timestamp time.Time     `bson:"timestamp" json:"timestamp"`
	Actions   []CoachAction `bson:"actions,omitempty" json:"actions,omitempty"`
}

// CheckIn is a coach-initiated question awaiting a one-time response.
// Resolution is one-way: pending -> responded | dismissed.
type CheckIn struct {
	ID             string        `bson:"id" json:"id"`
	Type           CheckInType   `bson:"type" json:"type"`
	Question       string        `bson:"question" json:"question"`
	TriggeredBy    string        `bson:"triggeredBy,omitempty" json:"triggeredBy,omitempty"`
	Status         CheckInStatus `bson:"status" json:"status"`
	UserResponse   string        `bson:"userResponse,omitempty" json:"userResponse,omitempty"`
	CoachAnalysis  string        `bson:"coachAnalysis,omitempty" json:"coachAnalysis,omitempty"`
	Actions        []CoachAction `bson:"actions,omitempty" json:"actions,omitempty"`
	MediaObjectKey string        `bson:"mediaObjectKey,omitempty" json:"mediaObjectKey,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	RespondedAt    *time.Time    `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
}

// CoachingConversation is the per-user aggregate holding the message
// timeline and check-ins. One conversation exists per user; it is
// mutated only through the command methods below, each of which
// returns a new value and leaves the receiver untouched.
type CoachingConversation struct {
	ID       string            `bson:"_id,omitempty" json:"id"`
	UserID   string            `bson:"userId" json:"userId"`
	Context  CoachingContext   `bson:"context" json:"context"`
	Messages []CoachingMessage `bson:"messages" json:"messages"`
	CheckIns []CheckIn         `bson:"checkIns" json:"checkIns"`

	TotalMessages      int `bson:"totalMessages" json:"totalMessages"`
	TotalUserMessages  int `bson:"totalUserMessages" json:"totalUserMessages"`
	TotalCoachMessages int `bson:"totalCoachMessages" json:"totalCoachMessages"`
	TotalCheckIns      int `bson:"totalCheckIns" json:"totalCheckIns"`
	PendingCheckIns    int `bson:"pendingCheckIns" json:"pendingCheckIns"`

	StartedAt           time.Time  `bson:"startedAt" json:"startedAt"`
	LastMessageAt       *time.Time `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	LastContextUpdateAt *time.Time `bson:"lastContextUpdateAt,omitempty" json:"lastContextUpdateAt,omitempty"`

	// Version guards load-modify-save races. Repositories reject a
	// save whose version does not follow the stored one.
	Version int64 `bson:"version" json:"version"`
}

// NewCoachingConversation starts the conversation for a user. It is
// created on the user's first message and never deleted by this core.
func NewCoachingConversation(id, userID string, now time.Time) CoachingConversation {
	return CoachingConversation{
		ID:        id,
		UserID:    userID,
		StartedAt: now,
	}
}

// CheckInByID returns the check-in with the given id, if present.
func (c CoachingConversation) CheckInByID(checkInID string) (CheckIn, bool) {
	for _, ci := range c.CheckIns {
		if ci.ID == checkInID {
			return ci, true
		}
	}
	return CheckIn{}, false
}

// AppendMessage returns the conversation with msg appended and the
// counters and lastMessageAt updated.
func (c CoachingConversation) AppendMessage(msg CoachingMessage) (CoachingConversation, error) {
	if msg.ID == "" {
		return c, NewError(KindValidation, "message id is required")
	}
	switch msg.Role {
	case RoleUser, RoleCoach, RoleSystem:
	default:
		return c, NewError(KindValidation, fmt.Sprintf("unknown message role %q", msg.Role))
	}

	next := c
	next.Messages = append(append([]CoachingMessage(nil), c.Messages...), msg)
	next.TotalMessages++
	switch msg.Role {
	case RoleUser:
		next.TotalUserMessages++
	case RoleCoach:
		next.TotalCoachMessages++
	}
	ts := msg.Timestamp
	next.LastMessageAt = &ts
	return next, nil
}

// AddCheckIn returns the conversation with a new pending check-in.
func (c CoachingConversation) AddCheckIn(checkIn CheckIn) (CoachingConversation, error) {
	if checkIn.ID == "" {
		return c, NewError(KindValidation, "check-in id is required")
	}
	if _, ok := c.CheckInByID(checkIn.ID); ok {
		return c, NewError(KindConflict, fmt.Sprintf("check-in %s already exists", checkIn.ID))
	}
	checkIn.Status = CheckInPending

	next := c
	next.CheckIns = append(append([]CheckIn(nil), c.CheckIns...), checkIn)
	next.TotalCheckIns++
	next.PendingCheckIns++
	return next, nil
}

// RespondToCheckIn resolves a pending check-in with the user's answer
// and the AI-derived analysis and actions. Resolution happens exactly
// once; a second call fails with AlreadyResolved and leaves the
// conversation unchanged. Messages are untouched.
func (c CoachingConversation) RespondToCheckIn(
	checkInID, userResponse, analysis string,
	actions []CoachAction,
	mediaObjectKey string,
	now time.Time,
) (CoachingConversation, error) {
	idx := -1
	for i, ci := range c.CheckIns {
		if ci.ID == checkInID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrCheckInNotFound
	}
	if c.CheckIns[idx].Status != CheckInPending {
		return c, ErrCheckInResolved
	}

	next := c
	next.CheckIns = append([]CheckIn(nil), c.CheckIns...)
	ci := next.CheckIns[idx]
	ci.Status = CheckInResponded
	ci.UserResponse = userResponse
	ci.CoachAnalysis = analysis
	ci.Actions = actions
	ci.MediaObjectKey = mediaObjectKey
	respondedAt := now
	ci.RespondedAt = &respondedAt
	next.CheckIns[idx] = ci
	next.PendingCheckIns--
	return next, nil
}

// DismissCheckIn resolves a pending check-in without an answer.
func (c CoachingConversation) DismissCheckIn(checkInID string, now time.Time) (CoachingConversation, error) {
	idx := -1
	for i, ci := range c.CheckIns {
		if ci.ID == checkInID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrCheckInNotFound
	}
	if c.CheckIns[idx].Status != CheckInPending {
		return c, ErrCheckInResolved
	}

	next := c
	next.CheckIns = append([]CheckIn(nil), c.CheckIns...)
	ci := next.CheckIns[idx]
	ci.Status = CheckInDismissed
	dismissedAt := now
	ci.RespondedAt = &dismissedAt
	next.CheckIns[idx] = ci
	next.PendingCheckIns--
	return next, nil
}

// UpdateContext replaces the coaching context snapshot.
func (c CoachingConversation) UpdateContext(ctx CoachingContext, now time.Time) CoachingConversation {
	next := c
	next.Context = ctx
	updatedAt := now
	next.LastContextUpdateAt = &updatedAt
	return next
}

// CountPendingCheckIns derives the pending count from the check-in
// statuses. The stored PendingCheckIns counter must always equal it.
func (c CoachingConversation) CountPendingCheckIns() int {
	n := 0
	for _, ci := range c.CheckIns {
		if ci.Status == CheckInPending {
			n++
		}
	}
	return n
}

// ActionsApplied sums the action lists across all messages and
// check-ins, a diagnostic used by the history read.
func (c CoachingConversation) ActionsApplied() int {
	n := 0
	for _, m := range c.Messages {
		n += len(m.Actions)
	}
	for _, ci := range c.CheckIns {
		n += len(ci.Actions)
	}
	return n
}

// RecentMessages returns the last limit messages in original order.
// It never mutates the stored timeline.
func (c CoachingConversation) RecentMessages(limit int) []CoachingMessage {
	if limit <= 0 || limit >= len(c.Messages) {
		return append([]CoachingMessage(nil), c.Messages...)
	}
	return append([]CoachingMessage(nil), c.Messages[len(c.Messages)-limit:]...)
}
