package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func pendingCheckIn(id string) CheckIn {
	return CheckIn{
		ID:        id,
		Type:      CheckInProactive,
		Question:  "How did the last session go?",
		CreatedAt: testNow,
	}
}

func TestConversation_AppendMessage_Counters(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)

	conv, err := conv.AppendMessage(CoachingMessage{ID: "m1", Role: RoleUser, Content: "hi", Timestamp: testNow})
	require.NoError(t, err)
	conv, err = conv.AppendMessage(CoachingMessage{ID: "m2", Role: RoleCoach, Content: "hello", Timestamp: testNow.Add(time.Minute)})
	require.NoError(t, err)
	conv, err = conv.AppendMessage(CoachingMessage{ID: "m3", Role: RoleSystem, Content: "weekly summary", Timestamp: testNow.Add(2 * time.Minute)})
	require.NoError(t, err)

	require.Equal(t, 3, conv.TotalMessages)
	require.Equal(t, 1, conv.TotalUserMessages)
	require.Equal(t, 1, conv.TotalCoachMessages)
	require.NotNil(t, conv.LastMessageAt)
	require.Equal(t, testNow.Add(2*time.Minute), *conv.LastMessageAt)
}

func TestConversation_AppendMessage_RejectsUnknownRole(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)

	_, err := conv.AppendMessage(CoachingMessage{ID: "m1", Role: "moderator", Content: "hi", Timestamp: testNow})
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidation))
}

func TestConversation_AppendMessage_DoesNotMutateReceiver(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	conv, err := conv.AppendMessage(CoachingMessage{ID: "m1", Role: RoleUser, Content: "hi", Timestamp: testNow})
	require.NoError(t, err)

	next, err := conv.AppendMessage(CoachingMessage{ID: "m2", Role: RoleCoach, Content: "hello", Timestamp: testNow})
	require.NoError(t, err)

	require.Len(t, conv.Messages, 1, "receiver must be untouched")
	require.Len(t, next.Messages, 2)
}

func TestConversation_RespondToCheckIn(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	conv, err := conv.AddCheckIn(pendingCheckIn("checkin-456"))
	require.NoError(t, err)
	require.Equal(t, 1, conv.PendingCheckIns)

	actions := []CoachAction{{Type: ActionSuggestRecovery, Details: "take a rest day"}}
	responded, err := conv.RespondToCheckIn("checkin-456", "felt exhausted", "fatigue detected", actions, "", testNow.Add(time.Hour))
	require.NoError(t, err)

	ci, ok := responded.CheckInByID("checkin-456")
	require.True(t, ok)
	require.Equal(t, CheckInResponded, ci.Status)
	require.Equal(t, "felt exhausted", ci.UserResponse)
	require.Equal(t, "fatigue detected", ci.CoachAnalysis)
	require.Equal(t, actions, ci.Actions)
	require.NotNil(t, ci.RespondedAt)
	require.Equal(t, 0, responded.PendingCheckIns)
	require.Equal(t, responded.CountPendingCheckIns(), responded.PendingCheckIns)

	// Messages are untouched by check-in resolution.
	require.Equal(t, conv.TotalMessages, responded.TotalMessages)
	require.Len(t, responded.Messages, len(conv.Messages))
}

func TestConversation_RespondToCheckIn_AlreadyResolved(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	conv, err := conv.AddCheckIn(pendingCheckIn("checkin-456"))
	require.NoError(t, err)

	responded, err := conv.RespondToCheckIn("checkin-456", "ok", "fine", nil, "", testNow)
	require.NoError(t, err)

	again, err := responded.RespondToCheckIn("checkin-456", "changed my mind", "other", nil, "", testNow)
	require.Error(t, err)
	require.True(t, IsKind(err, KindAlreadyResolved))
	require.EqualError(t, err, "Check-in already responded to")

	// The failed call returns the conversation unchanged.
	ci, _ := again.CheckInByID("checkin-456")
	require.Equal(t, "ok", ci.UserResponse)
	require.Equal(t, responded.PendingCheckIns, again.PendingCheckIns)
}

func TestConversation_RespondToCheckIn_NotFound(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)

	_, err := conv.RespondToCheckIn("missing", "ok", "fine", nil, "", testNow)
	require.ErrorIs(t, err, ErrCheckInNotFound)
	require.True(t, IsKind(err, KindNotFound))
}

func TestConversation_DismissCheckIn(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	conv, err := conv.AddCheckIn(pendingCheckIn("ci-1"))
	require.NoError(t, err)

	dismissed, err := conv.DismissCheckIn("ci-1", testNow)
	require.NoError(t, err)

	ci, _ := dismissed.CheckInByID("ci-1")
	require.Equal(t, CheckInDismissed, ci.Status)
	require.Equal(t, 0, dismissed.PendingCheckIns)

	_, err = dismissed.DismissCheckIn("ci-1", testNow)
	require.True(t, IsKind(err, KindAlreadyResolved))
}

func TestConversation_AddCheckIn_DuplicateID(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	conv, err := conv.AddCheckIn(pendingCheckIn("ci-1"))
	require.NoError(t, err)

	_, err = conv.AddCheckIn(pendingCheckIn("ci-1"))
	require.True(t, IsKind(err, KindConflict))
}

func TestConversation_RecentMessages(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	var err error
	ids := []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"}
	for i, id := range ids {
		conv, err = conv.AppendMessage(CoachingMessage{
			ID:        id,
			Role:      RoleUser,
			Content:   id,
			Timestamp: testNow.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	recent := conv.RecentMessages(5)
	require.Len(t, recent, 5)
	require.Equal(t, "m3", recent[0].ID, "oldest of the window comes first")
	require.Equal(t, "m7", recent[4].ID)
	require.Len(t, conv.Messages, 7, "full timeline stays intact")

	require.Len(t, conv.RecentMessages(50), 7)
}

func TestConversation_ActionsApplied(t *testing.T) {
	conv := NewCoachingConversation("conv-1", "user-1", testNow)
	conv, err := conv.AppendMessage(CoachingMessage{
		ID: "m1", Role: RoleCoach, Content: "plan tweak", Timestamp: testNow,
		Actions: []CoachAction{{Type: ActionAdjustPlan}, {Type: ActionScheduleCheckIn}},
	})
	require.NoError(t, err)
	conv, err = conv.AddCheckIn(pendingCheckIn("ci-1"))
	require.NoError(t, err)
	conv, err = conv.RespondToCheckIn("ci-1", "tired", "fatigue",
		[]CoachAction{{Type: ActionSuggestRecovery}}, "", testNow)
	require.NoError(t, err)

	require.Equal(t, 3, conv.ActionsApplied())
}

// The stored pending counter must track the derived count through any
// command sequence.
func TestConversation_PendingCounterInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		conv := NewCoachingConversation("conv-1", "user-1", testNow)
		ids := make([]string, 0)

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				id := rapid.StringMatching(`ci-[0-9]{1,4}`).Draw(t, "id")
				next, err := conv.AddCheckIn(pendingCheckIn(id))
				if err == nil {
					conv = next
					ids = append(ids, id)
				}
			case 1:
				if len(ids) == 0 {
					continue
				}
				id := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "respond")]
				if next, err := conv.RespondToCheckIn(id, "r", "a", nil, "", testNow); err == nil {
					conv = next
				}
			case 2:
				if len(ids) == 0 {
					continue
				}
				id := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "dismiss")]
				if next, err := conv.DismissCheckIn(id, testNow); err == nil {
					conv = next
				}
			}
			require.Equal(t, conv.CountPendingCheckIns(), conv.PendingCheckIns)
			require.Equal(t, len(conv.CheckIns), conv.TotalCheckIns)
		}
	})
}
