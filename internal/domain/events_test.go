package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventForCoachAction_RegisteredKinds(t *testing.T) {
	tests := []struct {
		action CoachActionType
		want   EventType
	}{
		{ActionAdjustPlan, EventCoachAdjustPlan},
		{ActionMaintainCurrentPlan, EventCoachMaintainCurrentPlan},
		{ActionScheduleCheckIn, EventCoachScheduleCheckIn},
		{ActionSuggestRecovery, EventCoachSuggestRecovery},
		{ActionCelebrateMilestone, EventCoachCelebrateMilestone},
	}
	for _, tt := range tests {
		event, err := EventForCoachAction("user-1", CoachAction{Type: tt.action, Details: "d"}, testNow)
		require.NoError(t, err)
		require.Equal(t, tt.want, event.Type)
		require.Equal(t, "user-1", event.UserID)
		require.Equal(t, "d", event.Details)
		require.Equal(t, testNow, event.Timestamp)
	}
}

func TestEventForCoachAction_UnregisteredKind(t *testing.T) {
	_, err := EventForCoachAction("user-1", CoachAction{Type: "summon_nutritionist"}, testNow)
	require.Error(t, err)
	require.False(t, CoachActionType("summon_nutritionist").Valid())
}

func TestNewCheckInRespondedEvent(t *testing.T) {
	event := NewCheckInRespondedEvent("user-1", "conv-1", "ci-1", 2, testNow)
	require.Equal(t, EventCheckInResponded, event.Type)
	require.Equal(t, "conv-1", event.ConversationID)
	require.Equal(t, "ci-1", event.CheckInID)
	require.Equal(t, 2, event.ActionsApplied)
}

func TestNewPlanAdjustedEvent(t *testing.T) {
	adjustments := []string{"week 1: 2 workout(s) modified"}
	event := NewPlanAdjustedEvent("user-1", "plan-1", adjustments, testNow)
	require.Equal(t, EventPlanAdjusted, event.Type)
	require.Equal(t, "plan-1", event.PlanID)
	require.Equal(t, adjustments, event.Adjustments)
}
