package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/coaching-app/internal/ai"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

func setupPlans(t *testing.T, mock *ai.Mock) (*planService, *memory.PlanStore, *recordingBus) {
	t.Helper()
	store := memory.NewPlanStore()
	bus := &recordingBus{}
	svc := NewPlanService(store, mock, bus).(*planService)
	svc.now = func() time.Time { return testNow }
	return svc, store, bus
}

// seedDraftPlan stores a two-week draft with a workout on Monday, the
// weekday of testNow.
func seedDraftPlan(t *testing.T, store *memory.PlanStore, planID, userID string) {
	t.Helper()
	plan := domain.WorkoutPlan{
		ID:     planID,
		UserID: userID,
		Status: domain.PlanDraft,
		Goals:  domain.PlanGoals{Primary: "strength"},
		Weeks: []domain.PlanWeek{
			{
				Number: 1,
				Workouts: []domain.PlannedWorkout{
					{ID: "w1", Name: "Upper Body", DayOfWeek: time.Monday, Status: domain.WorkoutScheduled, DurationMin: 45},
					{ID: "w2", Name: "Lower Body", DayOfWeek: time.Thursday, Status: domain.WorkoutScheduled, DurationMin: 45},
				},
			},
			{
				Number: 2,
				Workouts: []domain.PlannedWorkout{
					{ID: "w3", Name: "Full Body", DayOfWeek: time.Monday, Status: domain.WorkoutScheduled, DurationMin: 60},
				},
			},
		},
		Summary:   domain.PlanSummary{Total: 3},
		CreatedAt: testNow.Add(-time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), &plan))
}

func TestPlanService_ActivatePlan(t *testing.T) {
	svc, store, bus := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")

	resp, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{
		UserID: "user-123",
		PlanID: "plan-1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PlanActive, resp.Status)
	require.Equal(t, testNow, resp.StartDate)
	require.NotNil(t, resp.TodaysWorkout, "Monday start with a Monday workout")
	require.Equal(t, "w1", resp.TodaysWorkout.ID)

	stored, err := store.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanActive, stored.Status)
	require.Equal(t, int64(2), stored.Version)

	types := bus.types()
	require.Equal(t, []domain.EventType{domain.EventPlanActivated}, types)
	require.NotNil(t, bus.published()[0].StartDate)
	require.Equal(t, testNow, *bus.published()[0].StartDate)
}

func TestPlanService_ActivatePlan_NoWorkoutToday(t *testing.T) {
	svc, store, _ := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")

	// A Tuesday start finds nothing scheduled that day.
	tuesday := testNow.Add(24 * time.Hour)
	resp, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{
		UserID:    "user-123",
		PlanID:    "plan-1",
		StartDate: &tuesday,
	})
	require.NoError(t, err)
	require.Nil(t, resp.TodaysWorkout)
}

func TestPlanService_ActivatePlan_SecondActivePlanConflicts(t *testing.T) {
	svc, store, _ := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")
	seedDraftPlan(t, store, "plan-2", "user-123")

	_, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.NoError(t, err)

	_, err = svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-2"})
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.KindConflict))

	stored, err := store.FindByID(context.Background(), "plan-2")
	require.NoError(t, err)
	require.Equal(t, domain.PlanDraft, stored.Status, "the rejected plan stays a draft")
}

func TestPlanService_OwnershipGuard(t *testing.T) {
	svc, store, bus := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")

	_, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{
		UserID: "intruder",
		PlanID: "plan-1",
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	require.True(t, domain.IsKind(err, domain.KindNotAuthorized))

	stored, err := store.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanDraft, stored.Status, "no mutation on an authorization failure")
	require.Equal(t, int64(1), stored.Version)
	require.Empty(t, bus.published(), "no events on an authorization failure")
}

func TestPlanService_GeneratePlan(t *testing.T) {
	mock := ai.NewMock()
	svc, store, bus := setupPlans(t, mock)

	plan, err := svc.GeneratePlan(context.Background(), GeneratePlanRequest{
		UserID: "user-123",
		Goals:  domain.PlanGoals{Primary: "hypertrophy", WeeklySessions: 3},
	})
	require.NoError(t, err)
	require.NotEmpty(t, plan.ID)
	require.Equal(t, domain.PlanDraft, plan.Status)
	require.Equal(t, "hypertrophy", plan.Goals.Primary)
	require.Equal(t, int64(1), plan.Version)

	stored, err := store.FindByID(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Equal(t, plan.ID, stored.ID)
	require.Equal(t, []domain.EventType{domain.EventPlanGenerated}, bus.types())
}

func TestPlanService_GeneratePlan_AIFailure(t *testing.T) {
	mock := ai.NewMock()
	mock.GeneratePlanFunc = func(ctx context.Context, in ai.GeneratePlanInput) (*domain.WorkoutPlan, error) {
		return nil, domain.NewError(domain.KindExternalServiceFailure, "model returned malformed plan")
	}
	svc, store, bus := setupPlans(t, mock)

	_, err := svc.GeneratePlan(context.Background(), GeneratePlanRequest{UserID: "user-123"})
	require.True(t, domain.IsKind(err, domain.KindExternalServiceFailure))

	plans, err := store.FindByUserID(context.Background(), "user-123")
	require.NoError(t, err)
	require.Empty(t, plans)
	require.Empty(t, bus.published())
}

func TestPlanService_PauseAndCompleteLifecycle(t *testing.T) {
	svc, store, bus := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")

	_, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.NoError(t, err)

	paused, err := svc.PausePlan(context.Background(), PausePlanRequest{
		UserID: "user-123", PlanID: "plan-1", Reason: "holiday",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PlanPaused, paused.Status)
	require.Equal(t, "holiday", paused.PauseReason)

	_, err = svc.CompletePlan(context.Background(), "user-123", "plan-1")
	require.True(t, domain.IsKind(err, domain.KindInvalidStateTransition), "only active plans complete")

	resumed, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.NoError(t, err)
	require.Equal(t, domain.PlanActive, resumed.Status)

	completed, err := svc.CompletePlan(context.Background(), "user-123", "plan-1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanCompleted, completed.Status)
	require.Equal(t, int64(5), completed.Version)

	require.Equal(t, []domain.EventType{
		domain.EventPlanActivated,
		domain.EventPlanPaused,
		domain.EventPlanActivated,
		domain.EventPlanCompleted,
	}, bus.types())
}

func TestPlanService_AbandonPlan(t *testing.T) {
	svc, store, bus := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")

	abandoned, err := svc.AbandonPlan(context.Background(), "user-123", "plan-1", "switching sports")
	require.NoError(t, err)
	require.Equal(t, domain.PlanAbandoned, abandoned.Status)

	_, err = svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.True(t, domain.IsKind(err, domain.KindInvalidStateTransition))

	require.Equal(t, []domain.EventType{domain.EventPlanAbandoned}, bus.types())

	stored, err := store.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, "switching sports", stored.PauseReason)
}

func TestPlanService_AdjustPlanBasedOnFeedback(t *testing.T) {
	mock := ai.NewMock()
	mock.AdjustPlanFunc = func(ctx context.Context, in ai.AdjustPlanInput) (*domain.WorkoutPlan, error) {
		require.Equal(t, "sessions feel too long", in.Feedback)
		adjusted := in.CurrentPlan
		adjusted.Weeks = append([]domain.PlanWeek(nil), in.CurrentPlan.Weeks...)
		week := adjusted.Weeks[0]
		week.Workouts = append([]domain.PlannedWorkout(nil), week.Workouts...)
		week.Workouts[0].DurationMin = 30
		week.Workouts[1].DurationMin = 30
		adjusted.Weeks[0] = week
		return &adjusted, nil
	}
	svc, store, bus := setupPlans(t, mock)
	seedDraftPlan(t, store, "plan-1", "user-123")
	_, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.NoError(t, err)

	resp, err := svc.AdjustPlanBasedOnFeedback(context.Background(), AdjustPlanRequest{
		UserID:   "user-123",
		PlanID:   "plan-1",
		Feedback: "sessions feel too long",
	})
	require.NoError(t, err)
	require.Equal(t, "plan-1", resp.PlanID)
	require.Contains(t, resp.AdjustmentsMade, "week 1: 2 workout(s) modified")

	stored, err := store.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, 30, stored.Weeks[0].Workouts[0].DurationMin)
	require.Equal(t, int64(3), stored.Version)

	published := bus.published()
	require.Equal(t, domain.EventPlanAdjusted, published[len(published)-1].Type)
	require.Equal(t, resp.AdjustmentsMade, published[len(published)-1].Adjustments)
}

func TestPlanService_AdjustPlan_AIFailureIsWrapped(t *testing.T) {
	mock := ai.NewMock()
	mock.AdjustPlanFunc = func(ctx context.Context, in ai.AdjustPlanInput) (*domain.WorkoutPlan, error) {
		return nil, domain.NewError(domain.KindAITimeout, "model call timed out")
	}
	svc, store, bus := setupPlans(t, mock)
	seedDraftPlan(t, store, "plan-1", "user-123")

	_, err := svc.AdjustPlanBasedOnFeedback(context.Background(), AdjustPlanRequest{
		UserID: "user-123", PlanID: "plan-1", Feedback: "anything",
	})
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.KindAITimeout), "the timeout kind survives wrapping")
	require.Contains(t, err.Error(), "failed to adjust plan")

	stored, err := store.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.Version, "no save on AI failure")
	require.Empty(t, bus.published())
}

func TestPlanService_RecordWorkoutResult(t *testing.T) {
	svc, store, bus := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")
	_, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.NoError(t, err)

	resp, err := svc.RecordWorkoutResult(context.Background(), RecordWorkoutRequest{
		UserID:     "user-123",
		PlanID:     "plan-1",
		WeekNumber: 1,
		WorkoutID:  "w1",
		Status:     domain.WorkoutCompleted,
	})
	require.NoError(t, err)
	require.Equal(t, domain.PlanSummary{Completed: 1, Total: 3}, resp.Summary)

	stored, err := store.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, domain.WorkoutCompleted, stored.Weeks[0].Workouts[0].Status)

	published := bus.published()
	require.Equal(t, domain.EventWorkoutRecorded, published[len(published)-1].Type)
	require.Equal(t, "w1", published[len(published)-1].WorkoutID)
}

func TestPlanService_GetActivePlan(t *testing.T) {
	svc, store, _ := setupPlans(t, ai.NewMock())
	seedDraftPlan(t, store, "plan-1", "user-123")

	_, err := svc.GetActivePlan(context.Background(), "user-123")
	require.True(t, domain.IsKind(err, domain.KindNotFound), "a draft is not active")

	_, err = svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "plan-1"})
	require.NoError(t, err)

	plan, err := svc.GetActivePlan(context.Background(), "user-123")
	require.NoError(t, err)
	require.Equal(t, "plan-1", plan.ID)

	plans, err := svc.GetPlans(context.Background(), "user-123")
	require.NoError(t, err)
	require.Len(t, plans, 1)
}

func TestPlanService_PlanNotFound(t *testing.T) {
	svc, _, _ := setupPlans(t, ai.NewMock())

	_, err := svc.ActivatePlan(context.Background(), ActivatePlanRequest{UserID: "user-123", PlanID: "missing"})
	require.ErrorIs(t, err, domain.ErrPlanNotFound)
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}
