package ai

import (
	"context"
	"fmt"
	"time"

	"alcyxob/coaching-app/internal/domain"

	"github.com/google/uuid"
)

// Mock implements CoachService and PlanGenerator with canned replies.
// Tests override individual funcs to stub specific behavior; unset
// funcs fall back to a plausible default.
type Mock struct {
	GetResponseFunc             func(ctx context.Context, in GetResponseInput) (*CoachReply, error)
	GenerateCheckInQuestionFunc func(ctx context.Context, in CheckInQuestionInput) (string, error)
	AnalyzeCheckInResponseFunc  func(ctx context.Context, in AnalyzeCheckInInput) (*CheckInAnalysis, error)
	GenerateWeeklySummaryFunc   func(ctx context.Context, in WeeklySummaryInput) (*WeeklySummary, error)
	GeneratePlanFunc            func(ctx context.Context, in GeneratePlanInput) (*domain.WorkoutPlan, error)
	AdjustPlanFunc              func(ctx context.Context, in AdjustPlanInput) (*domain.WorkoutPlan, error)
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetResponse(ctx context.Context, in GetResponseInput) (*CoachReply, error) {
	if m.GetResponseFunc != nil {
		return m.GetResponseFunc(ctx, in)
	}
	return &CoachReply{
		Message: fmt.Sprintf("Noted: %q. Keep at it and tell me how the next session goes.", in.UserMessage),
	}, nil
}

func (m *Mock) GenerateCheckInQuestion(ctx context.Context, in CheckInQuestionInput) (string, error) {
	if m.GenerateCheckInQuestionFunc != nil {
		return m.GenerateCheckInQuestionFunc(ctx, in)
	}
	return "How are you feeling today?", nil
}

func (m *Mock) AnalyzeCheckInResponse(ctx context.Context, in AnalyzeCheckInInput) (*CheckInAnalysis, error) {
	if m.AnalyzeCheckInResponseFunc != nil {
		return m.AnalyzeCheckInResponseFunc(ctx, in)
	}
	return &CheckInAnalysis{Analysis: "neutral sentiment"}, nil
}

func (m *Mock) GenerateWeeklySummary(ctx context.Context, in WeeklySummaryInput) (*WeeklySummary, error) {
	if m.GenerateWeeklySummaryFunc != nil {
		return m.GenerateWeeklySummaryFunc(ctx, in)
	}
	return &WeeklySummary{Summary: "Steady week of training."}, nil
}

func (m *Mock) GeneratePlan(ctx context.Context, in GeneratePlanInput) (*domain.WorkoutPlan, error) {
	if m.GeneratePlanFunc != nil {
		return m.GeneratePlanFunc(ctx, in)
	}
	return &domain.WorkoutPlan{
		UserID: in.UserID,
		Status: domain.PlanDraft,
		Goals:  in.Goals,
		Weeks: []domain.PlanWeek{
			{
				Number: 1,
				Focus:  "foundation",
				Workouts: []domain.PlannedWorkout{
					{
						ID:        uuid.NewString(),
						Name:      "Full Body A",
						DayOfWeek: time.Monday,
						Status:    domain.WorkoutScheduled,
					},
				},
			},
		},
		Summary:     domain.PlanSummary{Total: 1},
		Constraints: in.Constraints,
	}, nil
}

func (m *Mock) AdjustPlan(ctx context.Context, in AdjustPlanInput) (*domain.WorkoutPlan, error) {
	if m.AdjustPlanFunc != nil {
		return m.AdjustPlanFunc(ctx, in)
	}
	adjusted := in.CurrentPlan
	return &adjusted, nil
}
