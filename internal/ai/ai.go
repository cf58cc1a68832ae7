package ai

import (
	"context"

	"alcyxob/coaching-app/internal/domain"
)

// The AI ports are boundary contracts only: services treat every call
// as a black box with latency and failure. Adapters own timeouts and
// retries; services propagate failures without reinterpreting them.

// CoachReply is the AI coach's answer to a user message.
type CoachReply struct {
	Message            string               `json:"message"`
	Actions            []domain.CoachAction `json:"actions,omitempty"`
	SuggestedFollowUps []string             `json:"suggestedFollowUps,omitempty"`
}

// CheckInAnalysis is the AI's interpretation of a check-in response.
type CheckInAnalysis struct {
	Analysis string               `json:"analysis"`
	Actions  []domain.CoachAction `json:"actions,omitempty"`
}

// WeeklySummary is the AI-produced recap of the user's week.
type WeeklySummary struct {
	Summary     string   `json:"summary"`
	Highlights  []string `json:"highlights,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// GetResponseInput carries the conversation state and the new message.
type GetResponseInput struct {
	Conversation domain.CoachingConversation
	UserMessage  string
}

// CheckInQuestionInput carries the context and trigger for a new
// check-in question.
type CheckInQuestionInput struct {
	Context domain.CoachingContext
	Trigger string
}

// AnalyzeCheckInInput carries a resolved check-in for interpretation.
type AnalyzeCheckInInput struct {
	CheckIn      domain.CheckIn
	UserResponse string
	Context      domain.CoachingContext
}

// WeeklySummaryInput carries the context window to summarize.
type WeeklySummaryInput struct {
	Context domain.CoachingContext
}

// CoachService is the conversational AI port.
type CoachService interface {
	GetResponse(ctx context.Context, in GetResponseInput) (*CoachReply, error)
	GenerateCheckInQuestion(ctx context.Context, in CheckInQuestionInput) (string, error)
	AnalyzeCheckInResponse(ctx context.Context, in AnalyzeCheckInInput) (*CheckInAnalysis, error)
	GenerateWeeklySummary(ctx context.Context, in WeeklySummaryInput) (*WeeklySummary, error)
}

// GeneratePlanInput carries everything the planner needs for a fresh
// plan.
type GeneratePlanInput struct {
	UserID             string
	Goals              domain.PlanGoals
	Constraints        domain.TrainingConstraints
	ExperienceLevel    domain.ExperienceLevel
	CustomInstructions string
}

// AdjustPlanInput carries the current plan plus the user's feedback.
// The planner owns the diffing logic; the returned plan replaces the
// current one verbatim.
type AdjustPlanInput struct {
	CurrentPlan       domain.WorkoutPlan
	Feedback          string
	RecentPerformance []domain.WorkoutSnapshot
}

// PlanGenerator is the AI planning port.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, in GeneratePlanInput) (*domain.WorkoutPlan, error)
	AdjustPlan(ctx context.Context, in AdjustPlanInput) (*domain.WorkoutPlan, error)
}
