package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/coaching-app/internal/ai"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/events"
	"alcyxob/coaching-app/internal/observability"
	"alcyxob/coaching-app/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type GeneratePlanRequest struct {
	UserID             string
	Goals              domain.PlanGoals
	Constraints        domain.TrainingConstraints
	ExperienceLevel    domain.ExperienceLevel
	CustomInstructions string
}

type ActivatePlanRequest struct {
	UserID    string
	PlanID    string
	StartDate *time.Time // defaults to now
}

type ActivatePlanResponse struct {
	PlanID        string                 `json:"planId"`
	Status        domain.PlanStatus      `json:"status"`
	StartDate     time.Time              `json:"startDate"`
	TodaysWorkout *domain.PlannedWorkout `json:"todaysWorkout,omitempty"`
}

type PausePlanRequest struct {
	UserID string
	PlanID string
	Reason string
}

type AdjustPlanRequest struct {
	UserID   string
	PlanID   string
	Feedback string
}

type AdjustPlanResponse struct {
	PlanID          string   `json:"planId"`
	AdjustmentsMade []string `json:"adjustmentsMade"`
}

type RecordWorkoutRequest struct {
	UserID     string
	PlanID     string
	WeekNumber int
	WorkoutID  string
	Status     domain.WorkoutStatus
}

type RecordWorkoutResponse struct {
	PlanID  string             `json:"planId"`
	Summary domain.PlanSummary `json:"summary"`
}

// --- Service Interface ---

type PlanService interface {
	GeneratePlan(ctx context.Context, req GeneratePlanRequest) (*domain.WorkoutPlan, error)
	ActivatePlan(ctx context.Context, req ActivatePlanRequest) (*ActivatePlanResponse, error)
	PausePlan(ctx context.Context, req PausePlanRequest) (*domain.WorkoutPlan, error)
	CompletePlan(ctx context.Context, userID, planID string) (*domain.WorkoutPlan, error)
	AbandonPlan(ctx context.Context, userID, planID, reason string) (*domain.WorkoutPlan, error)
	AdjustPlanBasedOnFeedback(ctx context.Context, req AdjustPlanRequest) (*AdjustPlanResponse, error)
	GetActivePlan(ctx context.Context, userID string) (*domain.WorkoutPlan, error)
	GetPlans(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)
	RecordWorkoutResult(ctx context.Context, req RecordWorkoutRequest) (*RecordWorkoutResponse, error)
}

// --- Service Implementation ---

type planService struct {
	planRepo  repository.WorkoutPlanRepository
	generator ai.PlanGenerator
	bus       events.Bus
	now       func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.WorkoutPlanRepository,
	generator ai.PlanGenerator,
	bus events.Bus,
) PlanService {
	return &planService{
		planRepo:  planRepo,
		generator: generator,
		bus:       bus,
		now:       time.Now,
	}
}

// GeneratePlan asks the AI planner for a fresh draft plan and persists
// it. The caller activates it separately.
func (s *planService) GeneratePlan(ctx context.Context, req GeneratePlanRequest) (*domain.WorkoutPlan, error) {
	if req.UserID == "" {
		return nil, domain.NewError(domain.KindValidation, "userId is required")
	}
	log := observability.LoggerFromContext(ctx).With("user_id", req.UserID)

	draft, err := s.generator.GeneratePlan(ctx, ai.GeneratePlanInput{
		UserID:             req.UserID,
		Goals:              req.Goals,
		Constraints:        req.Constraints,
		ExperienceLevel:    req.ExperienceLevel,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		log.Error("plan generation failed", "error", err)
		return nil, err
	}

	plan := *draft
	plan.ID = uuid.NewString()
	plan.UserID = req.UserID
	plan.Status = domain.PlanDraft
	plan.Goals = req.Goals
	plan.Constraints = req.Constraints
	plan.CreatedAt = s.now()
	plan.Version = 1

	if err := s.savePlan(ctx, &plan); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.NewPlanGeneratedEvent(req.UserID, plan.ID, s.now()))

	log.Info("plan generated", "plan_id", plan.ID, "weeks", len(plan.Weeks))
	return &plan, nil
}

// ActivatePlan transitions a plan to active and reports the workout
// scheduled for the start day, if any. Only one plan per user may be
// active; the repository rejects a second one.
func (s *planService) ActivatePlan(ctx context.Context, req ActivatePlanRequest) (*ActivatePlanResponse, error) {
	plan, err := s.loadOwnedPlan(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}

	startDate := s.now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	activated, err := plan.Activate(startDate)
	if err != nil {
		return nil, err
	}

	activated.Version = plan.Version + 1
	if err := s.savePlan(ctx, &activated); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.NewPlanActivatedEvent(req.UserID, activated.ID, startDate, s.now()))

	response := &ActivatePlanResponse{
		PlanID:    activated.ID,
		Status:    activated.Status,
		StartDate: startDate,
	}
	if workout, ok := activated.TodaysWorkout(startDate); ok {
		response.TodaysWorkout = &workout
	}
	return response, nil
}

// PausePlan suspends an active plan, keeping the reason for later
// review.
func (s *planService) PausePlan(ctx context.Context, req PausePlanRequest) (*domain.WorkoutPlan, error) {
	plan, err := s.loadOwnedPlan(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}

	paused, err := plan.Pause(req.Reason, s.now())
	if err != nil {
		return nil, err
	}

	paused.Version = plan.Version + 1
	if err := s.savePlan(ctx, &paused); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.NewPlanPausedEvent(req.UserID, paused.ID, req.Reason, s.now()))
	return &paused, nil
}

func (s *planService) CompletePlan(ctx context.Context, userID, planID string) (*domain.WorkoutPlan, error) {
	plan, err := s.loadOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	completed, err := plan.Complete(s.now())
	if err != nil {
		return nil, err
	}

	completed.Version = plan.Version + 1
	if err := s.savePlan(ctx, &completed); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.NewPlanCompletedEvent(userID, completed.ID, s.now()))
	return &completed, nil
}

func (s *planService) AbandonPlan(ctx context.Context, userID, planID, reason string) (*domain.WorkoutPlan, error) {
	plan, err := s.loadOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	abandoned, err := plan.Abandon(reason, s.now())
	if err != nil {
		return nil, err
	}

	abandoned.Version = plan.Version + 1
	if err := s.savePlan(ctx, &abandoned); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.NewPlanAbandonedEvent(userID, abandoned.ID, reason, s.now()))
	return &abandoned, nil
}

// AdjustPlanBasedOnFeedback hands the current plan and the user's
// feedback to the AI planner, persists the returned plan under the
// same identity, and reports the concrete differences.
func (s *planService) AdjustPlanBasedOnFeedback(ctx context.Context, req AdjustPlanRequest) (*AdjustPlanResponse, error) {
	plan, err := s.loadOwnedPlan(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}
	log := observability.LoggerFromContext(ctx).With("user_id", req.UserID, "plan_id", req.PlanID)

	adjusted, err := s.generator.AdjustPlan(ctx, ai.AdjustPlanInput{
		CurrentPlan:       plan,
		Feedback:          req.Feedback,
		RecentPerformance: recentPerformance(plan),
	})
	if err != nil {
		log.Error("plan adjustment failed", "error", err)
		kind := domain.KindOf(err)
		if kind == "" {
			kind = domain.KindExternalServiceFailure
		}
		return nil, domain.WrapError(kind, "failed to adjust plan", err)
	}

	next := *adjusted
	next.ID = plan.ID
	next.UserID = plan.UserID
	next.Version = plan.Version + 1
	if err := s.savePlan(ctx, &next); err != nil {
		return nil, err
	}

	adjustments := domain.DiffAdjustments(plan, next)
	s.publish(ctx, domain.NewPlanAdjustedEvent(req.UserID, next.ID, adjustments, s.now()))

	log.Info("plan adjusted", "adjustments", len(adjustments))
	return &AdjustPlanResponse{PlanID: next.ID, AdjustmentsMade: adjustments}, nil
}

func (s *planService) GetActivePlan(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, mapLoadError(err, domain.NewError(domain.KindNotFound, "no active plan found"))
	}
	return plan, nil
}

func (s *planService) GetPlans(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	plans, err := s.planRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistenceFailure, "failed to list plans", err)
	}
	return plans, nil
}

// RecordWorkoutResult marks a single workout's outcome and returns the
// refreshed completion summary.
func (s *planService) RecordWorkoutResult(ctx context.Context, req RecordWorkoutRequest) (*RecordWorkoutResponse, error) {
	plan, err := s.loadOwnedPlan(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}

	updated, err := plan.RecordWorkoutResult(req.WeekNumber, req.WorkoutID, req.Status, s.now())
	if err != nil {
		return nil, err
	}

	updated.Version = plan.Version + 1
	if err := s.savePlan(ctx, &updated); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.NewWorkoutRecordedEvent(req.UserID, updated.ID, req.WorkoutID, s.now()))

	return &RecordWorkoutResponse{PlanID: updated.ID, Summary: updated.Summary}, nil
}

// --- helpers ---

// loadOwnedPlan fetches a plan and verifies ownership before any
// mutation can happen. An authorization failure never reaches the
// repository or the bus.
func (s *planService) loadOwnedPlan(ctx context.Context, userID, planID string) (domain.WorkoutPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return domain.WorkoutPlan{}, mapLoadError(err, domain.ErrPlanNotFound)
	}
	if plan.UserID != userID {
		return domain.WorkoutPlan{}, domain.ErrNotAuthorized
	}
	return *plan, nil
}

func (s *planService) savePlan(ctx context.Context, plan *domain.WorkoutPlan) error {
	if err := s.planRepo.Save(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.WrapError(domain.KindConflict, "plan was modified concurrently", err)
		}
		return domain.WrapError(domain.KindPersistenceFailure, "failed to save plan", err)
	}
	return nil
}

func (s *planService) publish(ctx context.Context, event domain.Event) {
	if err := s.bus.Publish(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to publish event",
			"event_type", event.Type, "error", err)
	}
}

// recentPerformance summarizes completed and skipped workouts so the
// planner can weigh actual adherence, not just the stated feedback.
func recentPerformance(plan domain.WorkoutPlan) []domain.WorkoutSnapshot {
	var snapshots []domain.WorkoutSnapshot
	for _, week := range plan.Weeks {
		for _, workout := range week.Workouts {
			if workout.Status != domain.WorkoutCompleted && workout.Status != domain.WorkoutSkipped {
				continue
			}
			snapshots = append(snapshots, domain.WorkoutSnapshot{
				Name:        workout.Name,
				Status:      workout.Status,
				CompletedAt: workout.CompletedAt,
				Notes:       workout.Notes,
			})
		}
	}
	return snapshots
}
