package repository

import (
	"alcyxob/coaching-app/internal/domain"
	"context"
)

// Error constants for the repository layer. Adapters map backend
// failures onto these so services never see driver errors.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CoachingConversationRepository persists the conversation aggregate.
// Save enforces optimistic concurrency: a new aggregate must carry
// Version 1 and inserts; an existing one must carry stored version + 1
// and fails with ErrConflict when another writer got there first.
type CoachingConversationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.CoachingConversation, error)
	FindByUserID(ctx context.Context, userID string) (*domain.CoachingConversation, error)
	Save(ctx context.Context, conversation *domain.CoachingConversation) error
}

// WorkoutPlanRepository persists the plan aggregate. Save follows the
// same versioning contract as the conversation repository and
// additionally enforces at most one active plan per user, failing with
// ErrConflict when a second plan would become active.
type WorkoutPlanRepository interface {
	FindByID(ctx context.Context, id string) (*domain.WorkoutPlan, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)
	FindActiveByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error)
	Save(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id string) error
}
