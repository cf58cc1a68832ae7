package memory

import (
	"context"
	"sort"
	"sync"

	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
)

// PlanStore is an in-memory WorkoutPlanRepository. It mirrors the
// mongo adapter's contract, including the one-active-plan-per-user
// uniqueness check.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]domain.WorkoutPlan
}

func NewPlanStore() *PlanStore {
	return &PlanStore{
		plans: make(map[string]domain.WorkoutPlan),
	}
}

func (s *PlanStore) FindByID(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &plan, nil
}

func (s *PlanStore) FindByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.WorkoutPlan
	for _, plan := range s.plans {
		if plan.UserID == userID {
			result = append(result, plan)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *PlanStore) FindActiveByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, plan := range s.plans {
		if plan.UserID == userID && plan.Status == domain.PlanActive {
			p := plan
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *PlanStore) Save(ctx context.Context, plan *domain.WorkoutPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.Status == domain.PlanActive {
		for id, other := range s.plans {
			if id != plan.ID && other.UserID == plan.UserID && other.Status == domain.PlanActive {
				return repository.ErrConflict
			}
		}
	}

	stored, exists := s.plans[plan.ID]
	if plan.Version <= 1 {
		if exists {
			return repository.ErrConflict
		}
		plan.Version = 1
		s.plans[plan.ID] = *plan
		return nil
	}
	if !exists {
		return repository.ErrNotFound
	}
	if stored.Version != plan.Version-1 {
		return repository.ErrConflict
	}
	s.plans[plan.ID] = *plan
	return nil
}

func (s *PlanStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.plans, id)
	return nil
}
