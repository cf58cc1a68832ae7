package memory

import (
	"context"
	"testing"
	"time"

	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func TestConversationStore_VersionContract(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	conv := domain.NewCoachingConversation("conv-1", "user-1", testNow)
	require.NoError(t, store.Save(ctx, &conv))
	require.Equal(t, int64(1), conv.Version, "insert assigns version 1")

	// A stale writer with the same starting version loses.
	stale := conv
	require.ErrorIs(t, store.Save(ctx, &stale), repository.ErrConflict)

	conv.Version = 2
	require.NoError(t, store.Save(ctx, &conv))

	// Re-saving version 2 again conflicts: stored is already 2.
	require.ErrorIs(t, store.Save(ctx, &conv), repository.ErrConflict)

	conv.Version = 3
	require.NoError(t, store.Save(ctx, &conv))

	found, err := store.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(3), found.Version)

	missing := domain.NewCoachingConversation("conv-2", "user-2", testNow)
	missing.Version = 5
	require.ErrorIs(t, store.Save(ctx, &missing), repository.ErrNotFound, "updates need an existing document")
}

func TestConversationStore_FindByUserID_NotFound(t *testing.T) {
	store := NewConversationStore()

	_, err := store.FindByUserID(context.Background(), "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanStore_SingleActivePlanPerUser(t *testing.T) {
	store := NewPlanStore()
	ctx := context.Background()

	first := domain.WorkoutPlan{ID: "plan-1", UserID: "user-1", Status: domain.PlanActive, CreatedAt: testNow}
	require.NoError(t, store.Save(ctx, &first))

	second := domain.WorkoutPlan{ID: "plan-2", UserID: "user-1", Status: domain.PlanActive, CreatedAt: testNow}
	require.ErrorIs(t, store.Save(ctx, &second), repository.ErrConflict)

	// A different user or a non-active status is fine.
	otherUser := domain.WorkoutPlan{ID: "plan-3", UserID: "user-2", Status: domain.PlanActive, CreatedAt: testNow}
	require.NoError(t, store.Save(ctx, &otherUser))
	draft := domain.WorkoutPlan{ID: "plan-4", UserID: "user-1", Status: domain.PlanDraft, CreatedAt: testNow}
	require.NoError(t, store.Save(ctx, &draft))

	// Pausing the first frees the slot.
	paused, err := first.Pause("break", testNow)
	require.NoError(t, err)
	paused.Version = first.Version + 1
	require.NoError(t, store.Save(ctx, &paused))

	second = domain.WorkoutPlan{ID: "plan-2", UserID: "user-1", Status: domain.PlanActive, CreatedAt: testNow}
	require.NoError(t, store.Save(ctx, &second))
}

func TestPlanStore_FindByUserID_NewestFirst(t *testing.T) {
	store := NewPlanStore()
	ctx := context.Background()

	older := domain.WorkoutPlan{ID: "plan-1", UserID: "user-1", Status: domain.PlanDraft, CreatedAt: testNow.Add(-time.Hour)}
	newer := domain.WorkoutPlan{ID: "plan-2", UserID: "user-1", Status: domain.PlanDraft, CreatedAt: testNow}
	require.NoError(t, store.Save(ctx, &older))
	require.NoError(t, store.Save(ctx, &newer))

	plans, err := store.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, "plan-2", plans[0].ID)
}
