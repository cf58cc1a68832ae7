package domain

import (
	"fmt"
	"time"
)

// PlanStatus is the lifecycle state of a workout plan.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
	PlanAbandoned PlanStatus = "abandoned"
)

// Terminal reports whether no further transitions are permitted.
func (s PlanStatus) Terminal() bool {
	return s == PlanCompleted || s == PlanAbandoned
}

// WorkoutStatus is the state of one scheduled workout inside a plan.
type WorkoutStatus string

const (
	WorkoutScheduled   WorkoutStatus = "scheduled"
	WorkoutInProgress  WorkoutStatus = "in_progress"
	WorkoutCompleted   WorkoutStatus = "completed"
	WorkoutSkipped     WorkoutStatus = "skipped"
	WorkoutRescheduled WorkoutStatus = "rescheduled"
)

// PlannedWorkout is one workout entry within a plan week.
type PlannedWorkout struct {
	ID          string        `bson:"id" json:"id"`
	Name        string        `bson:"name" json:"name"` // e.g. "Day 1: Upper Body"
	DayOfWeek   time.Weekday  `bson:"dayOfWeek" json:"dayOfWeek"`
	Status      WorkoutStatus `bson:"status" json:"status"`
	DurationMin int           `bson:"durationMin,omitempty" json:"durationMin,omitempty"`
	Exercises   []string      `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Notes       string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CompletedAt *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// PlanWeek groups the workouts of one week, in schedule order.
type PlanWeek struct {
	Number   int              `bson:"number" json:"number"` // 1-based
	Focus    string           `bson:"focus,omitempty" json:"focus,omitempty"`
	Workouts []PlannedWorkout `bson:"workouts" json:"workouts"`
}

// PlanSummary is derived from workout statuses; Completed never
// exceeds Total.
type PlanSummary struct {
	Completed int `bson:"completed" json:"completed"`
	Total     int `bson:"total" json:"total"`
}

// WorkoutPlan is the multi-week schedule aggregate. At most one plan
// per user is active at a time (enforced by the repository). Mutation
// goes through the command methods, which return a new value and fail
// rather than no-op on an illegal transition.
type WorkoutPlan struct {
	ID          string              `bson:"_id,omitempty" json:"id"`
	UserID      string              `bson:"userId" json:"userId"`
	Status      PlanStatus          `bson:"status" json:"status"`
	Weeks       []PlanWeek          `bson:"weeks" json:"weeks"`
	Goals       PlanGoals           `bson:"goals" json:"goals"`
	Constraints TrainingConstraints `bson:"constraints" json:"constraints"`
	Summary     PlanSummary         `bson:"summary" json:"summary"`
	PauseReason string              `bson:"pauseReason,omitempty" json:"pauseReason,omitempty"`
	StartedAt   *time.Time          `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`

	// Version guards load-modify-save races, same scheme as the
	// conversation aggregate.
	Version int64 `bson:"version" json:"version"`
}

// Activate moves a draft or paused plan to active. Fails when the plan
// is already active or in a terminal state.
func (p WorkoutPlan) Activate(now time.Time) (WorkoutPlan, error) {
	if p.Status.Terminal() {
		return p, NewError(KindInvalidStateTransition,
			fmt.Sprintf("cannot activate a %s plan", p.Status))
	}
	if p.Status == PlanActive {
		return p, NewError(KindInvalidStateTransition, "plan is already active")
	}

	next := p
	next.Status = PlanActive
	next.PauseReason = ""
	if next.StartedAt == nil {
		startedAt := now
		next.StartedAt = &startedAt
	}
	return next, nil
}

// Pause suspends an active plan. The reason is recorded for
// observability only.
func (p WorkoutPlan) Pause(reason string, now time.Time) (WorkoutPlan, error) {
	if p.Status != PlanActive {
		return p, NewError(KindInvalidStateTransition,
			fmt.Sprintf("cannot pause a %s plan", p.Status))
	}

	next := p
	next.Status = PlanPaused
	next.PauseReason = reason
	return next, nil
}

// Complete terminates an active plan successfully.
func (p WorkoutPlan) Complete(now time.Time) (WorkoutPlan, error) {
	if p.Status != PlanActive {
		return p, NewError(KindInvalidStateTransition,
			fmt.Sprintf("cannot complete a %s plan", p.Status))
	}

	next := p
	next.Status = PlanCompleted
	return next, nil
}

// Abandon terminates any non-terminal plan.
func (p WorkoutPlan) Abandon(reason string, now time.Time) (WorkoutPlan, error) {
	if p.Status.Terminal() {
		return p, NewError(KindInvalidStateTransition,
			fmt.Sprintf("cannot abandon a %s plan", p.Status))
	}

	next := p
	next.Status = PlanAbandoned
	next.PauseReason = reason
	return next, nil
}

// RecordWorkoutResult sets the status of one workout and recomputes
// the summary. Only active plans accept results.
func (p WorkoutPlan) RecordWorkoutResult(weekNumber int, workoutID string, status WorkoutStatus, now time.Time) (WorkoutPlan, error) {
	if p.Status != PlanActive {
		return p, NewError(KindInvalidStateTransition,
			fmt.Sprintf("cannot record a workout on a %s plan", p.Status))
	}
	switch status {
	case WorkoutInProgress, WorkoutCompleted, WorkoutSkipped, WorkoutRescheduled:
	default:
		return p, NewError(KindValidation, fmt.Sprintf("invalid workout status %q", status))
	}

	next := p
	next.Weeks = append([]PlanWeek(nil), p.Weeks...)
	for wi, week := range next.Weeks {
		if week.Number != weekNumber {
			continue
		}
		workouts := append([]PlannedWorkout(nil), week.Workouts...)
		for i, w := range workouts {
			if w.ID != workoutID {
				continue
			}
			w.Status = status
			if status == WorkoutCompleted {
				completedAt := now
				w.CompletedAt = &completedAt
			}
			workouts[i] = w
			next.Weeks[wi].Workouts = workouts
			next.Summary = next.computeSummary()
			return next, nil
		}
	}
	return p, NewError(KindNotFound,
		fmt.Sprintf("workout %s not found in week %d", workoutID, weekNumber))
}

func (p WorkoutPlan) computeSummary() PlanSummary {
	var s PlanSummary
	for _, week := range p.Weeks {
		for _, w := range week.Workouts {
			s.Total++
			if w.Status == WorkoutCompleted {
				s.Completed++
			}
		}
	}
	return s
}

// TodaysWorkout returns the workout scheduled for now's weekday in the
// current week, if any. The current week is derived from StartedAt.
func (p WorkoutPlan) TodaysWorkout(now time.Time) (PlannedWorkout, bool) {
	if p.StartedAt == nil || len(p.Weeks) == 0 {
		return PlannedWorkout{}, false
	}
	weekIdx := int(now.Sub(*p.StartedAt).Hours() / (24 * 7))
	if weekIdx < 0 || weekIdx >= len(p.Weeks) {
		return PlannedWorkout{}, false
	}
	for _, w := range p.Weeks[weekIdx].Workouts {
		if w.DayOfWeek == now.Weekday() && w.Status == WorkoutScheduled {
			return w, true
		}
	}
	return PlannedWorkout{}, false
}

// DiffAdjustments describes, week by week, what changed between the
// plan before and after an AI adjustment. Used for the adjustmentsMade
// response field.
func DiffAdjustments(before, after WorkoutPlan) []string {
	var changes []string

	if len(after.Weeks) != len(before.Weeks) {
		changes = append(changes, fmt.Sprintf("plan length changed from %d to %d weeks",
			len(before.Weeks), len(after.Weeks)))
	}
	weeks := len(before.Weeks)
	if len(after.Weeks) < weeks {
		weeks = len(after.Weeks)
	}
	for i := 0; i < weeks; i++ {
		b, a := before.Weeks[i], after.Weeks[i]
		if len(a.Workouts) != len(b.Workouts) {
			changes = append(changes, fmt.Sprintf("week %d workouts changed from %d to %d",
				a.Number, len(b.Workouts), len(a.Workouts)))
			continue
		}
		modified := 0
		for j := range a.Workouts {
			if a.Workouts[j].Name != b.Workouts[j].Name ||
				a.Workouts[j].DayOfWeek != b.Workouts[j].DayOfWeek ||
				a.Workouts[j].DurationMin != b.Workouts[j].DurationMin {
				modified++
			}
		}
		if modified > 0 {
			changes = append(changes, fmt.Sprintf("week %d: %d workout(s) modified", a.Number, modified))
		}
	}
	if after.Goals.Primary != before.Goals.Primary {
		changes = append(changes, fmt.Sprintf("primary goal changed from %q to %q",
			before.Goals.Primary, after.Goals.Primary))
	}
	if len(changes) == 0 {
		changes = append(changes, "no structural changes")
	}
	return changes
}
