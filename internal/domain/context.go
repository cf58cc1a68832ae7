package domain

import "time"

// CoachingContext is the snapshot of recent training data the AI coach
// is prompted with. It is refreshed by background jobs outside this
// core and persisted alongside the conversation.
type CoachingContext struct {
	RecentWorkouts []WorkoutSnapshot `bson:"recentWorkouts,omitempty" json:"recentWorkouts,omitempty"`
	Goals          PlanGoals         `bson:"goals" json:"goals"`
	Trends         []TrainingTrend   `bson:"trends,omitempty" json:"trends,omitempty"`
	UpdatedAt      time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutSnapshot summarizes one completed or skipped workout for
// prompting purposes.
type WorkoutSnapshot struct {
	Name        string        `bson:"name" json:"name"`
	Status      WorkoutStatus `bson:"status" json:"status"`
	CompletedAt *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes       string        `bson:"notes,omitempty" json:"notes,omitempty"`
}

// TrendDirection classifies how a tracked metric is moving.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendSteady    TrendDirection = "steady"
	TrendDeclining TrendDirection = "declining"
)

// TrainingTrend is one observed metric trend (e.g. adherence, volume).
type TrainingTrend struct {
	Metric    string         `bson:"metric" json:"metric"`
	Direction TrendDirection `bson:"direction" json:"direction"`
	Detail    string         `bson:"detail,omitempty" json:"detail,omitempty"`
}

// PlanGoals captures what the user is training for.
type PlanGoals struct {
	Primary        string     `bson:"primary" json:"primary"` // e.g. "strength", "fat loss", "5k"
	Secondary      []string   `bson:"secondary,omitempty" json:"secondary,omitempty"`
	TargetDate     *time.Time `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	WeeklySessions int        `bson:"weeklySessions" json:"weeklySessions"`
}

// TrainingConstraints captures limits the plan generator must respect.
type TrainingConstraints struct {
	AvailableDays     []time.Weekday `bson:"availableDays,omitempty" json:"availableDays,omitempty"`
	SessionMinutesMax int            `bson:"sessionMinutesMax,omitempty" json:"sessionMinutesMax,omitempty"`
	Equipment         []string       `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Injuries          []string       `bson:"injuries,omitempty" json:"injuries,omitempty"`
	ExcludedExercises []string       `bson:"excludedExercises,omitempty" json:"excludedExercises,omitempty"`
}

// ExperienceLevel of the user, used when generating a plan.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)
