package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alcyxob/coaching-app/internal/domain"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	Project  string
	Location string
	Model    string
	Timeout  time.Duration
}

// GeminiClient implements CoachService and PlanGenerator on Vertex AI
// (Gemini). Every call runs under the configured timeout; deadline
// expiry surfaces as an AITimeout domain error, any other failure as
// ExternalServiceFailure.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates the adapter. Model defaults to a fast
// Gemini variant, timeout to 30s.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("gemini project and location must be set")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// generateJSON sends one prompt and decodes the JSON reply into out.
func (g *GeminiClient) generateJSON(ctx context.Context, system, prompt string, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(callCtx, g.model, contents, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return domain.WrapError(domain.KindAITimeout, "AI call timed out", err)
		}
		return domain.WrapError(domain.KindExternalServiceFailure, "AI call failed", err)
	}

	text := res.Text()
	if text == "" {
		return domain.NewError(domain.KindExternalServiceFailure, "AI returned empty response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return domain.WrapError(domain.KindExternalServiceFailure, "AI returned malformed JSON", err)
	}
	return nil
}

// GetResponse implements CoachService.
func (g *GeminiClient) GetResponse(ctx context.Context, in GetResponseInput) (*CoachReply, error) {
	var reply CoachReply
	if err := g.generateJSON(ctx, coachSystemPrompt, buildCoachResponsePrompt(in), &reply); err != nil {
		return nil, err
	}
	if reply.Message == "" {
		return nil, domain.NewError(domain.KindExternalServiceFailure, "AI reply had no message")
	}
	return &reply, nil
}

// GenerateCheckInQuestion implements CoachService.
func (g *GeminiClient) GenerateCheckInQuestion(ctx context.Context, in CheckInQuestionInput) (string, error) {
	var out struct {
		Question string `json:"question"`
	}
	if err := g.generateJSON(ctx, coachSystemPrompt, buildCheckInQuestionPrompt(in), &out); err != nil {
		return "", err
	}
	if out.Question == "" {
		return "", domain.NewError(domain.KindExternalServiceFailure, "AI produced no question")
	}
	return out.Question, nil
}

// AnalyzeCheckInResponse implements CoachService.
func (g *GeminiClient) AnalyzeCheckInResponse(ctx context.Context, in AnalyzeCheckInInput) (*CheckInAnalysis, error) {
	var analysis CheckInAnalysis
	if err := g.generateJSON(ctx, coachSystemPrompt, buildAnalyzeCheckInPrompt(in), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// GenerateWeeklySummary implements CoachService.
func (g *GeminiClient) GenerateWeeklySummary(ctx context.Context, in WeeklySummaryInput) (*WeeklySummary, error) {
	var summary WeeklySummary
	if err := g.generateJSON(ctx, coachSystemPrompt, buildWeeklySummaryPrompt(in), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GeneratePlan implements PlanGenerator. The returned plan is a draft
// without identity; the service assigns ID, timestamps, and version.
func (g *GeminiClient) GeneratePlan(ctx context.Context, in GeneratePlanInput) (*domain.WorkoutPlan, error) {
	var payload planPayload
	if err := g.generateJSON(ctx, plannerSystemPrompt, buildGeneratePlanPrompt(in), &payload); err != nil {
		return nil, err
	}
	plan := payload.toPlan()
	plan.UserID = in.UserID
	plan.Constraints = in.Constraints
	if plan.Goals.Primary == "" {
		plan.Goals = in.Goals
	}
	return &plan, nil
}

// AdjustPlan implements PlanGenerator. The returned plan replaces the
// current one verbatim; identity and lifecycle fields carry over.
func (g *GeminiClient) AdjustPlan(ctx context.Context, in AdjustPlanInput) (*domain.WorkoutPlan, error) {
	var payload planPayload
	if err := g.generateJSON(ctx, plannerSystemPrompt, buildAdjustPlanPrompt(in), &payload); err != nil {
		return nil, err
	}
	plan := payload.toPlan()
	plan.ID = in.CurrentPlan.ID
	plan.UserID = in.CurrentPlan.UserID
	plan.Status = in.CurrentPlan.Status
	plan.Constraints = in.CurrentPlan.Constraints
	plan.StartedAt = in.CurrentPlan.StartedAt
	plan.CreatedAt = in.CurrentPlan.CreatedAt
	plan.Version = in.CurrentPlan.Version
	return &plan, nil
}

// planPayload is the wire shape the planner prompts ask for.
type planPayload struct {
	Weeks []weekPayload    `json:"weeks"`
	Goals domain.PlanGoals `json:"goals"`
}

type weekPayload struct {
	Number   int              `json:"number"`
	Focus    string           `json:"focus"`
	Workouts []workoutPayload `json:"workouts"`
}

type workoutPayload struct {
	Name        string   `json:"name"`
	DayOfWeek   int      `json:"dayOfWeek"`
	DurationMin int      `json:"durationMin"`
	Exercises   []string `json:"exercises"`
	Notes       string   `json:"notes"`
}

func (p planPayload) toPlan() domain.WorkoutPlan {
	plan := domain.WorkoutPlan{
		Status: domain.PlanDraft,
		Goals:  p.Goals,
	}
	for _, week := range p.Weeks {
		w := domain.PlanWeek{Number: week.Number, Focus: week.Focus}
		for _, workout := range week.Workouts {
			w.Workouts = append(w.Workouts, domain.PlannedWorkout{
				ID:          uuid.NewString(),
				Name:        workout.Name,
				DayOfWeek:   time.Weekday(workout.DayOfWeek % 7),
				Status:      domain.WorkoutScheduled,
				DurationMin: workout.DurationMin,
				Exercises:   workout.Exercises,
				Notes:       workout.Notes,
			})
		}
		plan.Weeks = append(plan.Weeks, w)
		plan.Summary.Total += len(w.Workouts)
	}
	return plan
}

// planPayloadFromPlan flattens a plan back to the prompt wire shape so
// adjust prompts show the model what it produced before.
func planPayloadFromPlan(plan domain.WorkoutPlan) planPayload {
	payload := planPayload{Goals: plan.Goals}
	for _, week := range plan.Weeks {
		w := weekPayload{Number: week.Number, Focus: week.Focus}
		for _, workout := range week.Workouts {
			w.Workouts = append(w.Workouts, workoutPayload{
				Name:        workout.Name,
				DayOfWeek:   int(workout.DayOfWeek),
				DurationMin: workout.DurationMin,
				Exercises:   workout.Exercises,
				Notes:       workout.Notes,
			})
		}
		payload.Weeks = append(payload.Weeks, w)
	}
	return payload
}
