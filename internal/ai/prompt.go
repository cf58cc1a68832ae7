package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"alcyxob/coaching-app/internal/domain"
)

const coachSystemPrompt = `
You are an AI fitness coach for a training app.

Your role:
- You guide the user through their workout plan, answer training
  questions, and check in on their progress.
- You are encouraging but honest; you never give medical advice.

Response format:
- Always answer with a single JSON object matching the schema given in
  the request. No prose outside the JSON.

Actions:
- When the user's situation calls for it, include actions from this
  closed set: adjust_plan, maintain_current_plan, schedule_check_in,
  suggest_recovery, celebrate_milestone. Each action has a short
  "details" string. Emit no actions when none apply.
`

const plannerSystemPrompt = `
You are an AI workout plan generator for a training app.

Your role:
- Produce multi-week workout plans as a single JSON object matching the
  schema given in the request. No prose outside the JSON.
- Respect the user's constraints exactly: available days, session
  length, equipment, injuries, excluded exercises.
- When adjusting an existing plan, return the COMPLETE adjusted plan,
  not a delta. Keep weeks the user already completed unchanged.
`

// coachReplySchema documents the JSON shape GetResponse expects back.
const coachReplySchema = `{"message": string, "actions": [{"type": string, "details": string}], "suggestedFollowUps": [string]}`

const checkInAnalysisSchema = `{"analysis": string, "actions": [{"type": string, "details": string}]}`

const weeklySummarySchema = `{"summary": string, "highlights": [string], "suggestions": [string]}`

func buildContextBlock(ctx domain.CoachingContext) string {
	var b strings.Builder
	b.WriteString("User context:\n")
	b.WriteString(fmt.Sprintf("- primary goal: %s (%d sessions/week)\n", ctx.Goals.Primary, ctx.Goals.WeeklySessions))
	for _, w := range ctx.RecentWorkouts {
		b.WriteString(fmt.Sprintf("- recent workout: %s (%s)\n", w.Name, w.Status))
	}
	for _, t := range ctx.Trends {
		b.WriteString(fmt.Sprintf("- trend: %s is %s. %s\n", t.Metric, t.Direction, t.Detail))
	}
	return b.String()
}

func buildCoachResponsePrompt(in GetResponseInput) string {
	var b strings.Builder
	b.WriteString(buildContextBlock(in.Conversation.Context))
	b.WriteString("\nConversation so far:\n")
	for _, m := range in.Conversation.RecentMessages(20) {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("\nNew user message:\n")
	b.WriteString(in.UserMessage)
	b.WriteString("\n\nRespond with JSON matching: ")
	b.WriteString(coachReplySchema)
	return b.String()
}

func buildCheckInQuestionPrompt(in CheckInQuestionInput) string {
	var b strings.Builder
	b.WriteString(buildContextBlock(in.Context))
	b.WriteString("\nWrite ONE short check-in question for the user")
	if in.Trigger != "" {
		b.WriteString(fmt.Sprintf(", triggered by: %s", in.Trigger))
	}
	b.WriteString(`. Respond with JSON matching: {"question": string}`)
	return b.String()
}

func buildAnalyzeCheckInPrompt(in AnalyzeCheckInInput) string {
	var b strings.Builder
	b.WriteString(buildContextBlock(in.Context))
	b.WriteString("\nThe user was asked a check-in question and answered.\n")
	b.WriteString("Question: ")
	b.WriteString(in.CheckIn.Question)
	b.WriteString("\nAnswer: ")
	b.WriteString(in.UserResponse)
	b.WriteString("\n\nInterpret the answer. Respond with JSON matching: ")
	b.WriteString(checkInAnalysisSchema)
	return b.String()
}

func buildWeeklySummaryPrompt(in WeeklySummaryInput) string {
	var b strings.Builder
	b.WriteString(buildContextBlock(in.Context))
	b.WriteString("\nWrite the user's weekly training recap. Respond with JSON matching: ")
	b.WriteString(weeklySummarySchema)
	return b.String()
}

func buildGeneratePlanPrompt(in GeneratePlanInput) string {
	goals, _ := json.Marshal(in.Goals)
	constraints, _ := json.Marshal(in.Constraints)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Generate a workout plan for a %s user.\n", in.ExperienceLevel))
	b.WriteString("Goals: ")
	b.Write(goals)
	b.WriteString("\nConstraints: ")
	b.Write(constraints)
	if in.CustomInstructions != "" {
		b.WriteString("\nAdditional instructions: ")
		b.WriteString(in.CustomInstructions)
	}
	b.WriteString("\n\nRespond with JSON matching the plan schema: ")
	b.WriteString(planSchema)
	return b.String()
}

func buildAdjustPlanPrompt(in AdjustPlanInput) string {
	current, _ := json.Marshal(planPayloadFromPlan(in.CurrentPlan))
	performance, _ := json.Marshal(in.RecentPerformance)

	var b strings.Builder
	b.WriteString("Adjust the user's current workout plan based on their feedback.\n")
	b.WriteString("Current plan: ")
	b.Write(current)
	b.WriteString("\nUser feedback: ")
	b.WriteString(in.Feedback)
	b.WriteString("\nRecent performance: ")
	b.Write(performance)
	b.WriteString("\n\nRespond with the complete adjusted plan as JSON matching: ")
	b.WriteString(planSchema)
	return b.String()
}

const planSchema = `{"weeks": [{"number": int, "focus": string, "workouts": [{"name": string, "dayOfWeek": int (0=Sunday..6=Saturday), "durationMin": int, "exercises": [string], "notes": string}]}], "goals": {"primary": string, "secondary": [string], "weeklySessions": int}}`
