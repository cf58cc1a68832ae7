package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"alcyxob/coaching-app/internal/ai"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/events"
	"alcyxob/coaching-app/internal/observability"
	"alcyxob/coaching-app/internal/repository"
	"alcyxob/coaching-app/internal/storage"

	"github.com/google/uuid"
)

// --- DTOs ---

type SendMessageRequest struct {
	UserID  string
	Message string
}

type SendMessageResponse struct {
	ConversationID     string               `json:"conversationId"`
	Reply              string               `json:"reply"`
	Actions            []domain.CoachAction `json:"actions,omitempty"`
	SuggestedFollowUps []string             `json:"suggestedFollowUps,omitempty"`
}

type RespondToCheckInRequest struct {
	UserID         string
	CheckInID      string
	Response       string
	MediaObjectKey string
}

type RespondToCheckInResponse struct {
	ConversationID string               `json:"conversationId"`
	CoachAnalysis  string               `json:"coachAnalysis"`
	Actions        []domain.CoachAction `json:"actions,omitempty"`
}

type CreateCheckInRequest struct {
	UserID  string
	Type    domain.CheckInType
	Trigger string
}

type CreateCheckInResponse struct {
	CheckInID string `json:"checkInId"`
	Question  string `json:"question"`
}

type GetCoachingHistoryRequest struct {
	UserID string
	Limit  int
}

type GetCoachingHistoryResponse struct {
	ConversationID  string                   `json:"conversationId"`
	Messages        []domain.CoachingMessage `json:"messages"`
	PendingCheckIns []domain.CheckIn         `json:"pendingCheckIns"`
	TotalMessages   int                      `json:"totalMessages"`
	ActionsApplied  int                      `json:"actionsApplied"`
}

type WeeklySummaryResponse struct {
	Summary     string   `json:"summary"`
	Highlights  []string `json:"highlights,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type CheckInMediaUploadRequest struct {
	UserID      string
	CheckInID   string
	ContentType string
}

type CheckInMediaUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // reported back when responding to the check-in
}

// defaultHistoryLimit caps GetCoachingHistory when no limit is given.
const defaultHistoryLimit = 50

// --- Service Interface ---

type CoachingService interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error)
	RespondToCheckIn(ctx context.Context, req RespondToCheckInRequest) (*RespondToCheckInResponse, error)
	DismissCheckIn(ctx context.Context, userID, checkInID string) error
	CreateCheckIn(ctx context.Context, req CreateCheckInRequest) (*CreateCheckInResponse, error)
	GetCoachingHistory(ctx context.Context, req GetCoachingHistoryRequest) (*GetCoachingHistoryResponse, error)
	GenerateWeeklySummary(ctx context.Context, userID string) (*WeeklySummaryResponse, error)
	RequestCheckInMediaUploadURL(ctx context.Context, req CheckInMediaUploadRequest) (*CheckInMediaUploadResponse, error)
	GetCheckInMediaDownloadURL(ctx context.Context, userID, checkInID string) (string, error)
}

// --- Service Implementation ---

type coachingService struct {
	conversationRepo repository.CoachingConversationRepository
	aiCoach          ai.CoachService
	bus              events.Bus
	fileStorage      storage.FileStorage
	now              func() time.Time
}

// NewCoachingService creates a new instance of coachingService.
func NewCoachingService(
	conversationRepo repository.CoachingConversationRepository,
	aiCoach ai.CoachService,
	bus events.Bus,
	fileStorage storage.FileStorage,
) CoachingService {
	return &coachingService{
		conversationRepo: conversationRepo,
		aiCoach:          aiCoach,
		bus:              bus,
		fileStorage:      fileStorage,
		now:              time.Now,
	}
}

// SendMessage appends the user's message, asks the AI coach for a
// reply, appends it, persists, and publishes the resulting events.
// The conversation is created on the user's first message.
func (s *coachingService) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	if req.UserID == "" || strings.TrimSpace(req.Message) == "" {
		return nil, domain.NewError(domain.KindValidation, "userId and message are required")
	}
	log := observability.LoggerFromContext(ctx).With("user_id", req.UserID)
	now := s.now()

	conversation, err := s.loadOrCreateConversation(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}

	updated, err := conversation.AppendMessage(domain.CoachingMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   req.Message,
		Timestamp: now,
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.aiCoach.GetResponse(ctx, ai.GetResponseInput{
		Conversation: updated,
		UserMessage:  req.Message,
	})
	if err != nil {
		log.Error("ai coach response failed", "error", err)
		return nil, err
	}

	updated, err = updated.AppendMessage(domain.CoachingMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleCoach,
		Content:   reply.Message,
		Timestamp: s.now(),
		Actions:   reply.Actions,
	})
	if err != nil {
		return nil, err
	}

	updated.Version = conversation.Version + 1
	if err := s.saveConversation(ctx, &updated); err != nil {
		return nil, err
	}

	s.publishCoachActions(ctx, req.UserID, reply.Actions)
	s.publish(ctx, domain.NewCoachMessageSentEvent(req.UserID, updated.ID, len(reply.Actions), s.now()))

	return &SendMessageResponse{
		ConversationID:     updated.ID,
		Reply:              reply.Message,
		Actions:            reply.Actions,
		SuggestedFollowUps: reply.SuggestedFollowUps,
	}, nil
}

// RespondToCheckIn resolves a pending check-in: the AI interprets the
// user's answer, the conversation records the resolution, and one
// event per coach action plus a CheckInResponded event go out.
func (s *coachingService) RespondToCheckIn(ctx context.Context, req RespondToCheckInRequest) (*RespondToCheckInResponse, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", req.UserID, "check_in_id", req.CheckInID)

	conversation, err := s.conversationRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, mapLoadError(err, domain.ErrConversationNotFound)
	}

	checkIn, ok := conversation.CheckInByID(req.CheckInID)
	if !ok {
		return nil, domain.ErrCheckInNotFound
	}
	if checkIn.Status != domain.CheckInPending {
		return nil, domain.ErrCheckInResolved
	}

	// The only AI call in this flow. On failure its error propagates
	// as the use case's failure; retries belong to the adapter.
	analysis, err := s.aiCoach.AnalyzeCheckInResponse(ctx, ai.AnalyzeCheckInInput{
		CheckIn:      checkIn,
		UserResponse: req.Response,
		Context:      conversation.Context,
	})
	if err != nil {
		log.Error("check-in analysis failed", "error", err)
		return nil, err
	}

	now := s.now()
	updated, err := conversation.RespondToCheckIn(
		req.CheckInID, req.Response, analysis.Analysis, analysis.Actions, req.MediaObjectKey, now)
	if err != nil {
		return nil, err
	}

	updated.Version = conversation.Version + 1
	if err := s.saveConversation(ctx, &updated); err != nil {
		return nil, err
	}

	s.publishCoachActions(ctx, req.UserID, analysis.Actions)
	s.publish(ctx, domain.NewCheckInRespondedEvent(
		req.UserID, updated.ID, req.CheckInID, len(analysis.Actions), s.now()))

	log.Info("check-in responded", "actions_applied", len(analysis.Actions))

	return &RespondToCheckInResponse{
		ConversationID: updated.ID,
		CoachAnalysis:  analysis.Analysis,
		Actions:        analysis.Actions,
	}, nil
}

// DismissCheckIn resolves a pending check-in without an answer. No AI
// call is involved.
func (s *coachingService) DismissCheckIn(ctx context.Context, userID, checkInID string) error {
	conversation, err := s.conversationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return mapLoadError(err, domain.ErrConversationNotFound)
	}

	updated, err := conversation.DismissCheckIn(checkInID, s.now())
	if err != nil {
		return err
	}

	updated.Version = conversation.Version + 1
	if err := s.saveConversation(ctx, &updated); err != nil {
		return err
	}

	s.publish(ctx, domain.NewCheckInDismissedEvent(userID, updated.ID, checkInID, s.now()))
	return nil
}

// CreateCheckIn poses a new proactive or scheduled check-in with an
// AI-generated question.
func (s *coachingService) CreateCheckIn(ctx context.Context, req CreateCheckInRequest) (*CreateCheckInResponse, error) {
	if req.Type != domain.CheckInProactive && req.Type != domain.CheckInScheduled {
		return nil, domain.NewError(domain.KindValidation, fmt.Sprintf("unknown check-in type %q", req.Type))
	}
	now := s.now()

	conversation, err := s.loadOrCreateConversation(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}

	question, err := s.aiCoach.GenerateCheckInQuestion(ctx, ai.CheckInQuestionInput{
		Context: conversation.Context,
		Trigger: req.Trigger,
	})
	if err != nil {
		return nil, err
	}

	checkIn := domain.CheckIn{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Question:    question,
		TriggeredBy: req.Trigger,
		CreatedAt:   now,
	}
	updated, err := conversation.AddCheckIn(checkIn)
	if err != nil {
		return nil, err
	}

	updated.Version = conversation.Version + 1
	if err := s.saveConversation(ctx, &updated); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewCheckInCreatedEvent(req.UserID, updated.ID, checkIn.ID, s.now()))

	return &CreateCheckInResponse{CheckInID: checkIn.ID, Question: question}, nil
}

// GetCoachingHistory is read-only: it truncates the timeline to the
// most recent limit messages and derives the pending check-ins and the
// applied-actions diagnostic. The stored aggregate is not mutated.
func (s *coachingService) GetCoachingHistory(ctx context.Context, req GetCoachingHistoryRequest) (*GetCoachingHistoryResponse, error) {
	conversation, err := s.conversationRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, mapLoadError(err, domain.NewError(domain.KindNotFound, "no coaching history found"))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	pending := make([]domain.CheckIn, 0)
	for _, ci := range conversation.CheckIns {
		if ci.Status == domain.CheckInPending {
			pending = append(pending, ci)
		}
	}

	return &GetCoachingHistoryResponse{
		ConversationID:  conversation.ID,
		Messages:        conversation.RecentMessages(limit),
		PendingCheckIns: pending,
		TotalMessages:   conversation.TotalMessages,
		ActionsApplied:  conversation.ActionsApplied(),
	}, nil
}

// GenerateWeeklySummary asks the AI for a recap of the user's week and
// records it as a system message on the conversation.
func (s *coachingService) GenerateWeeklySummary(ctx context.Context, userID string) (*WeeklySummaryResponse, error) {
	conversation, err := s.conversationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapLoadError(err, domain.ErrConversationNotFound)
	}

	summary, err := s.aiCoach.GenerateWeeklySummary(ctx, ai.WeeklySummaryInput{
		Context: conversation.Context,
	})
	if err != nil {
		return nil, err
	}

	updated, err := conversation.AppendMessage(domain.CoachingMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleSystem,
		Content:   summary.Summary,
		Timestamp: s.now(),
	})
	if err != nil {
		return nil, err
	}

	updated.Version = conversation.Version + 1
	if err := s.saveConversation(ctx, &updated); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewWeeklySummaryGeneratedEvent(userID, updated.ID, s.now()))

	return &WeeklySummaryResponse{
		Summary:     summary.Summary,
		Highlights:  summary.Highlights,
		Suggestions: summary.Suggestions,
	}, nil
}

// RequestCheckInMediaUploadURL generates a presigned URL so the user
// can attach a progress photo or video while answering a check-in.
func (s *coachingService) RequestCheckInMediaUploadURL(ctx context.Context, req CheckInMediaUploadRequest) (*CheckInMediaUploadResponse, error) {
	contentType := strings.ToLower(req.ContentType)
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return nil, domain.NewError(domain.KindValidation, "media content type must be image/* or video/*")
	}

	conversation, err := s.conversationRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, mapLoadError(err, domain.ErrConversationNotFound)
	}
	checkIn, ok := conversation.CheckInByID(req.CheckInID)
	if !ok {
		return nil, domain.ErrCheckInNotFound
	}
	if checkIn.Status != domain.CheckInPending {
		return nil, domain.ErrCheckInResolved
	}

	ext := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = "." + parts[1]
	}
	objectKey := path.Join("check-ins", req.UserID, req.CheckInID, uuid.NewString()+ext)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, domain.WrapError(domain.KindExternalServiceFailure, "failed to generate upload URL", err)
	}

	return &CheckInMediaUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// GetCheckInMediaDownloadURL returns a temporary URL for viewing the
// media attached to a responded check-in.
func (s *coachingService) GetCheckInMediaDownloadURL(ctx context.Context, userID, checkInID string) (string, error) {
	conversation, err := s.conversationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return "", mapLoadError(err, domain.ErrConversationNotFound)
	}
	checkIn, ok := conversation.CheckInByID(checkInID)
	if !ok {
		return "", domain.ErrCheckInNotFound
	}
	if checkIn.MediaObjectKey == "" {
		return "", domain.NewError(domain.KindNotFound, "check-in has no attached media")
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, checkIn.MediaObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", domain.WrapError(domain.KindExternalServiceFailure, "failed to generate download URL", err)
	}
	return downloadURL, nil
}

// --- helpers ---

func (s *coachingService) loadOrCreateConversation(ctx context.Context, userID string, now time.Time) (domain.CoachingConversation, error) {
	conversation, err := s.conversationRepo.FindByUserID(ctx, userID)
	if err == nil {
		return *conversation, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewCoachingConversation(uuid.NewString(), userID, now), nil
	}
	return domain.CoachingConversation{}, domain.WrapError(domain.KindPersistenceFailure, "failed to load conversation", err)
}

func (s *coachingService) saveConversation(ctx context.Context, conversation *domain.CoachingConversation) error {
	if err := s.conversationRepo.Save(ctx, conversation); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.WrapError(domain.KindConflict, "conversation was modified concurrently", err)
		}
		return domain.WrapError(domain.KindPersistenceFailure, "failed to save conversation", err)
	}
	return nil
}

// publishCoachActions dispatches one event per coach action. Action
// events are advisory: an unregistered kind or a publish failure is
// logged and skipped, never rolling back the save.
func (s *coachingService) publishCoachActions(ctx context.Context, userID string, actions []domain.CoachAction) {
	log := observability.LoggerFromContext(ctx)
	for _, action := range actions {
		event, err := domain.EventForCoachAction(userID, action, s.now())
		if err != nil {
			log.Warn("skipping coach action", "action_type", action.Type, "error", err)
			continue
		}
		if err := s.bus.Publish(ctx, event); err != nil {
			log.Error("failed to publish coach action event", "event_type", event.Type, "error", err)
		}
	}
}

func (s *coachingService) publish(ctx context.Context, event domain.Event) {
	if err := s.bus.Publish(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to publish event",
			"event_type", event.Type, "error", err)
	}
}

// mapLoadError converts repository lookup failures to domain errors.
func mapLoadError(err error, notFound *domain.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return domain.WrapError(domain.KindPersistenceFailure, "repository load failed", err)
}
