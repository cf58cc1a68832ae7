package memory

import (
	"context"
	"sync"

	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
)

// ConversationStore is an in-memory CoachingConversationRepository.
// It honors the same versioning contract as the mongo adapter, which
// makes it usable both in tests and for local runs without a database.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]domain.CoachingConversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]domain.CoachingConversation),
	}
}

func (s *ConversationStore) FindByID(ctx context.Context, id string) (*domain.CoachingConversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &conversation, nil
}

func (s *ConversationStore) FindByUserID(ctx context.Context, userID string) (*domain.CoachingConversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conversation := range s.conversations {
		if conversation.UserID == userID {
			c := conversation
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ConversationStore) Save(ctx context.Context, conversation *domain.CoachingConversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.conversations[conversation.ID]
	if conversation.Version <= 1 {
		if exists {
			return repository.ErrConflict
		}
		conversation.Version = 1
		s.conversations[conversation.ID] = *conversation
		return nil
	}
	if !exists {
		return repository.ErrNotFound
	}
	if stored.Version != conversation.Version-1 {
		return repository.ErrConflict
	}
	s.conversations[conversation.ID] = *conversation
	return nil
}
