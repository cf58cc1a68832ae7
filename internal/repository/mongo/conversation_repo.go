package mongo

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const conversationCollectionName = "coaching_conversations"

// mongoConversationRepository implements repository.CoachingConversationRepository
type mongoConversationRepository struct {
	collection *mongo.Collection
}

// NewMongoConversationRepository creates a new conversation repository.
func NewMongoConversationRepository(db *mongo.Database) repository.CoachingConversationRepository {
	return &mongoConversationRepository{
		collection: db.Collection(conversationCollectionName),
	}
}

// FindByID retrieves a single conversation by its ID.
func (r *mongoConversationRepository) FindByID(ctx context.Context, id string) (*domain.CoachingConversation, error) {
	var conversation domain.CoachingConversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindByUserID retrieves the user's conversation. One conversation
// exists per user.
func (r *mongoConversationRepository) FindByUserID(ctx context.Context, userID string) (*domain.CoachingConversation, error) {
	var conversation domain.CoachingConversation
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&conversation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// Save persists the conversation with an optimistic concurrency check.
// A conversation at Version 1 is inserted; otherwise the replace only
// matches the document still holding Version-1, and a miss means a
// concurrent writer won.
func (r *mongoConversationRepository) Save(ctx context.Context, conversation *domain.CoachingConversation) error {
	if conversation.ID == "" || conversation.UserID == "" {
		return errors.New("conversation requires id and userId")
	}

	if conversation.Version <= 1 {
		conversation.Version = 1
		_, err := r.collection.InsertOne(ctx, conversation)
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}

	filter := bson.M{"_id": conversation.ID, "version": conversation.Version - 1}
	result, err := r.collection.ReplaceOne(ctx, filter, conversation)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the document vanished or another writer bumped the
		// version first. Distinguish so callers can retry on conflict.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": conversation.ID})
		if countErr == nil && count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

// EnsureConversationIndexes creates necessary indexes. Call during startup.
func EnsureConversationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One conversation per user.
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "checkIns.id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
