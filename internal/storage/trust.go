package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitialTrustScore is a step function of account age at first contact.
func InitialTrustScore(accountAgeDays int) int {
	switch {
	case accountAgeDays < 7:
		return 30
	case accountAgeDays < 30:
		return 50
	case accountAgeDays < 180:
		return 70
	default:
		return 100
	}
}

func (s *Store) GetOrCreateTrust(ctx context.Context, guildID, userID string, accountAgeDays int) (TrustScore, error) {
	filter := bson.M{"guild_id": guildID, "user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"guild_id":         guildID,
			"user_id":          userID,
			"score":            InitialTrustScore(accountAgeDays),
			"account_age_days": accountAgeDays,
			"violations_count": 0,
			"created_at":       time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var score TrustScore
	if err := s.trust().FindOneAndUpdate(ctx, filter, update, opts).Decode(&score); err != nil {
		return TrustScore{}, fmt.Errorf("get or create trust: %w", err)
	}
	return score, nil
}

func (s *Store) GetTrust(ctx context.Context, guildID, userID string) (TrustScore, bool, error) {
	var score TrustScore
	err := s.trust().FindOne(ctx, bson.M{"guild_id": guildID, "user_id": userID}).Decode(&score)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return TrustScore{}, false, nil
		}
		return TrustScore{}, false, fmt.Errorf("find trust: %w", err)
	}
	return score, true, nil
}

// ApplyTrustDelta increments the score and appends one history entry, then
// re-clamps to [0,100]. Returns false when no document exists for the user.
func (s *Store) ApplyTrustDelta(ctx context.Context, guildID, userID string, delta int, reason string) (bool, error) {
	filter := bson.M{"guild_id": guildID, "user_id": userID}
	update := bson.M{
		"$inc":  bson.M{"score": delta},
		"$push": bson.M{"history": TrustHistoryEntry{Change: delta, Reason: reason, At: time.Now()}},
	}
	result, err := s.trust().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("apply trust delta: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, nil
	}
	if err := s.clampTrust(ctx, guildID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// IncrementViolations is the compound {score -5, violations_count +1} update.
// It applies in addition to the action-specific delta on every enforcement.
func (s *Store) IncrementViolations(ctx context.Context, guildID, userID string) error {
	now := time.Now()
	_, err := s.trust().UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID},
		bson.M{
			"$inc": bson.M{"score": -5, "violations_count": 1},
			"$set": bson.M{"last_violation": now},
		},
	)
	if err != nil {
		return fmt.Errorf("increment violations: %w", err)
	}
	return s.clampTrust(ctx, guildID, userID)
}

// clampTrust re-clamps the score after every $inc-style update so it never
// leaves [0,100].
func (s *Store) clampTrust(ctx context.Context, guildID, userID string) error {
	_, err := s.trust().UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "score": bson.M{"$lt": 0}},
		bson.M{"$set": bson.M{"score": 0}},
	)
	if err != nil {
		return fmt.Errorf("clamp trust low: %w", err)
	}
	_, err = s.trust().UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "score": bson.M{"$gt": 100}},
		bson.M{"$set": bson.M{"score": 100}},
	)
	if err != nil {
		return fmt.Errorf("clamp trust high: %w", err)
	}
	return nil
}
