package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogViolation appends one enforcement record. Entries are never updated or
// deleted individually.
func (s *Store) LogViolation(ctx context.Context, entry Violation) (Violation, error) {
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := s.violations().InsertOne(ctx, entry); err != nil {
		return Violation{}, fmt.Errorf("insert violation: %w", err)
	}
	return entry, nil
}

// RecentViolations returns entries within the trailing window, newest first.
// The window is short (progressive-penalty lookback), so no pagination.
func (s *Store) RecentViolations(ctx context.Context, guildID, userID string, window time.Duration) ([]Violation, error) {
	cutoff := time.Now().Add(-window)
	cursor, err := s.violations().Find(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "created_at": bson.M{"$gte": cutoff}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find recent violations: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []Violation
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode violations: %w", err)
	}
	return entries, nil
}

func (s *Store) CountViolations(ctx context.Context, guildID, userID string, days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	count, err := s.violations().CountDocuments(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "created_at": bson.M{"$gte": cutoff}},
	)
	if err != nil {
		return 0, fmt.Errorf("count violations: %w", err)
	}
	return int(count), nil
}

type BucketCount struct {
	Key   string `bson:"_id"`
	Count int    `bson:"count"`
}

type Statistics struct {
	Total        int
	ByAction     []BucketCount
	ByRuleType   []BucketCount
	TopViolators []BucketCount
}

func (s *Store) ViolationStatistics(ctx context.Context, guildID string, days int) (Statistics, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	match := bson.D{{Key: "$match", Value: bson.M{
		"guild_id":   guildID,
		"created_at": bson.M{"$gte": cutoff},
	}}}

	stats := Statistics{}

	byAction, err := s.aggregateBuckets(ctx, mongo.Pipeline{
		match,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		return Statistics{}, fmt.Errorf("stats by action: %w", err)
	}
	stats.ByAction = byAction
	for _, bucket := range byAction {
		stats.Total += bucket.Count
	}

	stats.ByRuleType, err = s.aggregateBuckets(ctx, mongo.Pipeline{
		match,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$rule_type", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		return Statistics{}, fmt.Errorf("stats by rule type: %w", err)
	}

	stats.TopViolators, err = s.aggregateBuckets(ctx, mongo.Pipeline{
		match,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$user_id", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
		bson.D{{Key: "$limit", Value: 10}},
	})
	if err != nil {
		return Statistics{}, fmt.Errorf("stats top violators: %w", err)
	}

	return stats, nil
}

func (s *Store) aggregateBuckets(ctx context.Context, pipeline mongo.Pipeline) ([]BucketCount, error) {
	cursor, err := s.violations().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []BucketCount
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}
