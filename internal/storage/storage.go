package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collRules      = "automod_rules"
	collTrust      = "trust_scores"
	collViolations = "violations"
	collSettings   = "guild_settings"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close(ctx context.Context) {
	if s.client != nil {
		_ = s.client.Disconnect(ctx)
	}
}

func (s *Store) rules() *mongo.Collection      { return s.db.Collection(collRules) }
func (s *Store) trust() *mongo.Collection      { return s.db.Collection(collTrust) }
func (s *Store) violations() *mongo.Collection { return s.db.Collection(collViolations) }
func (s *Store) settings() *mongo.Collection   { return s.db.Collection(collSettings) }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.rules().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "rule_type", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("rules index: %w", err)
	}

	_, err = s.trust().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("trust index: %w", err)
	}

	_, err = s.violations().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("violations index: %w", err)
	}

	_, err = s.settings().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("settings index: %w", err)
	}
	return nil
}
