package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetGuildSettings returns the stored settings, creating the default document
// on first access.
func (s *Store) GetGuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	var settings GuildSettings
	err := s.settings().FindOne(ctx, bson.M{"guild_id": guildID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings = DefaultGuildSettings(guildID)
		if _, insertErr := s.settings().InsertOne(ctx, settings); insertErr != nil {
			// A concurrent first access can win the insert; re-read.
			if !mongo.IsDuplicateKeyError(insertErr) {
				return GuildSettings{}, fmt.Errorf("insert settings: %w", insertErr)
			}
			if readErr := s.settings().FindOne(ctx, bson.M{"guild_id": guildID}).Decode(&settings); readErr != nil {
				return GuildSettings{}, fmt.Errorf("reread settings: %w", readErr)
			}
		}
		return settings, nil
	}
	if err != nil {
		return GuildSettings{}, fmt.Errorf("find settings: %w", err)
	}
	return settings, nil
}

// UpdateGuildSettings merges the given fields into the stored document.
func (s *Store) UpdateGuildSettings(ctx context.Context, guildID string, set bson.M) error {
	_, err := s.settings().UpdateOne(ctx,
		bson.M{"guild_id": guildID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"guild_id": guildID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func (s *Store) AddImmuneRole(ctx context.Context, guildID, roleID string) error {
	_, err := s.settings().UpdateOne(ctx,
		bson.M{"guild_id": guildID},
		bson.M{"$addToSet": bson.M{"immune_roles": roleID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add immune role: %w", err)
	}
	return nil
}

func (s *Store) AddIgnoredChannel(ctx context.Context, guildID, channelID string) error {
	_, err := s.settings().UpdateOne(ctx,
		bson.M{"guild_id": guildID},
		bson.M{"$addToSet": bson.M{"ignored_channels": channelID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add ignored channel: %w", err)
	}
	return nil
}
