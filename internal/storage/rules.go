package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrRuleNotFound = errors.New("rule not found")

// defaultParams fills the per-type defaults into params. Values already set
// win, except block_all_links, which is always stored on. Thresholds beyond
// the defaults are stored as provided, without further validation.
func defaultParams(ruleType RuleType, params RuleParams) RuleParams {
	switch ruleType {
	case RuleSpam:
		if params.DuplicateCount == 0 {
			params.DuplicateCount = 3
		}
		if params.TimeWindow == 0 {
			params.TimeWindow = 10
		}
	case RuleRateLimit:
		if params.MessagesCount == 0 {
			params.MessagesCount = 5
		}
		if params.TimeWindow == 0 {
			params.TimeWindow = 5
		}
	case RuleLinks:
		// The evaluator has no block_all_links=false mode; the flag is
		// forced on so stored rules state it explicitly.
		params.BlockAllLinks = true
	case RuleMentions:
		if params.MaxMentions == 0 {
			params.MaxMentions = 5
		}
	case RuleCaps:
		if params.MinLength == 0 {
			params.MinLength = 10
		}
		if params.Percentage == 0 {
			params.Percentage = 70
		}
	case RuleEmojis:
		if params.MaxEmojis == 0 {
			params.MaxEmojis = 5
		}
	}
	return params
}

func (s *Store) CreateRule(ctx context.Context, rule Rule) (Rule, error) {
	if !ValidRuleType(rule.RuleType) {
		return Rule{}, fmt.Errorf("unknown rule type %q", rule.RuleType)
	}
	if !ValidAction(rule.Action) {
		return Rule{}, fmt.Errorf("unknown action %q", rule.Action)
	}

	now := time.Now()
	rule.ID = primitive.NewObjectID()
	rule.Params = defaultParams(rule.RuleType, rule.Params)
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if _, err := s.rules().InsertOne(ctx, rule); err != nil {
		return Rule{}, fmt.Errorf("insert rule: %w", err)
	}
	return rule, nil
}

func (s *Store) GuildRules(ctx context.Context, guildID string, ruleType RuleType, enabledOnly bool) ([]Rule, error) {
	filter := bson.M{"guild_id": guildID}
	if ruleType != "" {
		filter["rule_type"] = ruleType
	}
	if enabledOnly {
		filter["enabled"] = true
	}

	cursor, err := s.rules().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []Rule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return rules, nil
}

func (s *Store) GetRule(ctx context.Context, guildID string, id primitive.ObjectID) (Rule, error) {
	var rule Rule
	err := s.rules().FindOne(ctx, bson.M{"_id": id, "guild_id": guildID}).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Rule{}, ErrRuleNotFound
	}
	if err != nil {
		return Rule{}, fmt.Errorf("find rule: %w", err)
	}
	return rule, nil
}

func (s *Store) UpdateRule(ctx context.Context, guildID string, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := s.rules().UpdateOne(ctx,
		bson.M{"_id": id, "guild_id": guildID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (s *Store) ToggleRule(ctx context.Context, guildID string, id primitive.ObjectID) (bool, error) {
	rule, err := s.GetRule(ctx, guildID, id)
	if err != nil {
		return false, err
	}
	enabled := !rule.Enabled
	if err := s.UpdateRule(ctx, guildID, id, bson.M{"enabled": enabled}); err != nil {
		return false, err
	}
	return enabled, nil
}

func (s *Store) DeleteRule(ctx context.Context, guildID string, id primitive.ObjectID) error {
	_, err := s.rules().DeleteOne(ctx, bson.M{"_id": id, "guild_id": guildID})
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}

func (s *Store) AddWhitelistRole(ctx context.Context, guildID string, id primitive.ObjectID, roleID string) error {
	result, err := s.rules().UpdateOne(ctx,
		bson.M{"_id": id, "guild_id": guildID},
		bson.M{
			"$addToSet": bson.M{"whitelist_roles": roleID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("add whitelist role: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}
