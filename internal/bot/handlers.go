package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"warden-automod/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	colorAction = 0xF59E0B
	colorError  = 0xEF4444
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if interaction.GuildID == "" {
		b.respondEmbed(session, interaction, b.commandEmbed("AutoMod", "This command only works inside a guild.", colorError, nil))
		return
	}

	ctx := context.Background()
	data := interaction.ApplicationCommandData()
	options := optionMap(data.Options)

	switch data.Name {
	case "rule-add":
		b.handleRuleAdd(ctx, session, interaction, options)
	case "rule-remove":
		b.handleRuleRemove(ctx, session, interaction, options)
	case "rule-toggle":
		b.handleRuleToggle(ctx, session, interaction, options)
	case "rule-list":
		b.handleRuleList(ctx, session, interaction)
	case "whitelist":
		b.handleWhitelist(ctx, session, interaction, options)
	case "config":
		b.handleConfig(ctx, session, interaction, options)
	case "trust":
		b.handleTrust(ctx, session, interaction, options)
	case "logs":
		b.handleLogs(ctx, session, interaction, options)
	case "stats":
		b.handleStats(ctx, session, interaction, options)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	result := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, option := range options {
		result[option.Name] = option
	}
	return result
}

func (b *Bot) handleRuleAdd(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ruleType := storage.RuleType(options["type"].StringValue())
	action := storage.Action(options["action"].StringValue())

	var params storage.RuleParams
	if option, ok := options["threshold"]; ok {
		threshold := int(option.IntValue())
		switch ruleType {
		case storage.RuleSpam:
			params.DuplicateCount = threshold
		case storage.RuleRateLimit:
			params.MessagesCount = threshold
		case storage.RuleMentions:
			params.MaxMentions = threshold
		case storage.RuleCaps:
			params.Percentage = threshold
		case storage.RuleEmojis:
			params.MaxEmojis = threshold
		}
	}
	if option, ok := options["window"]; ok {
		params.TimeWindow = int(option.IntValue())
	}
	if option, ok := options["words"]; ok {
		words := splitList(option.StringValue())
		if ruleType == storage.RuleLinks {
			params.Whitelist = words
		} else {
			params.Words = words
		}
	}

	rule := storage.Rule{
		GuildID:  interaction.GuildID,
		RuleType: ruleType,
		Action:   action,
		Enabled:  true,
		Params:   params,
	}
	if option, ok := options["duration"]; ok {
		rule.DurationSeconds = int(option.IntValue())
	}
	if option, ok := options["message"]; ok {
		rule.CustomMessage = option.StringValue()
	}

	created, err := b.store.CreateRule(ctx, rule)
	if err != nil {
		b.logger.Warn("rule create failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Could not create the rule: "+err.Error(), colorError, nil))
		return
	}
	b.cache.Invalidate(interaction.GuildID)

	fields := []*discordgo.MessageEmbedField{
		{Name: "Id", Value: created.ID.Hex(), Inline: true},
		{Name: "Type", Value: string(created.RuleType), Inline: true},
		{Name: "Action", Value: string(created.Action), Inline: true},
	}
	b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Rule created.", colorAction, fields))
}

func (b *Bot) handleRuleRemove(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	id, err := primitive.ObjectIDFromHex(options["id"].StringValue())
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Invalid rule id.", colorError, nil))
		return
	}
	if err := b.store.DeleteRule(ctx, interaction.GuildID, id); err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Could not delete the rule.", colorError, nil))
		return
	}
	b.cache.Invalidate(interaction.GuildID)
	b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Rule deleted.", colorAction, nil))
}

func (b *Bot) handleRuleToggle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	id, err := primitive.ObjectIDFromHex(options["id"].StringValue())
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Invalid rule id.", colorError, nil))
		return
	}
	enabled, err := b.store.ToggleRule(ctx, interaction.GuildID, id)
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Rule not found.", colorError, nil))
		return
	}
	b.cache.Invalidate(interaction.GuildID)
	b.respondEmbed(session, interaction, b.commandEmbed("Rules", fmt.Sprintf("Rule enabled: %t", enabled), colorAction, nil))
}

func (b *Bot) handleRuleList(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	rules, err := b.store.GuildRules(ctx, interaction.GuildID, "", false)
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "Could not list rules.", colorError, nil))
		return
	}
	if len(rules) == 0 {
		b.respondEmbed(session, interaction, b.commandEmbed("Rules", "No rules configured.", colorAction, nil))
		return
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(rules))
	for _, rule := range rules {
		state := "enabled"
		if !rule.Enabled {
			state = "disabled"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s → %s (%s)", rule.RuleType, rule.Action, state),
			Value: rule.ID.Hex(),
		})
	}
	b.respondEmbed(session, interaction, b.commandEmbed("Rules", fmt.Sprintf("%d rules configured.", len(rules)), colorAction, fields))
}

func (b *Bot) handleWhitelist(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	id, err := primitive.ObjectIDFromHex(options["id"].StringValue())
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Whitelist", "Invalid rule id.", colorError, nil))
		return
	}
	role := options["role"].RoleValue(session, interaction.GuildID)
	if role == nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Whitelist", "Role not found.", colorError, nil))
		return
	}
	if err := b.store.AddWhitelistRole(ctx, interaction.GuildID, id, role.ID); err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Whitelist", "Rule not found.", colorError, nil))
		return
	}
	b.cache.Invalidate(interaction.GuildID)
	fields := []*discordgo.MessageEmbedField{{Name: "Role", Value: "<@&" + role.ID + ">", Inline: true}}
	b.respondEmbed(session, interaction, b.commandEmbed("Whitelist", "Role exempted from the rule.", colorAction, fields))
}

func (b *Bot) handleConfig(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	setting := options["setting"].StringValue()
	guildID := interaction.GuildID

	var err error
	detail := ""
	switch setting {
	case "enable":
		err = b.store.UpdateGuildSettings(ctx, guildID, bson.M{"enabled": true})
		detail = "AutoMod enabled."
	case "disable":
		err = b.store.UpdateGuildSettings(ctx, guildID, bson.M{"enabled": false})
		detail = "AutoMod disabled."
	case "dm-users":
		on := optionOn(options)
		err = b.store.UpdateGuildSettings(ctx, guildID, bson.M{"dm_users": on})
		detail = fmt.Sprintf("DM notifications: %t", on)
	case "progressive":
		on := optionOn(options)
		err = b.store.UpdateGuildSettings(ctx, guildID, bson.M{"progressive_penalties": on})
		detail = fmt.Sprintf("Progressive penalties: %t", on)
	case "log-channel":
		channel := channelOption(options, session)
		if channel == nil {
			b.respondEmbed(session, interaction, b.commandEmbed("Config", "A channel is required.", colorError, nil))
			return
		}
		err = b.store.UpdateGuildSettings(ctx, guildID, bson.M{"log_channel_id": channel.ID})
		detail = "Log channel set to <#" + channel.ID + ">."
	case "ignore-channel":
		channel := channelOption(options, session)
		if channel == nil {
			b.respondEmbed(session, interaction, b.commandEmbed("Config", "A channel is required.", colorError, nil))
			return
		}
		err = b.store.AddIgnoredChannel(ctx, guildID, channel.ID)
		detail = "Ignoring <#" + channel.ID + ">."
	case "immune-role":
		option, ok := options["role"]
		if !ok {
			b.respondEmbed(session, interaction, b.commandEmbed("Config", "A role is required.", colorError, nil))
			return
		}
		role := option.RoleValue(session, guildID)
		err = b.store.AddImmuneRole(ctx, guildID, role.ID)
		detail = "Role <@&" + role.ID + "> is now immune."
	case "raid":
		raid, parseErr := parseRaidValue(options)
		if parseErr != nil {
			b.respondEmbed(session, interaction, b.commandEmbed("Config", parseErr.Error(), colorError, nil))
			return
		}
		err = b.store.UpdateGuildSettings(ctx, guildID, bson.M{"raid": raid})
		detail = fmt.Sprintf("Raid protection: %d joins / %ds → %s", raid.JoinThreshold, raid.WindowSeconds, raid.Action)
	default:
		b.respondEmbed(session, interaction, b.commandEmbed("Config", "Unknown setting.", colorError, nil))
		return
	}

	if err != nil {
		b.logger.Warn("settings update failed", zap.String("guild_id", guildID), zap.Error(err))
		b.respondEmbed(session, interaction, b.commandEmbed("Config", "Update failed.", colorError, nil))
		return
	}
	b.cache.Invalidate(guildID)
	b.respondEmbed(session, interaction, b.commandEmbed("Config", detail, colorAction, nil))
}

func (b *Bot) handleTrust(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	user := options["user"].UserValue(session)
	score, found, err := b.store.GetTrust(ctx, interaction.GuildID, user.ID)
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Trust", "Lookup failed.", colorError, nil))
		return
	}
	if !found {
		b.respondEmbed(session, interaction, b.commandEmbed("Trust", "No trust record yet for <@"+user.ID+">.", colorAction, nil))
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Score", Value: strconv.Itoa(score.Score), Inline: true},
		{Name: "Violations", Value: strconv.Itoa(score.ViolationsCount), Inline: true},
		{Name: "Account age (days)", Value: strconv.Itoa(score.AccountAgeDays), Inline: true},
	}
	if recent, err := b.analytics.UserCount(ctx, interaction.GuildID, user.ID, 30); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Violations (30d)", Value: strconv.Itoa(recent), Inline: true,
		})
	}
	if score.LastViolation != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Last violation", Value: score.LastViolation.Format("2006-01-02 15:04"), Inline: true,
		})
	}
	b.respondEmbed(session, interaction, b.commandEmbed("Trust", "Trust score for <@"+user.ID+">", colorAction, fields))
}

func (b *Bot) handleLogs(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	user := options["user"].UserValue(session)
	entries, err := b.store.RecentViolations(ctx, interaction.GuildID, user.ID, 24*time.Hour)
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Logs", "Lookup failed.", colorError, nil))
		return
	}
	if len(entries) == 0 {
		b.respondEmbed(session, interaction, b.commandEmbed("Logs", "No violations in the last 24h.", colorAction, nil))
		return
	}

	limit := len(entries)
	if limit > 10 {
		limit = 10
	}
	fields := make([]*discordgo.MessageEmbedField, 0, limit)
	for _, entry := range entries[:limit] {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s · %s", entry.CreatedAt.Format("15:04"), entry.Action),
			Value: fmt.Sprintf("%s — %s", entry.RuleType, entry.Reason),
		})
	}
	b.respondEmbed(session, interaction, b.commandEmbed("Logs", fmt.Sprintf("%d violations in the last 24h.", len(entries)), colorAction, fields))
}

func (b *Bot) handleStats(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	days := 7
	if option, ok := options["days"]; ok {
		days = int(option.IntValue())
	}
	stats, err := b.analytics.Report(ctx, interaction.GuildID, days)
	if err != nil {
		b.respondEmbed(session, interaction, b.commandEmbed("Stats", "Report failed.", colorError, nil))
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Total", Value: strconv.Itoa(stats.Total), Inline: true},
	}
	for _, bucket := range stats.ByAction {
		fields = append(fields, &discordgo.MessageEmbedField{Name: bucket.Key, Value: strconv.Itoa(bucket.Count), Inline: true})
	}
	if len(stats.TopViolators) > 0 {
		var lines []string
		for _, bucket := range stats.TopViolators {
			lines = append(lines, fmt.Sprintf("<@%s> — %d", bucket.Key, bucket.Count))
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Top violators", Value: strings.Join(lines, "\n")})
	}
	b.respondEmbed(session, interaction, b.commandEmbed("Stats", fmt.Sprintf("Last %d days.", days), colorAction, fields))
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func optionOn(options map[string]*discordgo.ApplicationCommandInteractionDataOption) bool {
	option, ok := options["value"]
	if !ok {
		return true
	}
	value := strings.ToLower(option.StringValue())
	return value == "on" || value == "true" || value == "1"
}

func channelOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, session *discordgo.Session) *discordgo.Channel {
	option, ok := options["channel"]
	if !ok {
		return nil
	}
	return option.ChannelValue(session)
}

// parseRaidValue reads "threshold:window:action", e.g. "8:10:kick".
func parseRaidValue(options map[string]*discordgo.ApplicationCommandInteractionDataOption) (storage.RaidConfig, error) {
	option, ok := options["value"]
	if !ok {
		return storage.RaidConfig{}, fmt.Errorf("value is required, format threshold:window:action")
	}
	value := option.StringValue()
	if strings.EqualFold(value, "off") {
		return storage.RaidConfig{Enabled: false}, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return storage.RaidConfig{}, fmt.Errorf("expected threshold:window:action, got %q", value)
	}
	threshold, err := strconv.Atoi(parts[0])
	if err != nil {
		return storage.RaidConfig{}, fmt.Errorf("bad threshold %q", parts[0])
	}
	window, err := strconv.Atoi(parts[1])
	if err != nil {
		return storage.RaidConfig{}, fmt.Errorf("bad window %q", parts[1])
	}
	action := storage.Action(parts[2])
	if action != storage.ActionKick && action != storage.ActionBan {
		return storage.RaidConfig{}, fmt.Errorf("raid action must be kick or ban")
	}
	return storage.RaidConfig{Enabled: true, JoinThreshold: threshold, WindowSeconds: window, Action: action}, nil
}
