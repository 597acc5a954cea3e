package bot

import (
	"context"
	"fmt"
	"time"

	"warden-automod/internal/analytics"
	"warden-automod/internal/automod"
	"warden-automod/internal/checks"
	"warden-automod/internal/config"
	"warden-automod/internal/storage"
	"warden-automod/internal/trust"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *storage.Store
	cache     *storage.Cache
	trust     *trust.Engine
	engine    *automod.Engine
	raid      *automod.RaidWatcher
	analytics *analytics.Service
	session   *discordgo.Session
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, cache *storage.Cache, trustEngine *trust.Engine, analyticsSvc *analytics.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		cache:     cache,
		trust:     trustEngine,
		analytics: analyticsSvc,
		session:   session,
	}

	engine := automod.NewEngine(automod.Config{
		DefaultMuteSeconds: cfg.Automod.DefaultMuteSeconds,
		PenaltyWindow:      time.Duration(cfg.Automod.PenaltyWindowMinutes) * time.Minute,
	}, cache, trustEngine, store, newPlatform(session), checks.NewRegistry(), logger)
	b.engine = engine
	b.raid = automod.NewRaidWatcher(cache, engine, logger)

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onGuildMemberAdd)
	session.AddHandler(b.onInteractionCreate)
	return b, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}

func (b *Bot) Close(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		_ = b.session.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.engine.SetBotUserID(event.User.ID)
	b.logger.Info("gateway ready",
		zap.String("user_id", event.User.ID),
		zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil {
		return
	}

	msg := checks.Message{
		GuildID:      event.GuildID,
		ChannelID:    event.ChannelID,
		MessageID:    event.ID,
		UserID:       event.Author.ID,
		Content:      event.Content,
		MentionUsers: len(event.Mentions),
		MentionRoles: len(event.MentionRoles),
		IsBot:        event.Author.Bot,
		IsWebhook:    event.WebhookID != "",
	}
	if event.Member != nil {
		msg.AuthorRoles = event.Member.Roles
	}
	if created, err := discordgo.SnowflakeTimestamp(event.Author.ID); err == nil {
		msg.AccountAgeDays = b.trust.AccountAgeDays(created)
	}

	ctx := context.Background()
	result := b.engine.HandleMessage(ctx, msg)
	if !result.Triggered {
		return
	}

	b.logger.Info("rule triggered",
		zap.String("guild_id", msg.GuildID),
		zap.String("user_id", msg.UserID),
		zap.String("rule_type", string(result.RuleType)),
		zap.String("action", string(result.Action)),
		zap.String("outcome", result.Outcome.String()))

	b.mirrorToLogChannel(result)
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.Member == nil || event.Member.User == nil {
		return
	}
	guildID := event.Member.GuildID
	userID := event.Member.User.ID
	if b.raid.HandleJoin(context.Background(), guildID, userID) {
		b.logger.Warn("raid action applied",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID))
	}
}

func (b *Bot) mirrorToLogChannel(result automod.Result) {
	channelID := result.Settings.LogChannelID
	if channelID == "" {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title: "AutoMod",
		Color: 0xF59E0B,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: "<@" + result.Entry.UserID + ">", Inline: true},
			{Name: "Rule", Value: string(result.RuleType), Inline: true},
			{Name: "Action", Value: result.Entry.Action, Inline: true},
			{Name: "Reason", Value: result.Reason},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if result.Entry.MessageExcerpt != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Message", Value: result.Entry.MessageExcerpt,
		})
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("log channel send failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("interaction respond failed", zap.Error(err))
	}
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
