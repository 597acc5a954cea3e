package bot

import "github.com/bwmarrin/discordgo"

func (b *Bot) registerCommands() error {
	manageGuild := int64(discordgo.PermissionManageServer)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:                     "rule-add",
			Description:              "Add a moderation rule",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "Rule type",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "spam", Value: "spam"},
						{Name: "rate_limit", Value: "rate_limit"},
						{Name: "links", Value: "links"},
						{Name: "invites", Value: "invites"},
						{Name: "mentions", Value: "mentions"},
						{Name: "caps", Value: "caps"},
						{Name: "emojis", Value: "emojis"},
						{Name: "blacklist", Value: "blacklist"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Action on trigger",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "delete", Value: "delete"},
						{Name: "warn", Value: "warn"},
						{Name: "mute", Value: "mute"},
						{Name: "kick", Value: "kick"},
						{Name: "ban", Value: "ban"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "threshold",
					Description: "Type-specific threshold (count, percentage or limit)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "window",
					Description: "Time window in seconds (spam, rate_limit)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "words",
					Description: "Comma-separated word list (blacklist) or whitelist (links)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "duration",
					Description: "Mute duration in seconds",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Custom DM message",
				},
			},
		},
		{
			Name:                     "rule-remove",
			Description:              "Delete a moderation rule",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "Rule id",
					Required:    true,
				},
			},
		},
		{
			Name:                     "rule-toggle",
			Description:              "Enable or disable a moderation rule",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "Rule id",
					Required:    true,
				},
			},
		},
		{
			Name:                     "rule-list",
			Description:              "List this guild's moderation rules",
			DefaultMemberPermissions: &manageGuild,
		},
		{
			Name:                     "whitelist",
			Description:              "Exempt a role from one rule",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "Rule id",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to exempt",
					Required:    true,
				},
			},
		},
		{
			Name:                     "config",
			Description:              "Change automod settings",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "setting",
					Description: "Setting to change",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "enable", Value: "enable"},
						{Name: "disable", Value: "disable"},
						{Name: "log-channel", Value: "log-channel"},
						{Name: "dm-users", Value: "dm-users"},
						{Name: "progressive", Value: "progressive"},
						{Name: "immune-role", Value: "immune-role"},
						{Name: "ignore-channel", Value: "ignore-channel"},
						{Name: "raid", Value: "raid"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "on/off for toggles, threshold:window:action for raid",
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for log-channel / ignore-channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role for immune-role",
				},
			},
		},
		{
			Name:                     "trust",
			Description:              "Show a member's trust score",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member",
					Required:    true,
				},
			},
		},
		{
			Name:                     "logs",
			Description:              "Show a member's recent violations",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member",
					Required:    true,
				},
			},
		},
		{
			Name:                     "stats",
			Description:              "Guild moderation statistics",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "days",
					Description: "Trailing window in days (default 7)",
				},
			},
		},
	}

	for _, command := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", command); err != nil {
			return err
		}
	}
	return nil
}
