package bot

import (
	"fmt"
	"net/http"
	"time"

	"warden-automod/internal/automod"

	"github.com/bwmarrin/discordgo"
)

// discordPlatform adapts a discordgo session to the engine's Platform
// interface, mapping REST failures onto the typed conditions the pipeline
// swallows.
type discordPlatform struct {
	session *discordgo.Session
}

func newPlatform(session *discordgo.Session) *discordPlatform {
	return &discordPlatform{session: session}
}

func (p *discordPlatform) IsElevated(guildID, channelID, userID string) (bool, error) {
	perms, err := p.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, wrapDiscordErr(err)
	}
	elevated := perms&discordgo.PermissionAdministrator != 0 ||
		perms&discordgo.PermissionManageServer != 0
	return elevated, nil
}

func (p *discordPlatform) DeleteMessage(channelID, messageID string) error {
	return wrapDiscordErr(p.session.ChannelMessageDelete(channelID, messageID))
}

func (p *discordPlatform) Timeout(guildID, userID string, until time.Time) error {
	return wrapDiscordErr(p.session.GuildMemberTimeout(guildID, userID, &until))
}

func (p *discordPlatform) Kick(guildID, userID, reason string) error {
	return wrapDiscordErr(p.session.GuildMemberDeleteWithReason(guildID, userID, reason))
}

func (p *discordPlatform) Ban(guildID, userID, reason string) error {
	return wrapDiscordErr(p.session.GuildBanCreateWithReason(guildID, userID, reason, 0))
}

func (p *discordPlatform) DM(userID, content string) error {
	channel, err := p.session.UserChannelCreate(userID)
	if err != nil {
		return wrapDiscordErr(err)
	}
	_, err = p.session.ChannelMessageSend(channel.ID, content)
	return wrapDiscordErr(err)
}

func wrapDiscordErr(err error) error {
	if err == nil {
		return nil
	}
	restErr, ok := err.(*discordgo.RESTError)
	if !ok {
		return err
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %v", automod.ErrPermissionDenied, err)
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownMember,
			discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %v", automod.ErrNotFound, err)
		}
	}
	if restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", automod.ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", automod.ErrNotFound, err)
		}
	}
	return err
}
