package discord

import (
	"fmt"

	"quranbot/internal/playback"
)

// BuildVoiceContext resolves the user's voice channel and counts the other
// listeners occupying the bot's current channel when it matches the target.
func (b *Bot) BuildVoiceContext(guildID, userID, textChannelID string) (playback.VoiceContext, error) {
	vctx := playback.VoiceContext{
		GuildID:       guildID,
		TextChannelID: textChannelID,
	}

	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return vctx, fmt.Errorf("error retrieving guild: %w", err)
	}

	botID := b.dg.State.User.ID
	var botChannel string
	for _, vs := range guild.VoiceStates {
		switch vs.UserID {
		case userID:
			vctx.ChannelID = vs.ChannelID
		case botID:
			botChannel = vs.ChannelID
		}
	}

	// The channel only counts as busy when the bot is already in it serving
	// somebody other than the requester.
	if botChannel != "" && botChannel == vctx.ChannelID {
		for _, vs := range guild.VoiceStates {
			if vs.ChannelID == botChannel && vs.UserID != botID && vs.UserID != userID {
				vctx.Listeners++
			}
		}
	}

	return vctx, nil
}
