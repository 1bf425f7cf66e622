package bot

import "quranbot/internal/playback"

// Voice is what recitation commands need from the Discord runtime: the
// playback controller and a way to resolve the requester's voice situation.
type Voice interface {
	Controller() *playback.Controller

	// BuildVoiceContext resolves the user's voice channel and counts the
	// other listeners sharing the bot's current channel in the guild.
	BuildVoiceContext(guildID, userID, textChannelID string) (playback.VoiceContext, error)
}
