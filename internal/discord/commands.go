package discord

import (
	"quranbot/internal/command"
	"quranbot/internal/command/core"
	"quranbot/internal/command/quran"
	"quranbot/internal/middleware"
)

// registerPlaybackCommands wires the command set with the live bot instance.
func (b *Bot) registerPlaybackCommands() {
	command.RegisterCommand(
		&quran.QuranCommand{Bot: b, Catalog: b.catalog},
		middleware.WithGuildOnly(),
		middleware.WithCommandLogger(),
	)
	command.RegisterCommand(&core.SupportCommand{}, middleware.WithCommandLogger())
	command.RegisterCommand(&core.AboutCommand{}, middleware.WithCommandLogger())
}
