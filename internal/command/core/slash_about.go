// /internal/command/core/slash_about.go
package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"quranbot/internal/bot"
	"quranbot/internal/command"
	"quranbot/internal/version"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Discover the origin of this bot" }
func (c *AboutCommand) Category() string    { return "🕯️ Information" }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *AboutCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	return bot.RespondEmbedEphemeral(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       version.AppFullName,
		Description: fmt.Sprintf("Version `%s`\n\nStreams Quran recitation to your voice channel, one verse at a time.", version.AppVersion),
		Color:       bot.EmbedColor,
	})
}
