// /internal/command/core/slash_support.go
package core

import (
	"github.com/bwmarrin/discordgo"

	"quranbot/internal/bot"
	"quranbot/internal/command"
)

type SupportCommand struct{}

func (c *SupportCommand) Name() string        { return "support" }
func (c *SupportCommand) Description() string { return "How to get help and support the project" }
func (c *SupportCommand) Category() string    { return "🕯️ Information" }

func (c *SupportCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *SupportCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	return bot.RespondEmbedEphemeral(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title: "📖 Support",
		Description: "Type `!quran` in any text channel to pick a chapter and start a recitation " +
			"in your voice channel.\n\n" +
			"Use the buttons under the status message to go to the previous or next chapter, " +
			"pause, resume, or stop.\n\n" +
			"Found a bug or have an idea? Open an issue on the project repository.",
		Color: bot.EmbedColor,
	})
}
