package quran_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"quranbot/internal/command"
	"quranbot/internal/command/quran"
)

func TestComponentRejectsUnresolvableUser(t *testing.T) {
	t.Parallel()

	c := &quran.QuranCommand{}
	ctx := &command.ComponentInteractionContext{
		Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: "quran_stop"},
		}},
	}

	// Neither Member nor User on the event: the handler must bail out
	// before touching the controller or acknowledging anything.
	if err := c.Component(ctx); err == nil {
		t.Fatal("Component accepted an event with no resolvable user")
	}
}
