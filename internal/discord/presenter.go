package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"quranbot/internal/bot"
	"quranbot/internal/catalog"
	"quranbot/internal/playback"
)

// statusMessage locates the status surface of one session.
type statusMessage struct {
	ChannelID string
	MessageID string
}

// presenter renders session state as an embed with playback control buttons
// under it. It implements playback.Presenter.
type presenter struct {
	dg *discordgo.Session
}

func (p *presenter) RenderStatus(ref playback.SurfaceRef, channelID string, ch catalog.Chapter, verse int) (playback.SurfaceRef, error) {
	embed := statusEmbed(ch, verse)
	components := controlButtons()

	if ref == nil {
		msg, err := p.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		})
		if err != nil {
			return nil, fmt.Errorf("sending status message: %w", err)
		}
		return &statusMessage{ChannelID: channelID, MessageID: msg.ID}, nil
	}

	sm, ok := ref.(*statusMessage)
	if !ok {
		return nil, fmt.Errorf("unsupported surface ref %T", ref)
	}
	_, err := p.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    sm.ChannelID,
		ID:         sm.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		return nil, fmt.Errorf("editing status message: %w", err)
	}
	return sm, nil
}

func (p *presenter) Finish(ref playback.SurfaceRef, ch catalog.Chapter) error {
	if sm, ok := ref.(*statusMessage); ok {
		bot.MessageEmbed(p.dg, sm.ChannelID, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Finished reciting **%s**.", ch.Name),
			Color:       bot.EmbedColor,
		})
	}
	return p.Remove(ref)
}

func (p *presenter) Fail(ref playback.SurfaceRef, cause error) error {
	if sm, ok := ref.(*statusMessage); ok {
		bot.MessageEmbed(p.dg, sm.ChannelID, &discordgo.MessageEmbed{
			Description: "Recitation stopped: the audio could not be fetched.",
			Color:       bot.EmbedColor,
		})
	}
	log.Printf("[ERR] Recitation failed: %v", cause)
	return p.Remove(ref)
}

func (p *presenter) Remove(ref playback.SurfaceRef) error {
	sm, ok := ref.(*statusMessage)
	if !ok {
		return nil
	}
	if err := p.dg.ChannelMessageDelete(sm.ChannelID, sm.MessageID); err != nil {
		return fmt.Errorf("deleting status message: %w", err)
	}
	return nil
}

func statusEmbed(ch catalog.Chapter, verse int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📖 %d. %s", ch.ID, ch.Name),
		Description: fmt.Sprintf("Reciting verse **%d** of **%d**", verse, ch.VerseCount),
		Color:       bot.EmbedColor,
	}
}

func controlButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "◀️"},
					CustomID: "quran_previous",
				},
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "⏯️"},
					CustomID: "quran_playpause",
				},
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "⏹️"},
					CustomID: "quran_stop",
				},
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
					CustomID: "quran_next",
				},
			},
		},
	}
}
