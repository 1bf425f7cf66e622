package quran

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"quranbot/internal/bot"
	"quranbot/internal/catalog"
	"quranbot/internal/command"
	"quranbot/internal/playback"
)

const (
	trigger        = "!quran"
	maxMenuOptions = 25 // Discord's hard limit per select menu
)

type QuranCommand struct {
	Bot     bot.Voice
	Catalog *catalog.Catalog
}

func (c *QuranCommand) Name() string        { return "quran" }
func (c *QuranCommand) Description() string { return "Stream Quran recitation in your voice channel" }
func (c *QuranCommand) Category() string    { return "📖 Recitation" }

func (c *QuranCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *command.MessageContext:
		return c.runMessage(v)
	case *command.ComponentInteractionContext:
		return c.Component(v)
	}
	return nil
}

// runMessage answers the text trigger with chapter select menus.
func (c *QuranCommand) runMessage(ctx *command.MessageContext) error {
	if strings.TrimSpace(ctx.Event.Content) != trigger {
		return nil
	}

	content := "Select a chapter to begin recitation:"
	if rec, err := ctx.Storage.LastRecitation(ctx.Event.GuildID, ctx.Event.Author.ID); err == nil {
		content = fmt.Sprintf("Select a chapter to begin recitation.\nLast time you stopped at **%s**, verse %d.",
			rec.ChapterName, rec.LastVerse)
	}

	_, err := ctx.Session.ChannelMessageSendComplex(ctx.Event.ChannelID, &discordgo.MessageSend{
		Content:    content,
		Components: c.chapterMenus(),
	})
	if err != nil {
		return fmt.Errorf("sending chapter menus: %w", err)
	}
	return nil
}

// chapterMenus splits all chapters over select menus of 25 options each.
func (c *QuranCommand) chapterMenus() []discordgo.MessageComponent {
	chapters := c.Catalog.Chapters()

	var rows []discordgo.MessageComponent
	for start := 0; start < len(chapters); start += maxMenuOptions {
		end := start + maxMenuOptions
		if end > len(chapters) {
			end = len(chapters)
		}

		options := make([]discordgo.SelectMenuOption, 0, end-start)
		for _, ch := range chapters[start:end] {
			options = append(options, discordgo.SelectMenuOption{
				Label: fmt.Sprintf("%d. %s", ch.ID, ch.Name),
				Value: strconv.Itoa(ch.ID),
			})
		}

		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    fmt.Sprintf("quran_select_%d", start/maxMenuOptions),
					Placeholder: fmt.Sprintf("Chapters %d-%d", chapters[start].ID, chapters[end-1].ID),
					Options:     options,
				},
			},
		})
	}
	return rows
}

// Component routes select menu picks and playback control buttons.
func (c *QuranCommand) Component(ctx *command.ComponentInteractionContext) error {
	s := ctx.Session
	e := ctx.Event
	customID := e.MessageComponentData().CustomID
	user := interactionUser(e)
	if user == nil {
		// Never fall back to a placeholder id: sessions are keyed by user,
		// and a shared placeholder would hand one user's controls to another.
		return errors.New("could not resolve the interacting user")
	}

	if err := bot.RespondDeferredUpdate(s, e); err != nil {
		log.Printf("[ERR] Failed to ack component %s: %v", customID, err)
	}

	var err error
	switch {
	case strings.HasPrefix(customID, "quran_select_"):
		err = c.startFromSelect(ctx, user)
	case customID == "quran_previous":
		_, err = c.Bot.Controller().SkipTo(user.ID, playback.Previous)
	case customID == "quran_next":
		_, err = c.Bot.Controller().SkipTo(user.ID, playback.Next)
	case customID == "quran_playpause":
		_, err = c.Bot.Controller().TogglePause(user.ID)
	case customID == "quran_stop":
		err = c.Bot.Controller().Stop(user.ID)
	default:
		return nil
	}

	if err != nil {
		return bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: controlErrorText(err),
			Color:       bot.EmbedColor,
		})
	}
	return nil
}

func (c *QuranCommand) startFromSelect(ctx *command.ComponentInteractionContext, user *discordgo.User) error {
	values := ctx.Event.MessageComponentData().Values
	if len(values) == 0 {
		return errors.New("no chapter selected")
	}
	chapterID, err := strconv.Atoi(values[0])
	if err != nil {
		return fmt.Errorf("bad chapter value %q: %w", values[0], err)
	}

	vctx, err := c.Bot.BuildVoiceContext(ctx.Event.GuildID, user.ID, ctx.Event.ChannelID)
	if err != nil {
		return err
	}

	_, err = c.Bot.Controller().Start(user.ID, chapterID, vctx)
	return err
}

// controlErrorText maps controller errors to short user-facing messages.
func controlErrorText(err error) string {
	switch {
	case errors.Is(err, playback.ErrNoActiveSession):
		return "You have no active recitation. Type `!quran` to start one."
	case errors.Is(err, playback.ErrVoiceChannelRequired):
		return "Join a voice channel first, then pick a chapter."
	case errors.Is(err, playback.ErrChannelBusy):
		return "I'm already reciting for someone else in that channel."
	case errors.Is(err, playback.ErrChapterNotFound):
		return "That chapter does not exist."
	case errors.Is(err, playback.ErrPlaybackFailed):
		return "Playback failed. Try starting the recitation again."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// interactionUser returns the interacting user, or nil when the event
// carries neither member nor user.
func interactionUser(e *discordgo.InteractionCreate) *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	return e.User
}
