package bot_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"quranbot/internal/bot"
)

// captureTransport records request bodies instead of talking to Discord.
type captureTransport struct {
	bodies [][]byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	c.bodies = append(c.bodies, body)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(`{}`))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func TestFollowupEmbedEphemeralSetsEphemeralFlag(t *testing.T) {
	t.Parallel()

	dg, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("discordgo.New: %v", err)
	}
	capture := &captureTransport{}
	dg.Client = &http.Client{Transport: capture}

	e := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		AppID: "app-1",
		Token: "interaction-token",
	}}
	if err := bot.FollowupEmbedEphemeral(dg, e, &discordgo.MessageEmbed{Description: "err"}); err != nil {
		t.Fatalf("FollowupEmbedEphemeral: %v", err)
	}

	if len(capture.bodies) != 1 {
		t.Fatalf("requests sent = %d, want 1", len(capture.bodies))
	}
	var params struct {
		Flags discordgo.MessageFlags `json:"flags"`
	}
	if err := json.Unmarshal(capture.bodies[0], &params); err != nil {
		t.Fatalf("decoding webhook params: %v", err)
	}
	if params.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("flags = %d, ephemeral bit missing", params.Flags)
	}
}
