package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"quranbot/internal/playback"
	"quranbot/pkg/retrylimit"
)

// TransportConfig bounds how long and how often the transport will try to
// fetch one verse.
type TransportConfig struct {
	FetchTimeout time.Duration
	FetchRetries int
}

// Transport is the discordgo-backed playback transport. Fetches go through
// an adaptive rate limiter so a struggling CDN gets backed off instead of
// hammered.
type Transport struct {
	dg      *discordgo.Session
	client  *http.Client
	limiter *retrylimit.AdaptiveLimiter
	retries int
}

func NewTransport(dg *discordgo.Session, cfg TransportConfig) *Transport {
	return &Transport{
		dg: dg,
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.FetchTimeout,
			},
		},
		limiter: retrylimit.NewAdaptiveLimiter(4, 1, 8, 2, 0.5),
		retries: cfg.FetchRetries,
	}
}

// FetchAndDecode fetches the locator and hands back a decoded PCM stream.
// A 404 is terminal; transient statuses are retried with backoff.
func (t *Transport) FetchAndDecode(ctx context.Context, locator string) (playback.Resource, error) {
	var res playback.Resource
	err := retrylimit.WithRetryMax(ctx, func() error {
		rc, cleanup, err := openPCMStream(ctx, t.client, locator)
		if err != nil {
			var statusErr *httpStatusError
			if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
				return &retrylimit.FatalError{Err: err}
			}
			return err
		}
		res = &resource{ReadCloser: rc, cleanup: cleanup}
		return nil
	}, t.limiter, t.retries)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (t *Transport) NewPlayer() playback.Player {
	return newPlayer()
}

func (t *Transport) JoinVoice(guildID, channelID string) (playback.Connection, error) {
	vc, err := t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("joining voice channel %s: %w", channelID, err)
	}
	return &connection{vc: vc}, nil
}

type connection struct {
	vc *discordgo.VoiceConnection
}

func (c *connection) Subscribe(p playback.Player) error {
	ap, ok := p.(*Player)
	if !ok {
		return fmt.Errorf("unsupported player type %T", p)
	}
	if err := c.vc.Speaking(true); err != nil {
		log.Printf("[ERR] setting speaking state: %v", err)
	}
	ap.setSink(c.vc.OpusSend)
	return nil
}

func (c *connection) Destroy() error {
	if err := c.vc.Speaking(false); err != nil {
		log.Printf("[ERR] clearing speaking state: %v", err)
	}
	return c.vc.Disconnect()
}
