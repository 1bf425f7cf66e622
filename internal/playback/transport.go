package playback

import (
	"context"
	"io"

	"quranbot/internal/catalog"
)

// Resource is one verse's decoded audio stream. Closing it releases the
// underlying fetch and decode resources.
type Resource interface {
	io.ReadCloser
}

// PlayerStatus reports what a Player is currently doing.
type PlayerStatus string

const (
	StatusPlaying PlayerStatus = "playing"
	StatusPaused  PlayerStatus = "paused"
	StatusIdle    PlayerStatus = "idle"
)

// Transport provides voice connectivity and audio fetch/decode. The
// controller only ever talks to these three contracts; the wire protocols
// behind them belong to the host library.
type Transport interface {
	// FetchAndDecode produces a playable PCM stream for the locator.
	// Cancelling ctx aborts the fetch and kills the decoder.
	FetchAndDecode(ctx context.Context, locator string) (Resource, error)

	// NewPlayer creates an unstarted audio player.
	NewPlayer() Player

	// JoinVoice connects to a voice channel.
	JoinVoice(guildID, channelID string) (Connection, error)
}

// Player is the ownership-exclusive audio player handle held by a Session.
type Player interface {
	// Play starts streaming the resource, replacing any stream in flight.
	Play(Resource) error
	Pause()
	Resume()
	Status() PlayerStatus

	// OnIdle registers the callback fired when a stream drains naturally.
	// It never fires for streams cut off by Play or Close.
	OnIdle(func())

	Close() error
}

// Connection is the ownership-exclusive voice connection handle held by a
// Session.
type Connection interface {
	Subscribe(Player) error
	Destroy() error
}

// SurfaceRef identifies a rendered status surface. Opaque to the controller;
// only the Presenter that produced it can interpret it.
type SurfaceRef any

// Presenter renders session state as a user-visible status surface and
// removes it when the session ends.
type Presenter interface {
	// RenderStatus creates the status surface on first call (ref == nil)
	// and updates it afterwards, returning the current ref.
	RenderStatus(ref SurfaceRef, channelID string, ch catalog.Chapter, verse int) (SurfaceRef, error)

	// Finish replaces the surface with a completion notice and removes it.
	Finish(ref SurfaceRef, ch catalog.Chapter) error

	// Fail replaces the surface with a failure notice and removes it.
	Fail(ref SurfaceRef, cause error) error

	// Remove deletes the surface without any notice.
	Remove(ref SurfaceRef) error
}

// Recorder receives a best-effort note of where a recitation ended.
// Implementations must not block playback teardown.
type Recorder interface {
	Record(guildID, userID string, chapterID, lastVerse int)
}

// VoiceContext carries the voice-channel facts Start validates.
type VoiceContext struct {
	GuildID       string
	ChannelID     string // empty when the user is not in a voice channel
	TextChannelID string // where the status surface is rendered
	Listeners     int    // other users sharing the bot's current channel
}
