package playback

import (
	"context"
	"sync"
)

// Session is one user's playback state: the chapter being recited, the next
// verse to play, and the transport handles the session owns. At most one
// live Session exists per user.
//
// All mutation happens under mu so that concurrent events for the same user
// (a rapid double press, an idle signal racing a stop) serialize. Different
// users' sessions are fully independent.
type Session struct {
	UserID        string
	GuildID       string
	TextChannelID string
	VoiceChannel  string

	ChapterID    int
	CurrentVerse int // next verse to play; VerseCount+1 means exhausted
	Paused       bool

	player  Player
	conn    Connection
	surface SurfaceRef

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// Context returns the session-lifetime context, cancelled on termination.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Closed reports whether the session has been torn down. Callers holding
// s.mu get a stable answer; anyone else only a hint.
func (s *Session) Closed() bool {
	return s.closed
}
