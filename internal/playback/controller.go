package playback

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quranbot/internal/catalog"
)

var (
	ErrChapterNotFound      = errors.New("chapter not found")
	ErrNoActiveSession      = errors.New("no active playback session")
	ErrVoiceChannelRequired = errors.New("user is not in a voice channel")
	ErrChannelBusy          = errors.New("voice channel already serves other listeners")
	ErrPlaybackFailed       = errors.New("playback failed")
)

// Direction selects which neighbouring chapter SkipTo moves to.
type Direction int

const (
	Next Direction = iota
	Previous
)

// PlayState is the outcome of an advance.
type PlayState int

const (
	StatePlaying PlayState = iota
	StateFinished
	StatePaused
)

// PlayResult reports what an advance did.
type PlayResult struct {
	State     PlayState
	ChapterID int
	Verse     int
}

// ControllerConfig holds the collaborators a Controller needs.
type ControllerConfig struct {
	Catalog   *catalog.Catalog
	Resolver  *catalog.Resolver
	Transport Transport
	Presenter Presenter
	Recorder  Recorder // optional
}

// Controller owns every Session mutation: what verse plays next, when a
// chapter is exhausted, and how control commands move the state machine.
// It is the sole writer of Session state.
type Controller struct {
	catalog   *catalog.Catalog
	resolver  *catalog.Resolver
	transport Transport
	presenter Presenter
	recorder  Recorder
	store     *Store
}

// NewController wires a Controller with an empty session store.
func NewController(cfg ControllerConfig) *Controller {
	return &Controller{
		catalog:   cfg.Catalog,
		resolver:  cfg.Resolver,
		transport: cfg.Transport,
		presenter: cfg.Presenter,
		recorder:  cfg.Recorder,
		store:     NewStore(),
	}
}

// Store exposes the session store for existence checks and teardown.
func (c *Controller) Store() *Store {
	return c.store
}

// Start validates the request, creates the user's Session, acquires the
// transport handles, and plays the first verse. An existing session for the
// same user is torn down first.
func (c *Controller) Start(userID string, chapterID int, vctx VoiceContext) (*Session, error) {
	ch, ok := c.catalog.Lookup(chapterID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrChapterNotFound, chapterID)
	}
	if vctx.ChannelID == "" {
		return nil, ErrVoiceChannelRequired
	}
	if vctx.Listeners > 0 {
		return nil, ErrChannelBusy
	}

	if c.store.Exists(userID) {
		log.Printf("[Controller] Replacing existing session for user %s", userID)
		if err := c.Stop(userID); err != nil && !errors.Is(err, ErrNoActiveSession) {
			return nil, fmt.Errorf("failed to stop previous session: %w", err)
		}
	}

	player := c.transport.NewPlayer()
	conn, err := c.transport.JoinVoice(vctx.GuildID, vctx.ChannelID)
	if err != nil {
		player.Close()
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	if err := conn.Subscribe(player); err != nil {
		player.Close()
		conn.Destroy()
		return nil, fmt.Errorf("failed to subscribe player: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		UserID:        userID,
		GuildID:       vctx.GuildID,
		TextChannelID: vctx.TextChannelID,
		VoiceChannel:  vctx.ChannelID,
		ChapterID:     ch.ID,
		CurrentVerse:  1,
		player:        player,
		conn:          conn,
		ctx:           ctx,
		cancel:        cancel,
	}
	player.OnIdle(func() {
		// Bound to this session, not the user id: a drain signal from a
		// replaced session's player must not advance its successor.
		if _, err := c.advanceSession(sess); err != nil && !errors.Is(err, ErrNoActiveSession) {
			log.Printf("[Controller] Advance after idle failed for user %s: %v", userID, err)
		}
	})
	c.store.Set(sess)

	log.Printf("[Controller] Session started | user=%s chapter=%d (%s)", userID, ch.ID, ch.Name)

	if _, err := c.Advance(userID); err != nil {
		return nil, err
	}
	return sess, nil
}

// Advance plays the session's next verse, or finishes the session when the
// chapter is exhausted. A paused session is left untouched.
func (c *Controller) Advance(userID string) (PlayResult, error) {
	sess, ok := c.store.Get(userID)
	if !ok {
		return PlayResult{}, ErrNoActiveSession
	}
	return c.advanceSession(sess)
}

// advanceSession advances one specific session. The identity check against
// the store rejects signals from sessions the user has since replaced.
func (c *Controller) advanceSession(sess *Session) (PlayResult, error) {
	cur, ok := c.store.Get(sess.UserID)
	if !ok || cur != sess {
		return PlayResult{}, ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return PlayResult{}, ErrNoActiveSession
	}
	return c.advanceLocked(sess)
}

// TogglePause flips the session's pause state and suspends or resumes the
// player. The verse position is untouched. Returns the new paused state.
func (c *Controller) TogglePause(userID string) (bool, error) {
	sess, ok := c.store.Get(userID)
	if !ok {
		return false, ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return false, ErrNoActiveSession
	}

	sess.Paused = !sess.Paused
	if sess.Paused {
		sess.player.Pause()
	} else {
		sess.player.Resume()
	}
	log.Printf("[Controller] Pause toggled | user=%s paused=%v", userID, sess.Paused)
	return sess.Paused, nil
}

// SkipTo moves to the neighbouring chapter with circular wraparound, resets
// the verse position, and plays immediately. Skipping while paused resumes
// playback so the selection is heard right away.
func (c *Controller) SkipTo(userID string, dir Direction) (PlayResult, error) {
	sess, ok := c.store.Get(userID)
	if !ok {
		return PlayResult{}, ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return PlayResult{}, ErrNoActiveSession
	}

	if dir == Next {
		sess.ChapterID = c.catalog.Next(sess.ChapterID)
	} else {
		sess.ChapterID = c.catalog.Prev(sess.ChapterID)
	}
	sess.CurrentVerse = 1
	if sess.Paused {
		sess.Paused = false
		sess.player.Resume()
	}

	log.Printf("[Controller] Skip | user=%s chapter=%d", userID, sess.ChapterID)
	return c.advanceLocked(sess)
}

// Stop terminates the session immediately: handles released, surface
// removed without a completion notice, session deleted from the store.
func (c *Controller) Stop(userID string) error {
	sess, ok := c.store.Get(userID)
	if !ok {
		return ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return ErrNoActiveSession
	}

	if sess.surface != nil {
		if err := c.presenter.Remove(sess.surface); err != nil {
			log.Printf("[Controller] Failed to remove status surface for user %s: %v", userID, err)
		}
	}
	c.teardownLocked(sess)
	log.Printf("[Controller] Session stopped | user=%s", userID)
	return nil
}

// Shutdown stops every live session. Used at process teardown.
func (c *Controller) Shutdown() {
	for _, sess := range c.store.All() {
		if err := c.Stop(sess.UserID); err != nil && !errors.Is(err, ErrNoActiveSession) {
			log.Printf("[Controller] Shutdown stop failed for user %s: %v", sess.UserID, err)
		}
	}
}

// advanceLocked is the central transition. Caller holds sess.mu.
func (c *Controller) advanceLocked(sess *Session) (PlayResult, error) {
	if sess.Paused {
		return PlayResult{State: StatePaused, ChapterID: sess.ChapterID, Verse: sess.CurrentVerse}, nil
	}

	ch, ok := c.catalog.Lookup(sess.ChapterID)
	if !ok {
		c.teardownLocked(sess)
		return PlayResult{}, fmt.Errorf("%w: %d", ErrChapterNotFound, sess.ChapterID)
	}

	if sess.CurrentVerse > ch.VerseCount {
		if sess.surface != nil {
			if err := c.presenter.Finish(sess.surface, ch); err != nil {
				log.Printf("[Controller] Failed to finish status surface for user %s: %v", sess.UserID, err)
			}
		}
		c.teardownLocked(sess)
		log.Printf("[Controller] Chapter finished | user=%s chapter=%d (%s)", sess.UserID, ch.ID, ch.Name)
		return PlayResult{State: StateFinished, ChapterID: ch.ID}, nil
	}

	locator := c.resolver.Resolve(ch.ID, sess.CurrentVerse)
	res, err := c.transport.FetchAndDecode(sess.ctx, locator)
	if err != nil {
		return PlayResult{}, c.failLocked(sess, fmt.Errorf("fetching %s: %w", locator, err))
	}
	if err := sess.player.Play(res); err != nil {
		res.Close()
		return PlayResult{}, c.failLocked(sess, fmt.Errorf("playing %s: %w", locator, err))
	}

	verse := sess.CurrentVerse
	surface, err := c.presenter.RenderStatus(sess.surface, sess.TextChannelID, ch, verse)
	if err != nil {
		// Losing the control surface is not worth losing the audio.
		log.Printf("[Controller] Failed to render status for user %s: %v", sess.UserID, err)
	} else {
		sess.surface = surface
	}

	sess.CurrentVerse++
	log.Printf("[Controller] Playing verse %d of chapter %d (%s) | user=%s", verse, ch.ID, ch.Name, sess.UserID)
	return PlayResult{State: StatePlaying, ChapterID: ch.ID, Verse: verse}, nil
}

// failLocked makes a fetch/decode failure terminal: failure notice on the
// surface, handles released, session deleted. Caller holds sess.mu.
func (c *Controller) failLocked(sess *Session, cause error) error {
	log.Printf("[Controller] Playback failure for user %s: %v", sess.UserID, cause)
	if sess.surface != nil {
		if err := c.presenter.Fail(sess.surface, cause); err != nil {
			log.Printf("[Controller] Failed to report failure for user %s: %v", sess.UserID, err)
		}
	}
	c.teardownLocked(sess)
	return fmt.Errorf("%w: %v", ErrPlaybackFailed, cause)
}

// teardownLocked releases the session's handles and removes it from the
// store. Caller holds sess.mu.
func (c *Controller) teardownLocked(sess *Session) {
	sess.closed = true
	sess.cancel()
	if err := sess.player.Close(); err != nil {
		log.Printf("[Controller] Player close failed for user %s: %v", sess.UserID, err)
	}
	if err := sess.conn.Destroy(); err != nil {
		log.Printf("[Controller] Connection destroy failed for user %s: %v", sess.UserID, err)
	}
	c.store.Delete(sess.UserID)

	if c.recorder != nil {
		lastVerse := sess.CurrentVerse - 1
		if lastVerse < 0 {
			lastVerse = 0
		}
		c.recorder.Record(sess.GuildID, sess.UserID, sess.ChapterID, lastVerse)
	}
}
