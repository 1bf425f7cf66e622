package audio

import (
	"bytes"
	"io"
	"testing"
	"time"

	"quranbot/internal/playback"
)

type stubEncoder struct{}

func (stubEncoder) Encode(pcm []int16, frameSize, maxBytes int) ([]byte, error) {
	return []byte{0xF8}, nil
}

type bufResource struct {
	io.Reader
}

func (bufResource) Close() error { return nil }

func pcmFrames(n int) playback.Resource {
	return bufResource{bytes.NewReader(make([]byte, n*frameSize*channels*2))}
}

func newTestPlayer(sink chan []byte) *Player {
	p := newPlayer()
	p.enc = stubEncoder{}
	p.setSink(sink)
	return p
}

func drain(t *testing.T, sink chan []byte, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-sink:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d of %d", i+1, n)
		}
	}
}

func TestPlayerStreamsAllFramesThenGoesIdle(t *testing.T) {
	t.Parallel()

	sink := make(chan []byte)
	p := newTestPlayer(sink)
	idle := make(chan struct{})
	p.OnIdle(func() { close(idle) })

	if err := p.Play(pcmFrames(3)); err != nil {
		t.Fatalf("Play: %v", err)
	}
	drain(t, sink, 3)

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("idle callback never fired")
	}
	if got := p.Status(); got != playback.StatusIdle {
		t.Fatalf("status = %q, want %q", got, playback.StatusIdle)
	}
}

func TestPlayerPauseGateHoldsFrames(t *testing.T) {
	t.Parallel()

	sink := make(chan []byte)
	p := newTestPlayer(sink)
	p.Pause()

	if err := p.Play(pcmFrames(2)); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := p.Status(); got != playback.StatusPaused {
		t.Fatalf("status = %q, want %q", got, playback.StatusPaused)
	}
	select {
	case <-sink:
		t.Fatal("received a frame while paused")
	case <-time.After(100 * time.Millisecond):
	}

	p.Resume()
	drain(t, sink, 2)
}

func TestPlayerCloseDoesNotFireIdle(t *testing.T) {
	t.Parallel()

	sink := make(chan []byte)
	p := newTestPlayer(sink)
	idle := make(chan struct{})
	p.OnIdle(func() { close(idle) })

	if err := p.Play(pcmFrames(50)); err != nil {
		t.Fatalf("Play: %v", err)
	}
	drain(t, sink, 1)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case <-idle:
		t.Fatal("idle callback fired for a stopped stream")
	case <-time.After(100 * time.Millisecond):
	}
	if err := p.Play(pcmFrames(1)); err == nil {
		t.Fatal("Play on a closed player should fail")
	}
}

func TestPlayerPlayReplacesRunningStream(t *testing.T) {
	t.Parallel()

	sink := make(chan []byte)
	p := newTestPlayer(sink)
	idle := make(chan struct{}, 2)
	p.OnIdle(func() { idle <- struct{}{} })

	if err := p.Play(pcmFrames(50)); err != nil {
		t.Fatalf("Play: %v", err)
	}
	drain(t, sink, 1)

	if err := p.Play(pcmFrames(2)); err != nil {
		t.Fatalf("second Play: %v", err)
	}
	drain(t, sink, 2)

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("idle callback never fired for the replacement stream")
	}
	if len(idle) != 0 {
		t.Fatal("replaced stream fired the idle callback")
	}
}
