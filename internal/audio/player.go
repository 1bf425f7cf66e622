package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"layeh.com/gopus"

	"quranbot/internal/playback"
)

type opusEncoder interface {
	Encode(pcm []int16, frameSize, maxBytes int) ([]byte, error)
}

// Player streams s16le PCM resources as opus frames into a voice sink.
// One stream goroutine runs at a time; Play stops the previous one first.
type Player struct {
	mu     sync.Mutex
	cond   *sync.Cond
	enc    opusEncoder
	sink   chan<- []byte
	status playback.PlayerStatus
	paused bool
	idleFn func()
	stopCh chan struct{}
	doneCh chan struct{}
	closed bool
}

func newPlayer() *Player {
	p := &Player{status: playback.StatusIdle}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *Player) setSink(sink chan<- []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = sink
}

func (p *Player) getSink() chan<- []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink
}

// OnIdle registers the callback fired when a stream drains to its natural
// end. It never fires for a stopped stream.
func (p *Player) OnIdle(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idleFn = fn
}

func (p *Player) idleCallback() func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleFn
}

func (p *Player) Status() playback.PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Play replaces any running stream with the given resource. The pause gate
// carries over, so a paused player stays silent until Resume.
func (p *Player) Play(res playback.Resource) error {
	p.stopCurrent()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		res.Close()
		return errors.New("player is closed")
	}
	if p.enc == nil {
		enc, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
		if err != nil {
			p.mu.Unlock()
			res.Close()
			return fmt.Errorf("opus encoder error: %w", err)
		}
		p.enc = enc
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	p.stopCh, p.doneCh = stop, done
	if p.paused {
		p.status = playback.StatusPaused
	} else {
		p.status = playback.StatusPlaying
	}
	p.mu.Unlock()

	go p.run(res, stop, done)
	return nil
}

func (p *Player) run(res playback.Resource, stop, done chan struct{}) {
	finished, err := p.stream(res, stop)
	res.Close()

	p.mu.Lock()
	p.status = playback.StatusIdle
	p.mu.Unlock()
	close(done)

	if err != nil {
		log.Printf("[ERR] audio stream: %v", err)
	}
	if finished {
		if fn := p.idleCallback(); fn != nil {
			fn()
		}
	}
}

func (p *Player) stream(res io.Reader, stop chan struct{}) (bool, error) {
	pcm := make([]byte, frameSize*channels*2)
	frame := make([]int16, frameSize*channels)

	for {
		if !p.gate(stop) {
			return false, nil
		}
		if _, err := io.ReadFull(res, pcm); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return true, nil
			}
			return false, fmt.Errorf("reading pcm: %w", err)
		}
		for i := range frame {
			frame[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		}
		data, err := p.enc.Encode(frame, frameSize, len(pcm))
		if err != nil {
			return false, fmt.Errorf("encoding frame: %w", err)
		}
		sink := p.getSink()
		if sink == nil {
			return false, errors.New("no voice sink subscribed")
		}
		select {
		case sink <- data:
		case <-stop:
			return false, nil
		}
	}
}

// gate blocks while the player is paused. It reports false once the stream
// has been stopped.
func (p *Player) gate(stop chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.paused {
		if stopped(stop) {
			return false
		}
		p.cond.Wait()
	}
	return !stopped(stop)
}

func stopped(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	if p.status == playback.StatusPlaying {
		p.status = playback.StatusPaused
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = false
	if p.status == playback.StatusPaused {
		p.status = playback.StatusPlaying
	}
	p.cond.Broadcast()
}

func (p *Player) stopCurrent() {
	p.mu.Lock()
	stop, done := p.stopCh, p.doneCh
	if stop != nil {
		select {
		case <-stop:
		default:
			close(stop)
		}
	}
	p.cond.Broadcast()
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (p *Player) Close() error {
	p.stopCurrent()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.status = playback.StatusIdle
	return nil
}
