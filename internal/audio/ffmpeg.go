package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sync"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// httpStatusError carries an upstream HTTP status so the retry layer can
// tell overload from a genuinely missing verse.
type httpStatusError struct {
	code int
	url  string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.code, e.url)
}

func (e *httpStatusError) StatusCode() int { return e.code }

// openPCMStream fetches the locator and pipes the response body through an
// ffmpeg child process, yielding interleaved s16le PCM at 48kHz stereo.
// Cancelling ctx aborts the fetch and kills the decoder.
func openPCMStream(ctx context.Context, client *http.Client, url string) (io.ReadCloser, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, &httpStatusError{code: resp.StatusCode, url: url}
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-analyzeduration", "0",
		"-f", "mp3",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)
	cmd.Stdin = resp.Body

	out, err := cmd.StdoutPipe()
	if err != nil {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		cmd.Process.Kill()
		resp.Body.Close()
		cmd.Wait()
	}
	return out, cleanup, nil
}

// resource couples a PCM stream with the cleanup releasing its fetch and
// decoder. Close is idempotent.
type resource struct {
	io.ReadCloser
	cleanup func()
	once    sync.Once
}

func (r *resource) Close() error {
	var err error
	r.once.Do(func() {
		err = r.ReadCloser.Close()
		if r.cleanup != nil {
			r.cleanup()
		}
	})
	return err
}
