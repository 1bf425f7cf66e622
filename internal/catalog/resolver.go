package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolver builds fetchable audio locators for (chapter, verse) pairs.
// Pure construction over two integers; no I/O, no state.
type Resolver struct {
	BaseURL string
	Reciter int
}

// NewResolver returns a Resolver for the given CDN base URL and reciter id.
func NewResolver(baseURL string, reciter int) *Resolver {
	return &Resolver{BaseURL: strings.TrimRight(baseURL, "/"), Reciter: reciter}
}

// Resolve returns the audio locator for one verse:
// <base>/<reciter>/<chapter>_<verse>.mp3
func (r *Resolver) Resolve(chapterID, verse int) string {
	return fmt.Sprintf("%s/%d/%d_%d.mp3", r.BaseURL, r.Reciter, chapterID, verse)
}

// Parse recovers the (chapter, verse) pair encoded in a locator produced by
// Resolve.
func (r *Resolver) Parse(locator string) (chapterID, verse int, err error) {
	rest, ok := strings.CutPrefix(locator, r.BaseURL+"/"+strconv.Itoa(r.Reciter)+"/")
	if !ok {
		return 0, 0, fmt.Errorf("locator %q does not match base %q", locator, r.BaseURL)
	}
	rest, ok = strings.CutSuffix(rest, ".mp3")
	if !ok {
		return 0, 0, fmt.Errorf("locator %q has unexpected extension", locator)
	}

	chStr, vStr, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("locator %q has malformed verse reference", locator)
	}
	chapterID, err = strconv.Atoi(chStr)
	if err != nil {
		return 0, 0, fmt.Errorf("locator %q has malformed chapter id: %w", locator, err)
	}
	verse, err = strconv.Atoi(vStr)
	if err != nil {
		return 0, 0, fmt.Errorf("locator %q has malformed verse index: %w", locator, err)
	}
	return chapterID, verse, nil
}
