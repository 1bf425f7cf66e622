// Package catalog holds the static chapter reference data and the audio
// locator resolver. The chapter table is embedded at build time and loaded
// once at process start; everything here is read-only afterwards.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed chapters.json
var chaptersJSON []byte

// Chapter is one catalog entry: a surah with its fixed verse count.
type Chapter struct {
	ID         int    `json:"surah"`
	Name       string `json:"name"`
	VerseCount int    `json:"ayahs"`
}

// Catalog is the ordered, immutable chapter set.
type Catalog struct {
	chapters []Chapter
	byID     map[int]Chapter
}

// Load parses the embedded chapter table. Chapter ids must densely
// enumerate 1..N with positive verse counts.
func Load() (*Catalog, error) {
	var chapters []Chapter
	if err := json.Unmarshal(chaptersJSON, &chapters); err != nil {
		return nil, fmt.Errorf("failed to parse chapter table: %w", err)
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("chapter table is empty")
	}

	byID := make(map[int]Chapter, len(chapters))
	for i, ch := range chapters {
		if ch.ID != i+1 {
			return nil, fmt.Errorf("chapter table not dense: entry %d has id %d", i, ch.ID)
		}
		if ch.VerseCount < 1 {
			return nil, fmt.Errorf("chapter %d (%s) has invalid verse count %d", ch.ID, ch.Name, ch.VerseCount)
		}
		byID[ch.ID] = ch
	}

	return &Catalog{chapters: chapters, byID: byID}, nil
}

// Lookup returns the chapter with the given id.
func (c *Catalog) Lookup(id int) (Chapter, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Total returns the number of chapters.
func (c *Catalog) Total() int {
	return len(c.chapters)
}

// Chapters returns the chapter list in catalog order.
func (c *Catalog) Chapters() []Chapter {
	out := make([]Chapter, len(c.chapters))
	copy(out, c.chapters)
	return out
}

// Next returns the id after the given chapter, wrapping past the last
// chapter back to the first.
func (c *Catalog) Next(id int) int {
	if id >= len(c.chapters) {
		return 1
	}
	return id + 1
}

// Prev returns the id before the given chapter, wrapping before the first
// chapter to the last.
func (c *Catalog) Prev(id int) int {
	if id <= 1 {
		return len(c.chapters)
	}
	return id - 1
}
