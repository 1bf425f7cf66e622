package discord

import (
	"log"

	"quranbot/internal/catalog"
	"quranbot/internal/storage"
)

// recorder persists where a recitation ended. It implements
// playback.Recorder; failures are logged, never surfaced.
type recorder struct {
	store   *storage.Storage
	catalog *catalog.Catalog
}

func (r *recorder) Record(guildID, userID string, chapterID, lastVerse int) {
	ch, ok := r.catalog.Lookup(chapterID)
	if !ok {
		return
	}
	if err := r.store.SetLastRecitation(guildID, userID, ch.ID, ch.Name, lastVerse); err != nil {
		log.Printf("[WARN] Failed to record recitation for user %s: %v", userID, err)
	}
}
