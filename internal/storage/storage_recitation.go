// /internal/storage/storage_recitation.go
package storage

import (
	"fmt"
	"time"
)

// SetLastRecitation records where a user's recitation stopped. A lastVerse
// of zero means nothing finished playing and is not worth remembering.
func (s *Storage) SetLastRecitation(guildID, userID string, chapterID int, chapterName string, lastVerse int) error {
	if lastVerse < 1 {
		return nil
	}

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.Recitations[userID] = RecitationRecord{
		ChapterID:   chapterID,
		ChapterName: chapterName,
		LastVerse:   lastVerse,
		Datetime:    time.Now(),
	}
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) LastRecitation(guildID, userID string) (*RecitationRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	rec, exists := record.Recitations[userID]
	if !exists {
		return nil, fmt.Errorf("no recitation history for user %s", userID)
	}

	return &rec, nil
}
