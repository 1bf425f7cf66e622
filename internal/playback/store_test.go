package playback_test

import (
	"sync"
	"testing"

	"quranbot/internal/playback"
)

func TestStoreBasics(t *testing.T) {
	t.Parallel()

	st := playback.NewStore()

	if st.Exists("u1") {
		t.Error("empty store should not report u1")
	}
	if _, ok := st.Get("u1"); ok {
		t.Error("Get on empty store should miss")
	}

	st.Set(&playback.Session{UserID: "u1", ChapterID: 3, CurrentVerse: 1})
	if !st.Exists("u1") {
		t.Fatal("u1 should exist after Set")
	}
	s, ok := st.Get("u1")
	if !ok || s.ChapterID != 3 {
		t.Fatalf("Get(u1) = %+v, %v", s, ok)
	}

	st.Delete("u1")
	if st.Exists("u1") {
		t.Error("u1 should be gone after Delete")
	}
	if got := len(st.All()); got != 0 {
		t.Errorf("All() len = %d, want 0", got)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	st := playback.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			st.Set(&playback.Session{UserID: id})
			st.Get(id)
			st.Exists(id)
			st.Delete(id)
		}(i)
	}
	wg.Wait()

	if got := len(st.All()); got != 0 {
		t.Errorf("All() len = %d, want 0", got)
	}
}
