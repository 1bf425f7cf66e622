package catalog_test

import (
	"testing"

	"quranbot/internal/catalog"
)

func TestResolverRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	r := catalog.NewResolver("https://quranaudio.pages.dev", 1)

	for _, ch := range c.Chapters() {
		for _, verse := range []int{1, ch.VerseCount} {
			loc := r.Resolve(ch.ID, verse)
			gotCh, gotV, err := r.Parse(loc)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", loc, err)
			}
			if gotCh != ch.ID || gotV != verse {
				t.Fatalf("round trip (%d,%d) -> %q -> (%d,%d)", ch.ID, verse, loc, gotCh, gotV)
			}
		}
	}
}

func TestResolverLocatorShape(t *testing.T) {
	t.Parallel()

	r := catalog.NewResolver("https://quranaudio.pages.dev/", 2)
	got := r.Resolve(36, 12)
	want := "https://quranaudio.pages.dev/2/36_12.mp3"
	if got != want {
		t.Errorf("Resolve(36, 12) = %q, want %q", got, want)
	}
}

func TestResolverParseRejectsForeignLocators(t *testing.T) {
	t.Parallel()

	r := catalog.NewResolver("https://quranaudio.pages.dev", 1)

	for _, loc := range []string{
		"https://example.com/1/1_1.mp3",
		"https://quranaudio.pages.dev/1/1_1.ogg",
		"https://quranaudio.pages.dev/1/abc.mp3",
		"https://quranaudio.pages.dev/1/1_x.mp3",
	} {
		if _, _, err := r.Parse(loc); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", loc)
		}
	}
}
