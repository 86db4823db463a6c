package transcriber

import "testing"

func TestStitchRemovesOverlap(t *testing.T) {
	got := Stitch([]string{"hello world today", "world today we begin"})
	want := "hello world today we begin"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStitchNoOverlapJoinsWithSpace(t *testing.T) {
	got := Stitch([]string{"foo", "bar"})
	if got != "foo bar" {
		t.Errorf("expected %q, got %q", "foo bar", got)
	}
}

func TestStitchSkipsEmptyChunks(t *testing.T) {
	got := Stitch([]string{"the meeting started late", "", "   ", "started late and ended early"})
	want := "the meeting started late and ended early"
	if got != want {
		t.Errorf("empty chunks should not break the overlap match: expected %q, got %q", want, got)
	}
}

func TestStitchAllEmpty(t *testing.T) {
	if got := Stitch([]string{"", "  ", "\n"}); got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestStitchSingleChunk(t *testing.T) {
	if got := Stitch([]string{"  only one chunk  "}); got != "only one chunk" {
		t.Errorf("expected trimmed passthrough, got %q", got)
	}
}

func TestStitchShortOverlapBelowThreshold(t *testing.T) {
	// "world" is only 5 runes, under the minimum probe window, so it
	// must not be deduplicated.
	got := Stitch([]string{"hello world", "world peace now"})
	want := "hello world world peace now"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStitchPrefersLongestMatch(t *testing.T) {
	// Both a 12-rune and a longer 17-rune match exist; the longer one
	// must win so no text is duplicated.
	prev := "and then we talked about the budget for next year"
	cur := "about the budget for next year and the hiring plan"
	got := Stitch([]string{prev, cur})
	want := "and then we talked about the budget for next year and the hiring plan"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStitchMultibyteRunes(t *testing.T) {
	// Hebrew text: the overlap window is counted in runes, not bytes.
	got := Stitch([]string{"הפגישה התחילה באיחור קטן", "באיחור קטן והסתיימה מוקדם"})
	want := "הפגישה התחילה באיחור קטן והסתיימה מוקדם"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStitchDeterministic(t *testing.T) {
	chunks := []string{"alpha beta gamma delta", "gamma delta epsilon zeta", "", "eta theta"}
	first := Stitch(chunks)
	for i := 0; i < 5; i++ {
		if got := Stitch(chunks); got != first {
			t.Fatalf("stitching is not deterministic: %q vs %q", first, got)
		}
	}
}
