package transcriber

import "strings"

// Probe window for the overlap search, in runes. Matches shorter than
// minOverlapRunes are too likely to be coincidence; anything longer than
// maxOverlapRunes costs more than it catches.
const (
	minOverlapRunes = 10
	maxOverlapRunes = 80
)

// Stitch joins per-chunk transcripts in order into one transcript.
// Adjacent chunks were cut with overlapping audio, so the tail of one
// transcript usually repeats at the head of the next; the largest exact
// rune match inside the probe window is dropped from the later chunk.
// When no match is found the two fragments are joined with a single
// space. Empty or whitespace-only chunk texts are skipped entirely and
// never take part in the matching.
//
// The match is deliberately literal. Legitimate text that happens to
// repeat at a boundary is deduplicated too; that rare false positive is
// the price of a deterministic, alignment-free join.
func Stitch(chunks []string) string {
	var out strings.Builder

	for _, chunk := range chunks {
		cur := strings.TrimSpace(chunk)
		if cur == "" {
			continue
		}
		if out.Len() == 0 {
			out.WriteString(cur)
			continue
		}

		if k := overlapBytes(out.String(), cur); k > 0 {
			out.WriteString(cur[k:])
		} else {
			out.WriteString(" ")
			out.WriteString(cur)
		}
	}

	return out.String()
}

// overlapBytes returns the byte length of the longest suffix of prev
// that equals a prefix of cur, searched over [minOverlapRunes,
// maxOverlapRunes] runes. Zero means no acceptable overlap.
func overlapBytes(prev, cur string) int {
	prevRunes := []rune(prev)
	curRunes := []rune(cur)

	max := maxOverlapRunes
	if len(prevRunes) < max {
		max = len(prevRunes)
	}
	if len(curRunes) < max {
		max = len(curRunes)
	}

	for k := max; k >= minOverlapRunes; k-- {
		head := string(curRunes[:k])
		if strings.HasSuffix(prev, head) {
			return len(head)
		}
	}

	return 0
}
