package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ExtractRange cuts [start, start+length) out of src into dst without
// re-encoding. ffmpeg clips the requested length at end of file, so a
// final short chunk needs no special handling by the caller. dst should
// carry the same container extension as src for the stream copy to work.
func (t *Toolbox) ExtractRange(ctx context.Context, src string, start, length float64, dst string) error {
	cmd := t.command(ctx,
		"-y",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(length),
		"-i", src,
		"-c", "copy",
		dst,
	)
	stderr := attachStderr(cmd)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExtract, strings.TrimSpace(stderr.String()), err)
	}

	return nil
}

func formatSeconds(secs float64) string {
	return strconv.FormatFloat(secs, 'f', 3, 64)
}
