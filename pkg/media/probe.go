package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Probe returns the total duration of an audio file in seconds.
func (t *Toolbox) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe(),
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	stderr := attachStderr(cmd)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrProbe, strings.TrimSpace(stderr.String()), err)
	}

	return parseProbeDuration(string(out))
}

func parseProbeDuration(out string) (float64, error) {
	raw := strings.TrimSpace(out)
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable duration %q", ErrProbe, raw)
	}
	if secs < 0 {
		return 0, fmt.Errorf("%w: negative duration %q", ErrProbe, raw)
	}

	return secs, nil
}
