package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Merge joins several voice note parts into one opus file. Each part is
// first normalized to the same codec parameters, then joined with the
// concat demuxer using stream copy. The result is probed and rejected
// when shorter than a second, which catches broken concat output early.
func (t *Toolbox) Merge(ctx context.Context, parts []string, out string) error {
	if len(parts) == 0 {
		return fmt.Errorf("%w: no parts to merge", ErrMerge)
	}

	tmpDir, err := os.MkdirTemp("", "merge_norm_")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMerge, err)
	}
	defer os.RemoveAll(tmpDir)

	normalized := make([]string, 0, len(parts))
	for i, part := range parts {
		if _, err := os.Stat(part); err != nil {
			return fmt.Errorf("%w: missing input %s", ErrMerge, part)
		}

		norm := filepath.Join(tmpDir, fmt.Sprintf("part_%03d.opus", i+1))
		if err := t.normalizeOpus(ctx, part, norm); err != nil {
			return err
		}
		normalized = append(normalized, norm)
	}

	listFile := filepath.Join(tmpDir, "concat.txt")
	var list strings.Builder
	for _, p := range normalized {
		fmt.Fprintf(&list, "file '%s'\n", filepath.ToSlash(p))
	}
	if err := os.WriteFile(listFile, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrMerge, err)
	}

	if err := t.concatCopy(ctx, listFile, out); err != nil {
		return err
	}

	dur, err := t.Probe(ctx, out)
	if err != nil {
		os.Remove(out)
		return fmt.Errorf("%w: probe merged output: %v", ErrMerge, err)
	}
	if dur < 1.0 {
		os.Remove(out)
		return fmt.Errorf("%w: merged output too short (%.2fs)", ErrMerge, dur)
	}

	return nil
}

// normalizeOpus re-encodes one part to opus 48k mono so every part shares
// identical stream parameters before the stream-copy concat.
func (t *Toolbox) normalizeOpus(ctx context.Context, src, dst string) error {
	cmd := t.command(ctx,
		"-y",
		"-i", src,
		"-vn",
		"-acodec", "libopus",
		"-b:a", "64k",
		"-ar", "48000",
		"-ac", "1",
		dst,
	)
	stderr := attachStderr(cmd)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: normalize %s: %s: %v", ErrMerge, src, strings.TrimSpace(stderr.String()), err)
	}

	return nil
}

func (t *Toolbox) concatCopy(ctx context.Context, listFile, out string) error {
	cmd := t.command(ctx,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		out,
	)
	stderr := attachStderr(cmd)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: concat: %s: %v", ErrMerge, strings.TrimSpace(stderr.String()), err)
	}

	return nil
}
