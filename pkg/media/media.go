// Package media wraps the ffmpeg/ffprobe command line tools for the audio
// plumbing the pipeline needs: duration probing, lossless range extraction
// and multi-part voice note merging.
package media

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Sentinel errors for the tool boundary. Callers match with errors.Is.
var (
	ErrProbe   = errors.New("media: duration probe failed")
	ErrExtract = errors.New("media: range extraction failed")
	ErrMerge   = errors.New("media: merge failed")
)

// Toolbox locates the external binaries once and exposes the operations.
// The zero value uses whatever ffmpeg/ffprobe are on PATH.
type Toolbox struct {
	FFmpegPath  string
	FFprobePath string
}

func NewToolbox() *Toolbox {
	return &Toolbox{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
	}
}

func (t *Toolbox) ffmpeg() string {
	if t.FFmpegPath != "" {
		return t.FFmpegPath
	}
	return "ffmpeg"
}

func (t *Toolbox) ffprobe() string {
	if t.FFprobePath != "" {
		return t.FFprobePath
	}
	return "ffprobe"
}

func (t *Toolbox) command(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, t.ffmpeg(), args...)
}

func attachStderr(cmd *exec.Cmd) *bytes.Buffer {
	buf := bytes.NewBuffer(nil)
	cmd.Stderr = buf

	return buf
}
