// Package transcriber turns one audio file of arbitrary length into one
// transcript. Files short enough for a single recognition call go
// straight through; longer files are cut into overlapping chunks that
// are transcribed independently and stitched back together.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/asr"
)

var (
	ErrSourceNotFound = errors.New("transcriber: source file not found")
	ErrInvalidOptions = errors.New("transcriber: invalid options")
)

// DurationProber reports the total duration of an audio file in seconds.
type DurationProber interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// RangeExtractor cuts [start, start+length) out of src into dst without
// re-encoding, clipping at end of file.
type RangeExtractor interface {
	ExtractRange(ctx context.Context, src string, start, length float64, dst string) error
}

// ProgressFunc is notified after each chunk completes. It is best-effort
// only: panics inside the callback never abort the transcription.
type ProgressFunc func(done, total int)

// Options tune one Transcribe call.
type Options struct {
	// ChunkSeconds is the longest audio the recognition backend will
	// reliably take in one call. Must be > 0.
	ChunkSeconds float64
	// OverlapSeconds is how much consecutive chunks share. Must satisfy
	// 0 <= OverlapSeconds < ChunkSeconds.
	OverlapSeconds float64
	// TempDir is the parent for the per-call chunk directory. Empty
	// means the system temp dir.
	TempDir  string
	Progress ProgressFunc
}

func (o Options) validate() error {
	if o.ChunkSeconds <= 0 {
		return fmt.Errorf("%w: chunk seconds must be positive, got %v", ErrInvalidOptions, o.ChunkSeconds)
	}
	if o.OverlapSeconds < 0 || o.OverlapSeconds >= o.ChunkSeconds {
		return fmt.Errorf("%w: overlap %v outside [0, %v)", ErrInvalidOptions, o.OverlapSeconds, o.ChunkSeconds)
	}
	return nil
}

// Result is the outcome of one Transcribe call.
type Result struct {
	Text string
	// SourceSeconds is the probed duration of the input file.
	SourceSeconds float64
	Elapsed       time.Duration
}

// Transcriber orchestrates probing, chunk extraction, recognition and
// stitching. Collaborators are injected so tests can run without ffmpeg
// or a live recognition service.
type Transcriber struct {
	prober    DurationProber
	extractor RangeExtractor
	client    asr.Client
	logger    *Logger.Logger
}

func New(prober DurationProber, extractor RangeExtractor, client asr.Client, logger *Logger.Logger) *Transcriber {
	return &Transcriber{
		prober:    prober,
		extractor: extractor,
		client:    client,
		logger:    logger,
	}
}

// Transcribe converts path into one transcript. The call is sequential:
// chunk i+1 is not extracted until chunk i's recognition returns, since
// the backend is typically rate-limited upstream. Temporary chunk files
// live in a directory owned by this call and are removed on every exit
// path. Cancellation beyond ctx propagation is not modeled; a caller
// that gives up must discard the eventual result.
func (t *Transcriber) Transcribe(ctx context.Context, path, language string, opts Options) (Result, error) {
	started := time.Now()

	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}

	total, err := t.prober.Probe(ctx, path)
	if err != nil {
		return Result{}, err
	}

	// Common fast path: the whole file fits one recognition call.
	if total <= opts.ChunkSeconds {
		res, err := t.client.Transcribe(ctx, path, language)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: res.PlainText(), SourceSeconds: total, Elapsed: time.Since(started)}, nil
	}

	text, err := t.transcribeChunked(ctx, path, language, total, opts)
	if err != nil {
		return Result{}, err
	}

	return Result{Text: text, SourceSeconds: total, Elapsed: time.Since(started)}, nil
}

func (t *Transcriber) transcribeChunked(ctx context.Context, path, language string, total float64, opts Options) (string, error) {
	plan := planChunks(total, opts.ChunkSeconds, opts.OverlapSeconds)

	chunkDir, err := os.MkdirTemp(opts.TempDir, "chunks-")
	if err != nil {
		return "", fmt.Errorf("create chunk dir: %w", err)
	}
	defer os.RemoveAll(chunkDir)

	if t.logger != nil {
		t.logger.Infof("transcribing %s in %d chunks (%.1fs total, %.1fs per chunk)",
			filepath.Base(path), len(plan), total, opts.ChunkSeconds)
	}

	texts := make([]string, len(plan))
	for i, chunk := range plan {
		dst := filepath.Join(chunkDir, fmt.Sprintf("chunk_%03d%s", chunk.Index, filepath.Ext(path)))
		if err := t.extractor.ExtractRange(ctx, path, chunk.Start, chunk.Length, dst); err != nil {
			return "", fmt.Errorf("extract chunk %d/%d: %w", i+1, len(plan), err)
		}

		res, err := t.client.Transcribe(ctx, dst, language)
		if err != nil {
			return "", fmt.Errorf("transcribe chunk %d/%d: %w", i+1, len(plan), err)
		}
		texts[i] = res.PlainText()

		notifyProgress(opts.Progress, i+1, len(plan))
	}

	return Stitch(texts), nil
}

// notifyProgress shields the chunk loop from a misbehaving callback.
func notifyProgress(fn ProgressFunc, done, total int) {
	if fn == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	fn(done, total)
}
