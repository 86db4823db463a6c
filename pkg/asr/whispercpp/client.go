// Package whispercpp runs a local whisper.cpp binary, for deployments
// that keep transcription on the box instead of a remote service.
package whispercpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/kolscribe/kolscribe/pkg/asr"
)

type Client struct {
	binPath string
	weights string
}

func New(binPath, weights string) *Client {
	return &Client{
		binPath: binPath,
		weights: weights,
	}
}

// Transcribe implements asr.Client. The source is first resampled to the
// 16k mono WAV whisper.cpp expects; both the resampled file and the JSON
// output file are removed afterwards.
func (c *Client) Transcribe(ctx context.Context, fname, language string) (asr.Result, error) {
	wav, err := preprocess(ctx, fname)
	if err != nil {
		return asr.Result{}, err
	}
	defer os.Remove(wav)
	defer os.Remove(wav + ".json")

	cmd := exec.CommandContext(ctx, c.binPath, "-m", c.weights, "-f", wav, "-oj", "--language", language) //nolint:gosec
	stderr := bytes.NewBuffer(nil)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return asr.Result{}, fmt.Errorf("%w: whisper.cpp: %s: %v", asr.ErrTranscription, strings.TrimSpace(stderr.String()), err)
	}

	payload, err := os.ReadFile(wav + ".json")
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: read whisper.cpp output: %v", asr.ErrTranscription, err)
	}

	var decoded cliResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return asr.Result{}, fmt.Errorf("%w: decode whisper.cpp output: %v", asr.ErrTranscription, err)
	}

	res := asr.Result{Language: language, GeneratedAt: time.Now()}
	for i, part := range decoded.Transcription {
		res.Segments = append(res.Segments, asr.Segment{
			ID:    i,
			Text:  part.Text,
			Start: float64(part.Offsets.From) / 1000,
			End:   float64(part.Offsets.To) / 1000,
		})
	}

	return res, nil
}

func preprocess(ctx context.Context, fname string) (string, error) {
	resfile := strings.TrimSuffix(fname, path.Ext(fname)) + ".wav"
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", fname, "-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le", resfile)
	stderr := bytes.NewBuffer(nil)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: ffmpeg: %s: %v", asr.ErrTranscription, strings.TrimSpace(stderr.String()), err)
	}

	return resfile, nil
}

type cliResponse struct {
	Transcription []struct {
		Offsets struct {
			From int `json:"from"`
			To   int `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}
