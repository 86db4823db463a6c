// Package whisperhttp talks to a whisper-asr-webservice instance over
// HTTP multipart upload.
package whisperhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/asr"
)

// Client handles communication with the Whisper STT service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *Logger.Logger
}

// New creates a whisper webservice client. The timeout covers one whole
// chunk upload and transcription, so it is deliberately generous.
func New(baseURL string, timeout time.Duration, logger *Logger.Logger) *Client {
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Transcribe uploads one audio file and returns the normalized result.
func (c *Client) Transcribe(ctx context.Context, path, language string) (asr.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: open %s: %v", asr.ErrTranscription, path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", filepath.Base(path))
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: create form file: %v", asr.ErrTranscription, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return asr.Result{}, fmt.Errorf("%w: read audio: %v", asr.ErrTranscription, err)
	}
	if err := writer.Close(); err != nil {
		return asr.Result{}, fmt.Errorf("%w: close multipart writer: %v", asr.ErrTranscription, err)
	}

	requestURL := fmt.Sprintf("%s/asr?encode=true&task=transcribe&language=%s&output=json", c.baseURL, url.QueryEscape(language))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, &body)
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: create request: %v", asr.ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: send request: %v", asr.ErrTranscription, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: read response: %v", asr.ErrTranscription, err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Errorf("whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		}
		return asr.Result{}, fmt.Errorf("%w: service returned status %d", asr.ErrTranscription, resp.StatusCode)
	}

	res := asr.DecodeRaw(responseBody)
	if c.logger != nil {
		c.logger.Debugf("whisper transcription of %s: %d chars (language %s)", filepath.Base(path), len(res.PlainText()), language)
	}

	return res, nil
}
