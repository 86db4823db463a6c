package whisperhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.ogg")
	if err := os.WriteFile(path, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeEscapesLanguage(t *testing.T) {
	var gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLanguage = r.URL.Query().Get("language")
		w.Write([]byte(`{"text": "hello"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	res, err := client.Transcribe(context.Background(), writeAudio(t), "he&output=text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLanguage != "he&output=text" {
		t.Errorf("language must survive the query string verbatim, got %q", gotLanguage)
	}
	if res.PlainText() != "hello" {
		t.Errorf("unexpected transcript %q", res.PlainText())
	}
}

func TestTranscribeNilLoggerOnServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	if _, err := client.Transcribe(context.Background(), writeAudio(t), "he"); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}
