package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/transcriber"
)

type memoryRepo struct {
	mu   sync.Mutex
	jobs map[string]Job
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{jobs: make(map[string]Job)}
}

func (m *memoryRepo) Create(j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID.String()] = *j
	return nil
}

func (m *memoryRepo) GetByID(id string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &j, nil
}

func (m *memoryRepo) Update(j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID.String()] = *j
	return nil
}

func (m *memoryRepo) List(filters ListJobsRequest) ([]Job, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Job
	for _, j := range m.jobs {
		if filters.ConversationID != "" && j.ConversationID != filters.ConversationID {
			continue
		}
		if filters.Status != nil && j.Status != *filters.Status {
			continue
		}
		out = append(out, j)
	}
	return out, int64(len(out)), nil
}

type stubTranscriber struct {
	text    string
	seconds float64
	err     error
	// gate, when set, delays the call until closed so a test can attach
	// a progress watcher first.
	gate chan struct{}
}

func (s *stubTranscriber) Transcribe(ctx context.Context, path, language string, opts transcriber.Options) (transcriber.Result, error) {
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return transcriber.Result{}, s.err
	}
	if opts.Progress != nil {
		opts.Progress(1, 2)
		opts.Progress(2, 2)
	}
	return transcriber.Result{Text: s.text, SourceSeconds: s.seconds, Elapsed: 42 * time.Millisecond}, nil
}

type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (m *memoryCache) Get(transcript string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[transcript]
	return v, ok
}

func (m *memoryCache) Set(transcript, summary string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[transcript] = summary
}

func testService(t *testing.T, repo JobRepository, tr Transcriber, sum *stubSummarizer, cache SummaryCache) JobService {
	t.Helper()
	cfg := PipelineConfig{
		ChunkSeconds:   240,
		OverlapSeconds: 1.2,
		TranscriptsDir: filepath.Join(t.TempDir(), "transcripts"),
		SummariesDir:   filepath.Join(t.TempDir(), "summaries"),
	}
	return NewJobService(repo, tr, sum, cache, cfg, Logger.New(true))
}

func submitAndWait(t *testing.T, svc JobService, repo *memoryRepo, req CreateJobRequest) *Job {
	t.Helper()
	resp, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("job never reached a terminal status")
		case <-time.After(10 * time.Millisecond):
		}
		j, err := repo.GetByID(resp.ID.String())
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if j.Status.IsTerminal() {
			return j
		}
	}
}

func sourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.ogg")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSubmitRejectsMissingSource(t *testing.T) {
	svc := testService(t, newMemoryRepo(), &stubTranscriber{}, &stubSummarizer{}, nil)
	_, err := svc.Submit(context.Background(), CreateJobRequest{Mode: ModeBoth})
	if !errors.Is(err, ErrInvalidJobData) {
		t.Errorf("expected ErrInvalidJobData, got %v", err)
	}
}

func TestSubmitRunsFullPipeline(t *testing.T) {
	repo := newMemoryRepo()
	sum := &stubSummarizer{summary: "short version"}
	svc := testService(t, repo, &stubTranscriber{text: "the full transcript", seconds: 93.5}, sum, nil)

	j := submitAndWait(t, svc, repo, CreateJobRequest{
		Mode:       ModeBoth,
		Language:   "he",
		SourcePath: sourceFile(t),
		SourceName: "note.ogg",
	})

	if j.Status != StatusDone {
		t.Fatalf("expected done, got %s (%s)", j.Status, j.Error)
	}
	if j.Transcript != "the full transcript" {
		t.Errorf("unexpected transcript %q", j.Transcript)
	}
	if j.Summary != "short version" {
		t.Errorf("unexpected summary %q", j.Summary)
	}
	if j.DurationSecs != 93.5 {
		t.Errorf("expected probed duration to be recorded, got %v", j.DurationSecs)
	}
	if j.TranscriptPath == "" || j.SummaryPath == "" {
		t.Error("expected both artifacts on disk")
	}
	if data, err := os.ReadFile(j.TranscriptPath); err != nil || string(data) != "the full transcript" {
		t.Errorf("transcript artifact mismatch: %v %q", err, data)
	}
}

func TestSubmitTranscribeOnlySkipsSummarizer(t *testing.T) {
	repo := newMemoryRepo()
	sum := &stubSummarizer{summary: "should not appear"}
	svc := testService(t, repo, &stubTranscriber{text: "just the words"}, sum, nil)

	j := submitAndWait(t, svc, repo, CreateJobRequest{
		Mode:       ModeTranscribeOnly,
		SourcePath: sourceFile(t),
		SourceName: "note.ogg",
	})

	if j.Status != StatusDone {
		t.Fatalf("expected done, got %s (%s)", j.Status, j.Error)
	}
	if sum.calls != 0 {
		t.Errorf("summarizer must not run in transcribe mode, ran %d times", sum.calls)
	}
	if j.Summary != "" {
		t.Errorf("expected no summary, got %q", j.Summary)
	}
}

func TestSubmitSummarizeOnlyOmitsTranscript(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(t, repo, &stubTranscriber{text: "spoken words"}, &stubSummarizer{summary: "gist"}, nil)

	j := submitAndWait(t, svc, repo, CreateJobRequest{
		Mode:       ModeSummarizeOnly,
		SourcePath: sourceFile(t),
		SourceName: "note.ogg",
	})

	if j.Status != StatusDone {
		t.Fatalf("expected done, got %s (%s)", j.Status, j.Error)
	}
	if j.Transcript != "" {
		t.Errorf("summarize-only must not expose the transcript, got %q", j.Transcript)
	}
	if j.Summary != "gist" {
		t.Errorf("expected summary, got %q", j.Summary)
	}
}

func TestSubmitTranscriptionFailureFailsJob(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(t, repo, &stubTranscriber{err: errors.New("backend gone")}, &stubSummarizer{}, nil)

	j := submitAndWait(t, svc, repo, CreateJobRequest{
		Mode:       ModeBoth,
		SourcePath: sourceFile(t),
	})

	if j.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", j.Status)
	}
	if !strings.Contains(j.Error, "backend gone") {
		t.Errorf("expected the cause in the job error, got %q", j.Error)
	}
}

func TestSubmitUsesCachedSummary(t *testing.T) {
	repo := newMemoryRepo()
	cache := newMemoryCache()
	cache.Set("same words", "cached gist")
	sum := &stubSummarizer{summary: "fresh gist"}
	svc := testService(t, repo, &stubTranscriber{text: "same words"}, sum, cache)

	j := submitAndWait(t, svc, repo, CreateJobRequest{
		Mode:       ModeBoth,
		SourcePath: sourceFile(t),
	})

	if j.Summary != "cached gist" {
		t.Errorf("expected the cached summary, got %q", j.Summary)
	}
	if sum.calls != 0 {
		t.Errorf("cache hit must skip the model, ran %d times", sum.calls)
	}
}

func TestSubmitStoresFreshSummaryInCache(t *testing.T) {
	repo := newMemoryRepo()
	cache := newMemoryCache()
	svc := testService(t, repo, &stubTranscriber{text: "new words"}, &stubSummarizer{summary: "new gist"}, cache)

	submitAndWait(t, svc, repo, CreateJobRequest{
		Mode:       ModeBoth,
		SourcePath: sourceFile(t),
	})

	if got, ok := cache.Get("new words"); !ok || got != "new gist" {
		t.Errorf("expected summary in cache, got %q (%v)", got, ok)
	}
}

func TestSubmitDefaultsModeFromSession(t *testing.T) {
	repo := newMemoryRepo()
	sum := &stubSummarizer{summary: "gist"}
	svc := testService(t, repo, &stubTranscriber{text: "words"}, sum, nil)

	if _, err := svc.SelectMode(context.Background(), "chat-9", ModeTranscribeOnly); err != nil {
		t.Fatal(err)
	}

	j := submitAndWait(t, svc, repo, CreateJobRequest{
		ConversationID: "chat-9",
		SourcePath:     sourceFile(t),
	})

	if j.Mode != ModeTranscribeOnly {
		t.Errorf("expected the session mode to apply, got %s", j.Mode)
	}
	if sum.calls != 0 {
		t.Errorf("summarizer must not run, ran %d times", sum.calls)
	}
}

func TestWatchProgressSeesChunkEvents(t *testing.T) {
	repo := newMemoryRepo()
	tr := &stubTranscriber{text: "words", gate: make(chan struct{})}
	svc := testService(t, repo, tr, &stubSummarizer{summary: "gist"}, nil)

	resp, err := svc.Submit(context.Background(), CreateJobRequest{
		Mode:       ModeTranscribeOnly,
		SourcePath: sourceFile(t),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	events, cancel := svc.WatchProgress(resp.ID.String())
	defer cancel()
	close(tr.gate)

	sawChunk := false
	deadline := time.After(5 * time.Second)
	for !sawChunk {
		select {
		case ev := <-events:
			if ev.Stage == "transcribing" && ev.ChunkTotal == 2 {
				sawChunk = true
			}
		case <-deadline:
			t.Fatal("no chunk progress event arrived")
		}
	}
}

func TestProgressHubDropsSlowWatcher(t *testing.T) {
	hub := NewProgressHub()
	ch, cancel := hub.Subscribe("j1")
	defer cancel()

	// Fill the buffer and keep publishing; none of these may block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(ProgressEvent{JobID: "j1", Stage: "transcribing", ChunksDone: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow watcher")
	}
	if len(ch) == 0 {
		t.Error("expected buffered events for the watcher")
	}
}
