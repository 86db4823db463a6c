package job

import (
	"sync"
	"time"
)

// ProgressEvent is one status update pushed to progress watchers.
type ProgressEvent struct {
	JobID      string    `json:"jobId"`
	Stage      string    `json:"stage"`
	ChunksDone int       `json:"chunksDone"`
	ChunkTotal int       `json:"chunkTotal"`
	Status     Status    `json:"status"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}

// ProgressHub fans job progress out to any number of watchers.
// Publishing never blocks: a watcher that stops draining its channel
// misses events instead of stalling the pipeline.
type ProgressHub struct {
	mu       sync.RWMutex
	watchers map[string]map[chan ProgressEvent]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{watchers: make(map[string]map[chan ProgressEvent]struct{})}
}

// Subscribe registers a watcher for one job. The returned cancel func
// must be called when the watcher goes away.
func (h *ProgressHub) Subscribe(jobID string) (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 16)

	h.mu.Lock()
	if h.watchers[jobID] == nil {
		h.watchers[jobID] = make(map[chan ProgressEvent]struct{})
	}
	h.watchers[jobID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.watchers[jobID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.watchers, jobID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to every watcher of the job.
func (h *ProgressHub) Publish(ev ProgressEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.watchers[ev.JobID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
