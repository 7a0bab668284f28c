package pipeline

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dgallion1/wikidoc/internal/chunker"
	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// JobStatus represents the state of a batch job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Mode selects the parsing pipeline used for every title of a job.
type Mode string

const (
	// ModeFull builds complete documents and chunks them.
	ModeFull Mode = "full"
	// ModeBounded extracts only the lossy summary under the byte ceiling.
	ModeBounded Mode = "bounded"
)

// ParseMode maps a request value to a Mode; empty selects ModeFull.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeBounded, "fast", "summary":
		return ModeBounded, nil
	}
	return "", wikierr.Invalidf("unknown mode %q", s)
}

// Per-title outcomes.
const (
	ResultOK       = "ok"
	ResultRedirect = "redirect"
	ResultNotFound = "not_found"
	ResultFailed   = "failed"
)

// TitleResult is the outcome of processing one title.
type TitleResult struct {
	Title       string                 `json:"title"`
	Status      string                 `json:"status"`
	ContentHash string                 `json:"content_hash,omitempty"`
	RedirectTo  *doctree.Link          `json:"redirect_to,omitempty"`
	Sections    int                    `json:"sections,omitempty"`
	Links       int                    `json:"links,omitempty"`
	Categories  []string               `json:"categories,omitempty"`
	Summary     *doctree.SummaryResult `json:"summary,omitempty"`
	Chunks      []chunker.Chunk        `json:"chunks,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// Job tracks the state of one batch of titles.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Lang   string    `json:"lang"`
	Mode   Mode      `json:"mode"`
	Titles []string  `json:"titles"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	results []TitleResult
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Chunks    int      `json:"chunks"`
	Errors    []string `json:"errors"`
}

// NewJob returns a queued job with a fresh ULID.
func NewJob(titles []string, lang string, mode Mode) *Job {
	now := time.Now()
	return &Job{
		ID:        ulid.Make().String(),
		Lang:      lang,
		Mode:      mode,
		Titles:    titles,
		Status:    StatusQueued,
		Phase:     "queued",
		Progress:  Progress{Total: len(titles)},
		CreatedAt: now,
		UpdatedAt: now,
		results:   make([]TitleResult, len(titles)),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult records the outcome for the title at index i.
func (j *Job) SetResult(i int, r TitleResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.results) != len(j.Titles) {
		j.results = make([]TitleResult, len(j.Titles))
	}
	j.results[i] = r
	j.Progress.Processed++
	j.Progress.Chunks += len(r.Chunks)
	if r.Status == ResultOK || r.Status == ResultRedirect {
		j.Progress.Succeeded++
	} else {
		j.Progress.Failed++
	}
	j.UpdatedAt = time.Now()
}

// Results returns a copy of the per-title results in submission order.
func (j *Job) Results() []TitleResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]TitleResult, len(j.results))
	copy(out, j.results)
	return out
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Lang      string    `json:"lang"`
	Mode      Mode      `json:"mode"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:        j.ID,
		Lang:      j.Lang,
		Mode:      j.Mode,
		Status:    j.Status,
		Phase:     j.Phase,
		Progress:  p,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
