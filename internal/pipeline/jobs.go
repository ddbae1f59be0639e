package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a page-processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single page submitted for extraction.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	URL   string `json:"url"`
	Title string `json:"title"`

	// ContentHash identifies the submitted page HTML; set once at
	// creation and used to dedup repeated submissions.
	ContentHash string `json:"-"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	html   string
	result string
}

// Progress tracks processing progress for one page.
type Progress struct {
	Languages int      `json:"languages"`
	Entries   int      `json:"entries"`
	Errors    []string `json:"errors"`
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

// FindByContentHash returns the newest non-failed job for a content
// hash, or nil. Failed jobs are ignored so a resubmission can retry.
func (s *JobStore) FindByContentHash(hash string) *Job {
	if hash == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *Job
	for _, job := range s.jobs {
		if job.ContentHash != hash {
			continue
		}
		if job.Snapshot().Status == StatusFailed {
			continue
		}
		if found == nil || job.CreatedAt.After(found.CreatedAt) {
			found = job
		}
	}
	return found
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
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
	j.Progress.Errors = append(j.Progress.Errors, err)
	j.UpdatedAt = time.Now()
}

// SetCounts records how many languages and entries were extracted.
func (j *Job) SetCounts(languages, entries int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Languages = languages
	j.Progress.Entries = entries
	j.UpdatedAt = time.Now()
}

// SetHTML sets the raw page body for processing.
func (j *Job) SetHTML(html string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.html = html
}

// HTML returns the raw page body.
func (j *Job) HTML() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.html
}

// SetResult stores the serialized record blocks for this page.
func (j *Job) SetResult(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = text
	j.UpdatedAt = time.Now()
}

// Result returns the serialized record blocks, empty until completion.
func (j *Job) Result() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		URL:    j.URL,
		Title:  j.Title,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			Languages: j.Progress.Languages,
			Entries:   j.Progress.Entries,
			Errors:    errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
