package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tbeaumont/wikigloss/internal/pipeline"
)

// pageRequest is the body for both the synchronous and queued page
// endpoints: a page URL plus its raw HTML.
type pageRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

func (s *Server) decodePageRequest(w http.ResponseWriter, r *http.Request) (pageRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return pageRequest{}, false
	}
	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return pageRequest{}, false
	}
	if req.HTML == "" {
		jsonError(w, "html is required", http.StatusBadRequest)
		return pageRequest{}, false
	}
	return req, true
}

// handleFormat processes a page synchronously and returns its serialized
// record blocks as plain text.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePageRequest(w, r)
	if !ok {
		return
	}

	text, err := s.orchestrator.Engine().ExtractAndFormat(req.URL, req.HTML)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// handleSubmitPage queues a page for asynchronous processing. Repeated
// submissions of identical page HTML return the existing job instead of
// queuing a duplicate.
func (s *Server) handleSubmitPage(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePageRequest(w, r)
	if !ok {
		return
	}

	hash := pipeline.ContentHashHex([]byte(req.HTML))
	if existing := s.orchestrator.FindJobByContent(hash); existing != nil {
		snap := existing.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"job_id":   snap.ID,
			"status":   snap.Status,
			"poll_url": fmt.Sprintf("/api/pages/%s/status", snap.ID),
		})
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:          pipeline.NewULID(),
		URL:         req.URL,
		Title:       req.Title,
		ContentHash: hash,
		Status:      pipeline.StatusQueued,
		Phase:       "queued",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.SetHTML(req.HTML)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/pages/%s/status", job.ID),
	})
}

func (s *Server) handlePageStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"url":      snap.URL,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

// handlePageResult returns the serialized record blocks for a completed
// job as plain text.
func (s *Server) handlePageResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s, not completed", snap.Status), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(job.Result()))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
