package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/wikidoc/internal/pipeline"
	"github.com/dgallion1/wikidoc/internal/source"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

type batchRequest struct {
	Titles []string `json:"titles"`
	Lang   string   `json:"lang"`
	Mode   string   `json:"mode"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			writeError(w, err)
			return
		}
		writeError(w, wikierr.Invalidf("invalid JSON body: %v", err))
		return
	}
	mode, err := pipeline.ParseMode(req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}

	titles := make([]string, 0, len(req.Titles))
	seen := make(map[string]bool, len(req.Titles))
	for _, t := range req.Titles {
		t = source.NormalizeTitle(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		titles = append(titles, t)
	}
	if len(titles) == 0 {
		jsonError(w, "at least one title is required", http.StatusBadRequest)
		return
	}
	if len(titles) > s.cfg.MaxBatchTitles {
		jsonError(w, fmt.Sprintf("too many titles (%d > %d)", len(titles), s.cfg.MaxBatchTitles), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(titles, source.NormalizeLang(req.Lang), mode)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("batch submitted", "job_id", job.ID, "titles", len(titles), "mode", mode)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"titles":   len(titles),
		"poll_url": fmt.Sprintf("/api/batch/%s", job.ID),
	})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleBatchResults(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status == pipeline.StatusQueued || snap.Status == pipeline.StatusRunning {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "job still " + strings.ToLower(string(snap.Status)),
			"status": snap.Status,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":  snap.ID,
		"status":  snap.Status,
		"results": job.Results(),
	})
}
