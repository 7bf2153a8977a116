package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
	"github.com/aworks-dev/bol-extractor/internal/export"
	"github.com/aworks-dev/bol-extractor/internal/pipeline"
	"github.com/aworks-dev/bol-extractor/internal/profile"
	"github.com/aworks-dev/bol-extractor/internal/repository"
)

// processRequest is the wire shape of one pipeline invocation. Pages and
// reference rows arrive fully materialized; the server never reaches into
// shared storage to find inputs.
type processRequest struct {
	Pages     []bol.RawPage         `json:"pages"`
	Reference []bol.ReferenceRecord `json:"reference"`
	Profile   json.RawMessage       `json:"profile,omitempty"`
}

type runSummary struct {
	Pages         int `json:"pages"`
	Shipments     int `json:"shipments"`
	LineItems     int `json:"line_items"`
	Matched       int `json:"matched"`
	ShipmentOnly  int `json:"shipment_only"`
	ReferenceOnly int `json:"reference_only"`
}

type processResponse struct {
	RunID       string               `json:"run_id"`
	Status      constants.RunStatus  `json:"status"`
	Summary     runSummary           `json:"summary"`
	Records     []bol.CombinedRecord `json:"records"`
	Diagnostics bol.Diagnostics      `json:"diagnostics"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "decoding request body", err)
		return
	}

	p := s.profile
	if len(req.Profile) > 0 {
		parsed, err := profile.Parse(req.Profile)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid profile", err)
			return
		}
		p = parsed
	}

	proc, err := pipeline.NewProcessor(p, s.logger)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid pipeline configuration", err)
		return
	}
	dataset, diags := proc.Run(req.Pages, req.Reference)

	run := repository.NewRun(len(req.Pages), dataset, diags)
	if s.runs != nil {
		if err := s.runs.SaveRun(r.Context(), run); err != nil {
			// History is best-effort; the caller still gets their dataset.
			s.logger.Error("server.run.save_failed", "run_id", run.ID.String(), "error", err)
		}
	}

	writeJSON(w, http.StatusOK, processResponse{
		RunID:       run.ID.String(),
		Status:      run.Status,
		Summary:     summarize(run),
		Records:     dataset.Records,
		Diagnostics: diags,
	})
}

func (s *Service) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeError(w, http.StatusNotFound, "run history disabled", common.ErrNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "listing runs", err)
		return
	}
	type item struct {
		RunID     string              `json:"run_id"`
		CreatedAt string              `json:"created_at"`
		Status    constants.RunStatus `json:"status"`
		Summary   runSummary          `json:"summary"`
	}
	out := make([]item, 0, len(runs))
	for _, run := range runs {
		out = append(out, item{
			RunID:     run.ID.String(),
			CreatedAt: run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Status:    run.Status,
			Summary:   summarize(run),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (s *Service) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, processResponse{
		RunID:       run.ID.String(),
		Status:      run.Status,
		Summary:     summarize(*run),
		Records:     run.Dataset.Records,
		Diagnostics: run.Diagnostics,
	})
}

func (s *Service) handleExportRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	opts := export.Options{
		LineLevel: r.URL.Query().Get("granularity") == "line",
		Derived:   r.URL.Query().Get("derived") == "true",
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.OutputCSVName+`"`)
	if err := export.WriteCSV(w, run.Dataset, opts); err != nil {
		s.logger.Error("server.export.failed", "run_id", run.ID.String(), "error", err)
	}
}

func (s *Service) lookupRun(w http.ResponseWriter, r *http.Request) (*repository.Run, bool) {
	if s.runs == nil {
		s.writeError(w, http.StatusNotFound, "run history disabled", common.ErrNotFound)
		return nil, false
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid run id", err)
		return nil, false
	}
	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, "loading run", err)
		return nil, false
	}
	return run, true
}

func summarize(run repository.Run) runSummary {
	return runSummary{
		Pages:         run.Pages,
		Shipments:     run.Shipments,
		LineItems:     run.LineItems,
		Matched:       run.Matched,
		ShipmentOnly:  run.ShipmentOnly,
		ReferenceOnly: run.ReferenceOnly,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string, err error) {
	s.logger.Warn("server.request.failed", "status", status, "message", msg, "error", err)
	writeJSON(w, status, map[string]string{"error": msg})
}
