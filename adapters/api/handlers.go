package api

import (
	"fmt"
	"net/http"
	"strconv"

	"curvefit/app"
	"curvefit/domain/core"
	"curvefit/domain/fit"
	"curvefit/internal/errors"
	"curvefit/internal/report"
	"curvefit/internal/solvers"
	"curvefit/ports"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
)

// CurveRequest is the body of POST /api/fit/curve. An empty Model selects the best fit.
type CurveRequest struct {
	FitRequest
	Model  string `json:"model,omitempty"`
	Points int    `json:"points,omitempty"`
}

// CurveResponse is a sampled fitted curve
type CurveResponse struct {
	Model   fit.ModelID    `json:"model"`
	Formula string         `json:"formula"`
	Points  []report.Point `json:"points"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decode(w, r, &req) {
		return
	}
	values, err := s.service.ParseValues(req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ParseResponse{Values: values, Count: len(values)})
}

func (s *Server) handleSolvers(w http.ResponseWriter, r *http.Request) {
	ids := solvers.IDs()
	models := make([]fit.ModelID, 0, len(ids))
	for _, id := range ids {
		models = append(models, fit.SolverModelID(id))
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"families":      fit.Families(),
		"solvers":       ids,
		"solver_models": models,
		"default_alpha": solvers.DefaultAlpha,
	})
}

func (s *Server) fit(w http.ResponseWriter, r *http.Request, req FitRequest) (*app.FitReport, bool) {
	result, err := s.service.FitText(r.Context(), app.FitRequest{
		X:              req.X,
		Y:              req.Y,
		Alpha:          req.Alpha,
		IncludeSolvers: req.IncludeSolvers,
	})
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	s.metrics.observe(result.Results)
	return result, true
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, ok := s.fit(w, r, req)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, newFitResponse(result))
}

func (s *Server) handleFitReport(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, ok := s.fit(w, r, req)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.HTML(result.Results)); err != nil {
		s.logger.Error("failed to write report: %v", err)
	}
}

func (s *Server) handleFitCurve(w http.ResponseWriter, r *http.Request) {
	var req CurveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Points > report.MaxCurvePoints {
		s.writeError(w, errors.InvalidInput(fmt.Sprintf("points must not exceed %d", report.MaxCurvePoints)))
		return
	}
	result, ok := s.fit(w, r, req.FitRequest)
	if !ok {
		return
	}

	var entry fit.Entry
	switch {
	case req.Model == "" && result.Best == nil:
		s.writeError(w, errors.ValidationError("no model could be fitted"))
		return
	case req.Model == "":
		entry = *result.Best
	default:
		e, found := result.Results.Get(fit.ModelID(req.Model))
		if !found {
			s.writeError(w, errors.NotFound(fmt.Sprintf("model %q", req.Model)))
			return
		}
		entry = e
	}

	xs, err := s.service.ParseValues(req.X)
	if err != nil {
		s.writeError(w, err)
		return
	}
	points, err := report.Curve(entry, xs, req.Points)
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeValidationError, err))
		return
	}
	s.writeJSON(w, http.StatusOK, CurveResponse{
		Model:   entry.Model,
		Formula: report.Formula(entry),
		Points:  points,
	})
}

func (s *Server) handleSearchSamples(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, errors.InvalidInput(fmt.Sprintf("invalid limit %q", raw)))
			return
		}
		limit = n
	}

	records, err := s.service.SearchSamples(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]SampleResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newSampleResponse(rec))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSample(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if !s.decode(w, r, &req) {
		return
	}
	record, err := s.service.SaveSampleText(r.Context(), req.Name, req.X, req.Y)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newSampleResponse(record))
}

func (s *Server) sampleID(w http.ResponseWriter, r *http.Request) (core.SampleID, bool) {
	id, err := core.ParseSampleID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return "", false
	}
	return id, true
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}
	record, err := s.service.GetSample(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	etag := sampleETag(record)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	s.writeJSON(w, http.StatusOK, newSampleResponse(record))
}

// sampleETag changes whenever the stored name or values change
func sampleETag(r *ports.SampleRecord) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64String(r.Name+"\x00"+r.X+"\x00"+r.Y))
}

func (s *Server) handleUpdateSample(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}
	var req SampleRequest
	if !s.decode(w, r, &req) {
		return
	}
	record, err := s.service.UpdateSample(r.Context(), id, req.X, req.Y)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSampleResponse(record))
}

func (s *Server) handleDeleteSample(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteSample(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFitSample(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}
	result, err := s.service.FitSample(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.observe(result.Results)
	s.writeJSON(w, http.StatusOK, newFitResponse(result))
}

func (s *Server) handleBatchFit(w http.ResponseWriter, r *http.Request) {
	var req BatchFitRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		s.writeError(w, errors.ValidationError("ids must not be empty"))
		return
	}

	ids := make([]core.SampleID, len(req.IDs))
	for i, raw := range req.IDs {
		id, err := core.ParseSampleID(raw)
		if err != nil {
			s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
			return
		}
		ids[i] = id
	}

	results, err := s.service.FitSamples(r.Context(), ids)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]BatchFitItem, len(results))
	for i, res := range results {
		out[i] = BatchFitItem{ID: res.ID.String(), Name: res.Name}
		if res.Err != nil {
			out[i].Error = errorBody(res.Err)
			continue
		}
		s.metrics.observe(res.Report.Results)
		out[i].Report = newFitResponse(res.Report)
	}
	s.writeJSON(w, http.StatusOK, out)
}
