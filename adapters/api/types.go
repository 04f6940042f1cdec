package api

import (
	"time"

	"curvefit/app"
	"curvefit/domain/fit"
	"curvefit/internal/profiling"
	"curvefit/internal/report"
	"curvefit/ports"
)

// ParseRequest is the body of POST /api/parse
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse lists the parsed values
type ParseResponse struct {
	Values []float64 `json:"values"`
	Count  int       `json:"count"`
}

// FitRequest is the body of POST /api/fit and /api/fit/report
type FitRequest struct {
	X              string `json:"x"`
	Y              string `json:"y"`
	Alpha          string `json:"alpha,omitempty"`
	IncludeSolvers *bool  `json:"include_solvers,omitempty"`
}

// EntryResponse is one model outcome
type EntryResponse struct {
	Model     fit.ModelID  `json:"model"`
	Status    fit.Status   `json:"status"`
	Params    fit.Params   `json:"params,omitempty"`
	Metrics   *fit.Metrics `json:"metrics,omitempty"`
	Predicted []float64    `json:"predicted,omitempty"`
	Formula   string       `json:"formula,omitempty"`
	Reason    string       `json:"reason,omitempty"`
}

// FitResponse is a ranked result set
type FitResponse struct {
	Alpha         float64         `json:"alpha"`
	AlphaFallback bool            `json:"alpha_fallback"`
	Best          *EntryResponse  `json:"best"`
	Ranking       []fit.ModelID   `json:"ranking"`
	Results       []EntryResponse `json:"results"`

	XSummary  profiling.Summary          `json:"x_summary"`
	YSummary  profiling.Summary          `json:"y_summary"`
	Residuals *profiling.ResidualProfile `json:"residuals,omitempty"`
}

// SampleRequest is the body of POST /api/samples and PUT /api/samples/{id}
type SampleRequest struct {
	Name string `json:"name"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

// SampleResponse is a stored sample
type SampleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	X         string    `json:"x"`
	Y         string    `json:"y"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BatchFitRequest is the body of POST /api/samples/fit
type BatchFitRequest struct {
	IDs []string `json:"ids"`
}

// BatchFitItem is the outcome for one sample of a batch
type BatchFitItem struct {
	ID     string         `json:"id"`
	Name   string         `json:"name,omitempty"`
	Report *FitResponse   `json:"report,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func newEntryResponse(e fit.Entry) EntryResponse {
	out := EntryResponse{
		Model:  e.Model,
		Status: e.Status,
		Reason: e.Reason,
	}
	if e.OK() {
		m := e.Result.Metrics
		out.Params = e.Result.Params
		out.Metrics = &m
		out.Predicted = e.Result.Predicted
		out.Formula = report.Formula(e)
	}
	return out
}

func newFitResponse(r *app.FitReport) *FitResponse {
	out := &FitResponse{
		Alpha:         r.Results.Alpha(),
		AlphaFallback: r.AlphaFallback,
		Ranking:       make([]fit.ModelID, 0, len(r.Order)),
		XSummary:      r.XSummary,
		YSummary:      r.YSummary,
		Residuals:     r.Residuals,
	}
	for _, e := range r.Results.Entries() {
		out.Results = append(out.Results, newEntryResponse(e))
	}
	for _, e := range r.Order {
		out.Ranking = append(out.Ranking, e.Model)
	}
	if r.Best != nil {
		best := newEntryResponse(*r.Best)
		out.Best = &best
	}
	return out
}

func newSampleResponse(r *ports.SampleRecord) SampleResponse {
	return SampleResponse{
		ID:        r.ID.String(),
		Name:      r.Name,
		X:         r.X,
		Y:         r.Y,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
