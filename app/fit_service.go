package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"curvefit/domain/core"
	"curvefit/domain/fit"
	"curvefit/internal"
	"curvefit/internal/engine"
	"curvefit/internal/errors"
	"curvefit/internal/parse"
	"curvefit/internal/profiling"
	"curvefit/internal/ranking"
	"curvefit/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// FitRequest carries user text for one fit
type FitRequest struct {
	X              string
	Y              string
	Alpha          string // empty uses the configured default
	IncludeSolvers *bool  // nil uses the configured default
}

// FitReport is a ranked result set
type FitReport struct {
	Results       *fit.ResultSet
	Best          *fit.Entry
	Order         []fit.Entry
	AlphaFallback bool

	XSummary  profiling.Summary
	YSummary  profiling.Summary
	Residuals *profiling.ResidualProfile // residuals of Best; nil when nothing fitted
}

// SampleFit is the outcome of fitting one stored sample in a batch
type SampleFit struct {
	ID     core.SampleID
	Name   string
	Report *FitReport
	Err    error
}

// FitService parses input, runs the regression engine and manages stored samples
type FitService struct {
	repo             ports.SampleRepository
	defaults         engine.Config
	batchConcurrency int
	fitSem           *semaphore.Weighted
	logger           *internal.Logger
	now              func() time.Time
}

// NewFitService creates a service. concurrency bounds simultaneous fits across all callers.
func NewFitService(repo ports.SampleRepository, defaults engine.Config, concurrency int, logger *internal.Logger) *FitService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FitService{
		repo:             repo,
		defaults:         defaults,
		batchConcurrency: concurrency,
		fitSem:           semaphore.NewWeighted(int64(concurrency)),
		logger:           logger.With("component", "fit_service"),
		now:              time.Now,
	}
}

// Defaults returns the engine configuration applied when a request leaves settings unset
func (s *FitService) Defaults() engine.Config {
	return s.defaults
}

// ParseValues parses one sequence of numbers, reporting the offending token as INVALID_INPUT
func (s *FitService) ParseValues(text string) ([]float64, error) {
	values, err := parse.Numbers(text)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "could not parse numbers")
	}
	return values, nil
}

// FitText parses x and y and fits every model
func (s *FitService) FitText(ctx context.Context, req FitRequest) (*FitReport, error) {
	x, y, err := s.parseXY(req.X, req.Y)
	if err != nil {
		return nil, err
	}

	cfg := s.defaults
	if strings.TrimSpace(req.Alpha) != "" {
		cfg = cfg.WithAlphaText(req.Alpha)
	}
	if req.IncludeSolvers != nil {
		cfg.IncludeSolvers = *req.IncludeSolvers
	}
	return s.Fit(ctx, x, y, cfg)
}

// Fit runs the engine on parsed values and ranks the result
func (s *FitService) Fit(ctx context.Context, x, y []float64, cfg engine.Config) (*FitReport, error) {
	if err := s.fitSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.fitSem.Release(1)

	start := time.Now()
	rs, err := engine.FitAll(x, y, cfg)
	if err != nil {
		return nil, classify(err, "could not fit sample")
	}

	report := &FitReport{
		Results:       rs,
		Order:         ranking.Order(rs),
		AlphaFallback: rs.AlphaFallback(),
	}
	// NewSample accepted x and y, so both are non-empty
	report.XSummary, _ = profiling.Summarize(x)
	report.YSummary, _ = profiling.Summarize(y)
	if best, ok := ranking.Best(rs); ok {
		report.Best = &best
		if residuals, err := profiling.Residuals(best, y); err == nil {
			report.Residuals = &residuals
		} else {
			s.logger.Warn("residual profile for %s failed: %v", best.Model, err)
		}
	}

	if rs.AlphaFallback() {
		s.logger.Warn("invalid regularization alpha, using default %g", rs.Alpha())
	}
	s.logger.Debug("fitted %d models on %d points in %s (%d ranked)", rs.Len(), len(x), time.Since(start), len(report.Order))
	return report, nil
}

// SaveSample validates and stores a named sample
func (s *FitService) SaveSample(ctx context.Context, name string, x, y []float64) (*ports.SampleRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(errors.WithCode(errors.CodeValidationError,
			fmt.Errorf("%w: name is required", core.ErrInvalidName)), "invalid sample")
	}
	if _, err := fit.NewSample(x, y); err != nil {
		return nil, classify(err, "invalid sample")
	}

	now := s.now().UTC()
	record := &ports.SampleRecord{
		ID:        core.NewSampleID(),
		Name:      name,
		X:         parse.Format(x),
		Y:         parse.Format(y),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to save sample")
	}

	s.logger.Info("saved sample %s (%q, %d points)", record.ID, record.Name, len(x))
	return record, nil
}

// SaveSampleText parses x and y text and stores the sample
func (s *FitService) SaveSampleText(ctx context.Context, name, xText, yText string) (*ports.SampleRecord, error) {
	x, y, err := s.parseXY(xText, yText)
	if err != nil {
		return nil, err
	}
	return s.SaveSample(ctx, name, x, y)
}

// GetSample loads a stored sample
func (s *FitService) GetSample(ctx context.Context, id core.SampleID) (*ports.SampleRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "failed to load sample")
	}
	return record, nil
}

// SearchSamples finds samples by name fragment
func (s *FitService) SearchSamples(ctx context.Context, fragment string, limit int) ([]*ports.SampleRecord, error) {
	records, err := s.repo.Search(ctx, fragment, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search samples")
	}
	return records, nil
}

// UpdateSample replaces the values of a stored sample
func (s *FitService) UpdateSample(ctx context.Context, id core.SampleID, xText, yText string) (*ports.SampleRecord, error) {
	x, y, err := s.parseXY(xText, yText)
	if err != nil {
		return nil, err
	}
	if _, err := fit.NewSample(x, y); err != nil {
		return nil, classify(err, "invalid sample")
	}

	ok, err := s.repo.UpdateXY(ctx, id, parse.Format(x), parse.Format(y))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update sample")
	}
	if !ok {
		return nil, classify(core.ErrSampleNotFound, "failed to update sample")
	}
	return s.GetSample(ctx, id)
}

// DeleteSample removes a stored sample
func (s *FitService) DeleteSample(ctx context.Context, id core.SampleID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return classify(err, "failed to delete sample")
	}
	return nil
}

// FitSample fits a stored sample with the default configuration
func (s *FitService) FitSample(ctx context.Context, id core.SampleID) (*FitReport, error) {
	record, err := s.GetSample(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fitRecord(ctx, record)
}

func (s *FitService) fitRecord(ctx context.Context, record *ports.SampleRecord) (*FitReport, error) {
	x, y, err := s.parseXY(record.X, record.Y)
	if err != nil {
		return nil, errors.Wrapf(err, "stored sample %s is corrupt", record.ID)
	}
	return s.Fit(ctx, x, y, s.defaults)
}

// FitSamples fits several stored samples concurrently. Per-sample failures are reported
// in the results; the call itself only fails when ctx is canceled.
func (s *FitService) FitSamples(ctx context.Context, ids []core.SampleID) ([]SampleFit, error) {
	results := make([]SampleFit, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].ID = id
			record, err := s.GetSample(gctx, id)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Name = record.Name
			results[i].Report, results[i].Err = s.fitRecord(gctx, record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("batch fit finished: %d samples, %d failed", len(ids), failed)
	return results, nil
}

func (s *FitService) parseXY(xText, yText string) ([]float64, []float64, error) {
	x, err := parse.Numbers(xText)
	if err != nil {
		return nil, nil, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "could not parse x")
	}
	y, err := parse.Numbers(yText)
	if err != nil {
		return nil, nil, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "could not parse y")
	}
	return x, y, nil
}

// classify attaches an AppError code to domain errors
func classify(err error, message string) error {
	switch {
	case errors.IsAppError(err):
		return errors.Wrap(err, message)
	case core.IsNotFoundError(err):
		return errors.Wrap(errors.WithCode(errors.CodeNotFound, err), message)
	case stderrors.Is(err, fit.ErrParse):
		return errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), message)
	case fit.IsInputError(err), core.IsValidationError(err):
		return errors.Wrap(errors.WithCode(errors.CodeValidationError, err), message)
	default:
		return errors.Wrap(err, message)
	}
}
