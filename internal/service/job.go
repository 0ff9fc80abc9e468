package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/observability/metrics"
	"github.com/inkwell-ai/inkwell-api/internal/observability/statsd"
	"github.com/inkwell-ai/inkwell-api/internal/ports"
)

// DefaultUpstreamTimeout bounds a single ML service call. Generation can be
// slow; five minutes matches the upstream model's worst observed latency.
const DefaultUpstreamTimeout = 5 * time.Minute

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Store   ports.JobStore // Required: job registry
	ML      ports.MLClient // Required: upstream ML service client
	Logger  *slog.Logger   // Optional: structured logger
	Metrics statsd.Sink    // Optional: metrics sink (StatsD-compatible)

	// UpstreamTimeout bounds each background ML call. Defaults to
	// DefaultUpstreamTimeout when zero.
	UpstreamTimeout time.Duration
}

// JobService accepts content work, registers it, and hands it to the ML
// service in a detached goroutine. Submission never waits for the upstream:
// the caller gets a job id immediately and polls for the outcome.
type JobService struct {
	store   ports.JobStore
	ml      ports.MLClient
	logger  *slog.Logger
	metrics statsd.Sink
	timeout time.Duration
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Store == nil {
		return nil, errors.New("JobStore is required")
	}
	if opts.ML == nil {
		return nil, errors.New("MLClient is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.UpstreamTimeout
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}

	return &JobService{
		store:   opts.Store,
		ml:      opts.ML,
		logger:  logger.With("component", "job_service"),
		metrics: opts.Metrics,
		timeout: timeout,
	}, nil
}

// SubmitAnalysis validates the request, registers a processing job, and
// dispatches the analysis in the background. The returned id is queryable
// as "processing" before this function returns.
func (s *JobService) SubmitAnalysis(req model.AnalyzeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	return s.dispatch(model.JobKindAnalyze, func(ctx context.Context) ([]byte, error) {
		return s.ml.Analyze(ctx, req)
	})
}

// SubmitGeneration validates the request, registers a processing job, and
// dispatches the generation in the background.
func (s *JobService) SubmitGeneration(req model.GenerateRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	return s.dispatch(model.JobKindGenerate, func(ctx context.Context) ([]byte, error) {
		return s.ml.Generate(ctx, req)
	})
}

// GetStatus returns the status view for a job id, or a NotFound error when
// the id is unknown or already evicted.
func (s *JobService) GetStatus(id string) (model.JobStatusResponse, error) {
	job, err := s.store.Get(id)
	if err != nil {
		return model.JobStatusResponse{}, err
	}
	return job.StatusView(), nil
}

// dispatch registers the job and starts the background call. The goroutine
// deliberately runs on context.Background: the submitting request's context
// dies with the HTTP response, while the job must keep running.
func (s *JobService) dispatch(kind model.JobKind, call func(context.Context) ([]byte, error)) (string, error) {
	id := uuid.NewString()
	if err := s.store.Create(id, kind); err != nil {
		return "", err
	}

	go s.run(id, kind, call)

	return id, nil
}

func (s *JobService) run(id string, kind model.JobKind, call func(context.Context) ([]byte, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.runProtected(ctx, call)
	elapsed := time.Since(start)

	if err != nil {
		s.finish(ctx, id, kind, model.JobStatusFailed, nil, s.failureMessage(err), elapsed, err)
		return
	}
	s.finish(ctx, id, kind, model.JobStatusCompleted, result, "", elapsed, nil)
}

// runProtected converts a panicking ML call into an ordinary error so the
// job still reaches a terminal state.
func (s *JobService) runProtected(ctx context.Context, call func(context.Context) ([]byte, error)) (result []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Internalf("background job panicked: %v", r)
		}
	}()
	return call(ctx)
}

// finish records the single terminal transition and emits telemetry. A false
// return from Update means the sweeper evicted the record mid-flight; that is
// logged as an anomaly and otherwise absorbed.
func (s *JobService) finish(
	ctx context.Context,
	id string,
	kind model.JobKind,
	status model.JobStatus,
	result []byte,
	errMsg string,
	elapsed time.Duration,
	cause error,
) {
	if !s.store.Update(id, status, result, errMsg) {
		s.logger.WarnContext(ctx, "job evicted before completion",
			"job_id", id, "kind", kind, "status", status)
		return
	}

	if status == model.JobStatusFailed {
		s.logger.ErrorContext(ctx, "background job failed",
			"job_id", id, "kind", kind, "elapsed", elapsed, "err", cause)
	} else {
		s.logger.InfoContext(ctx, "background job completed",
			"job_id", id, "kind", kind, "elapsed", elapsed)
	}

	metrics.EmitJobFinished(s.metrics, metrics.JobMetric{
		Kind:     string(kind),
		Status:   string(status),
		Duration: elapsed,
		Err:      cause,
	})
}

// failureMessage renders the diagnostic stored on the job record. Deadline
// breaches get an explicit message so clients can tell a slow upstream from
// a broken one.
func (s *JobService) failureMessage(err error) string {
	if apperrors.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("ml service did not respond within %s", s.timeout)
	}
	return err.Error()
}
