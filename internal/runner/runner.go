package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	v1 "github.com/packconv/packconv/apis/v1"
	"github.com/packconv/packconv/internal/batch"
	"github.com/packconv/packconv/internal/engine"
)

// DefaultArchiveName is the delivered filename for a batch download. It is a
// fixed literal because the archive holds multiple outputs, not one item's.
const DefaultArchiveName = "converted_images.zip"

// ErrNothingConverted is returned when every item in the run failed. No
// archive is produced in that case.
var ErrNothingConverted = errors.New("no items were converted")

var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// ParseConvertJob parses a YAML or JSON job file and validates it against
// the constraints declared on the v1.ConvertJob struct.
func ParseConvertJob(data []byte) (v1.ConvertJob, error) {
	var job v1.ConvertJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return v1.ConvertJob{}, fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	if err := defaultValidator.Struct(job); err != nil {
		return v1.ConvertJob{}, fmt.Errorf("failed to validate job: %w", err)
	}

	return job, nil
}

// Runner executes one ConvertJob end to end: expand inputs, convert them
// sequentially against the gateway, package the successes into a ZIP and
// deliver it.
type Runner struct {
	logger   *zap.Logger
	job      v1.ConvertJob
	fs       afero.Fs
	gateway  batch.Gateway
	sink     engine.Sink
	observer batch.Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver attaches an extra observer (e.g. console progress) on top of
// the runner's logging observer.
func WithObserver(observer batch.Observer) Option {
	return func(r *Runner) {
		r.observer = observer
	}
}

// WithGateway overrides the gateway client built from the job spec.
func WithGateway(gw batch.Gateway) Option {
	return func(r *Runner) {
		r.gateway = gw
	}
}

// WithSink overrides the delivery sink built from the job spec.
func WithSink(sink engine.Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithFs overrides the filesystem inputs are read from.
func WithFs(fs afero.Fs) Option {
	return func(r *Runner) {
		r.fs = fs
	}
}

func New(ctx context.Context, logger *zap.Logger, job v1.ConvertJob, opts ...Option) (*Runner, error) {
	logger.Info("creating runner", zap.String("job_name", job.Metadata.Name))

	r := &Runner{
		logger:   logger,
		job:      job,
		fs:       afero.NewOsFs(),
		observer: batch.NopObserver{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.gateway == nil {
		gw, err := buildGateway(job.Spec.Gateway)
		if err != nil {
			return nil, fmt.Errorf("failed to build gateway client: %w", err)
		}
		r.gateway = gw
	}

	if r.sink == nil {
		sink, err := buildSink(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("failed to build sink: %w", err)
		}
		r.sink = sink
	}

	return r, nil
}

// Run executes the job. A partial failure still delivers an archive of the
// successes; only a run with zero successes returns ErrNothingConverted,
// without invoking the archive encoder at all.
func (r *Runner) Run(ctx context.Context) (*batch.Run, error) {
	inputs, err := collectInputs(r.fs, r.job.Spec.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to collect inputs: %w", err)
	}

	r.logger.Info("collected inputs", zap.Int("count", len(inputs)))

	observer := batch.MultiObserver{r.newLoggingObserver(), r.observer}
	orchestrator := batch.NewOrchestrator(r.logger.Named("batch"), r.gateway, batch.WithObserver(observer))

	run, err := orchestrator.Run(ctx, inputs, batch.Params{
		Format:  r.job.Spec.Format,
		Quality: quality(r.job.Spec.Quality),
	})
	if err != nil {
		return run, fmt.Errorf("failed to run batch: %w", err)
	}

	if len(run.Results) == 0 {
		return run, fmt.Errorf("all %d items failed: %w", len(run.Items), ErrNothingConverted)
	}

	if err := r.deliver(ctx, run); err != nil {
		return run, fmt.Errorf("failed to deliver archive: %w", err)
	}

	r.logger.Info("job finished",
		zap.String("job_name", r.job.Metadata.Name),
		zap.Int("succeeded", run.SucceededCount()),
		zap.Int("failed", run.FailedCount()))

	return run, nil
}

func (r *Runner) deliver(ctx context.Context, run *batch.Run) error {
	for _, result := range run.Results {
		if err := r.sink.Write(ctx, result.OutputName, bytes.NewReader(result.Data)); err != nil {
			return fmt.Errorf("failed to write %s: %w", result.OutputName, err)
		}
	}

	if err := r.sink.Close(ctx); err != nil {
		return fmt.Errorf("failed to close sink: %w", err)
	}

	return nil
}

// DefaultQuality matches the conversion service's own default.
const DefaultQuality = 85

func quality(q *int) int {
	if q == nil {
		return DefaultQuality
	}
	return *q
}

// loggingObserver mirrors status and progress into the runner's logger.
type loggingObserver struct {
	logger *zap.Logger
}

func (r *Runner) newLoggingObserver() batch.Observer {
	return &loggingObserver{logger: r.logger.Named("progress")}
}

func (o *loggingObserver) ItemStatusChanged(index int, status batch.Status) {
	o.logger.Debug("item status changed",
		zap.Int("index", index),
		zap.Stringer("status", status))
}

func (o *loggingObserver) Progress(completed, total int) {
	o.logger.Info("progress",
		zap.Int("completed", completed),
		zap.Int("total", total))
}
