package batch

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Orchestrator runs conversions for an ordered item list, one at a time.
// The next gateway call is issued only after the previous one resolves, so
// no two conversions are ever in flight simultaneously and progress is
// monotonic.
type Orchestrator struct {
	logger   *zap.Logger
	gateway  Gateway
	observer Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver attaches an observer for status and progress notifications.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		o.observer = observer
	}
}

func NewOrchestrator(logger *zap.Logger, gateway Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:   logger,
		gateway:  gateway,
		observer: NopObserver{},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run converts every input in order. A gateway error for one item marks that
// item failed and the loop proceeds to the next; the run never aborts on a
// per-item failure. Cancellation is checked before each gateway call: on
// cancel the returned Run holds the partial state, items past the
// cancellation point stay pending, and a non-nil error is returned.
func (o *Orchestrator) Run(ctx context.Context, inputs []Input, params Params) (*Run, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs to convert")
	}

	run := &Run{Items: make([]Item, len(inputs))}
	for i, input := range inputs {
		run.Items[i] = Item{Index: i, Name: input.Name, Payload: input.Payload, Status: StatusPending}
	}

	seen := make(map[string]struct{}, len(inputs))
	completed := 0

	for i := range run.Items {
		if err := ctx.Err(); err != nil {
			return run, fmt.Errorf("run cancelled before item %d (%s): %w", i, run.Items[i].Name, err)
		}

		item := &run.Items[i]
		o.setStatus(item, StatusConverting)

		result, err := o.gateway.Convert(ctx, Request{
			Filename: item.Name,
			Payload:  item.Payload,
			Format:   params.Format,
			Quality:  params.Quality,
		})
		if err != nil {
			item.Err = err
			o.setStatus(item, StatusFailed)
			o.logger.Warn("item conversion failed",
				zap.Int("index", item.Index),
				zap.String("name", item.Name),
				zap.Error(err))
		} else {
			result.OutputName = uniqueName(result.OutputName, seen)
			seen[result.OutputName] = struct{}{}
			run.Results = append(run.Results, result)
			o.setStatus(item, StatusDone)
			o.logger.Debug("item converted",
				zap.Int("index", item.Index),
				zap.String("name", item.Name),
				zap.String("output_name", result.OutputName),
				zap.Int("output_bytes", len(result.Data)))
		}

		completed++
		o.observer.Progress(completed, len(run.Items))
	}

	o.logger.Info("batch run finished",
		zap.Int("total", len(run.Items)),
		zap.Int("succeeded", run.SucceededCount()),
		zap.Int("failed", run.FailedCount()))

	return run, nil
}

func (o *Orchestrator) setStatus(item *Item, status Status) {
	item.Status = status
	o.observer.ItemStatusChanged(item.Index, status)
}

// uniqueName disambiguates output name collisions within a run by inserting
// a numeric suffix before the extension: "photo.png" -> "photo_1.png".
func uniqueName(name string, seen map[string]struct{}) string {
	if _, ok := seen[name]; !ok {
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, ok := seen[candidate]; !ok {
			return candidate
		}
	}
}
