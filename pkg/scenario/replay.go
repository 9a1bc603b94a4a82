package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/sonisync"
	"github.com/aretw0/sonisync/internal/logging"
	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
)

// StepResult is the observable outcome of one step.
type StepResult struct {
	Step   int              `json:"step"`
	Action string           `json:"action"`
	State  domain.Lifecycle `json:"state"`

	// Verdict and Applied are empty when the step fired no data update.
	Verdict domain.VerdictKind `json:"verdict,omitempty"`
	Applied domain.VerdictKind `json:"applied,omitempty"`

	Ops       []memory.Op         `json:"ops"`
	Errors    []string            `json:"errors,omitempty"`
	Highlight []domain.ElementRef `json:"highlight,omitempty"`
}

// Report is the outcome of a replay. Step 0 is chart creation.
type Report struct {
	Name    string       `json:"name"`
	ChartID string       `json:"chart_id"`
	Steps   []StepResult `json:"steps"`
}

// Replayer replays scenarios.
type Replayer struct {
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	appendMode bool
	store      ports.SnapshotStore
}

// Option configures the Replayer.
type Option func(*Replayer)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Replayer) {
		r.logger = logger
	}
}

// WithLifecycleHooks forwards driver events, e.g. to metrics.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Replayer) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithAppend enables incremental appends.
func WithAppend(enabled bool) Option {
	return func(r *Replayer) {
		r.appendMode = enabled
	}
}

// WithSnapshotStore mirrors reconciled snapshots to a store.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(r *Replayer) {
		r.store = store
	}
}

// NewReplayer creates a Replayer.
func NewReplayer(opts ...Option) *Replayer {
	r := &Replayer{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replay runs the scenario against a fresh plugin and host.
func (r *Replayer) Replay(ctx context.Context, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	var last *domain.ReconcileEvent
	capture := domain.LifecycleHooks{
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) { last = e },
	}

	engines := memory.NewFactory()
	pluginOpts := []sonisync.Option{
		sonisync.WithEngineFactory(engines.New),
		sonisync.WithLogger(r.logger),
		sonisync.WithLifecycleHooks(capture.Merge(r.hooks)),
		sonisync.WithAppend(r.appendMode),
	}
	if r.store != nil {
		pluginOpts = append(pluginOpts, sonisync.WithSnapshotStore(r.store))
	}
	plugin := sonisync.New(pluginOpts...)

	opts, err := sonisync.DecodeOptions(sc.Options)
	if err != nil {
		return nil, err
	}
	var errs []string
	userCallback := opts.ErrorCallback
	opts.ErrorCallback = func(msg string) {
		errs = append(errs, msg)
		if userCallback != nil {
			userCallback(msg)
		}
	}

	host := memory.NewHost(plugin, opts)
	chart := memory.NewChart(sc.Chart)
	report := &Report{Name: sc.Name, ChartID: chart.ID()}

	record := func(step int, action string) {
		res := StepResult{Step: step, Action: action, State: plugin.State(chart.ID()), Errors: errs}
		if last != nil {
			res.Verdict, res.Applied = last.Verdict, last.Applied
		}
		if e, ok := engines.Engine(chart.ID()); ok {
			res.Ops = e.Drain()
		}
		if res.Ops == nil {
			res.Ops = []memory.Op{}
		}
		res.Highlight = chart.ActiveElements()
		report.Steps = append(report.Steps, res)
		last, errs = nil, nil
	}

	host.Create(ctx, chart)
	record(0, "create")

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.apply(ctx, host, chart, engines, st); err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
		record(i+1, st.Action)
		r.logger.Debug("Replayed step", "step", i+1, "action", st.Action, "chart_id", chart.ID())
	}
	return report, nil
}

func (r *Replayer) apply(ctx context.Context, host *memory.Host, chart *memory.Chart, engines *memory.Factory, st Step) error {
	switch st.Action {
	case ActionUpdate:
		if st.Type != "" {
			chart.SetKind(st.Type)
		}
		if st.Data != nil {
			chart.SetData(st.Series, st.Data)
		}
		if st.Labels != nil {
			chart.SetLabels(st.Labels)
		}
		host.Update(ctx, chart)
	case ActionAppend:
		chart.AppendData(st.Series, st.Data...)
		chart.AppendLabels(st.Labels...)
		host.Update(ctx, chart)
	case ActionHide:
		host.Hide(ctx, chart, st.Series)
	case ActionShow:
		host.Show(ctx, chart, st.Series)
	case ActionFocus:
		chart.Focus()
	case ActionBlur:
		chart.Blur()
	case ActionMove:
		e, ok := engines.Engine(chart.ID())
		if !ok {
			return fmt.Errorf("no engine for chart %s", chart.ID())
		}
		return e.Move(st.Category, st.Index)
	case ActionDestroy:
		host.Destroy(ctx, chart)
	}
	return nil
}
