package sonisync

import (
	"context"
	"log/slog"

	"github.com/aretw0/sonisync/internal/runtime"
	"github.com/aretw0/sonisync/pkg/config"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/aretw0/sonisync/pkg/shape"
)

// ID is the plugin identifier hosts register the plugin under.
const ID = config.PluginID

// Options is the per-chart configuration passed with every hook.
type Options = config.Options

// DecodeOptions decodes the host's generic plugin options map.
func DecodeOptions(raw map[string]any) (Options, error) {
	return config.DecodeOptions(raw)
}

// Plugin is the high-level entry point for the library. It implements the
// chart lifecycle hooks and keeps one sonification engine per chart.
type Plugin struct {
	driver *runtime.Driver
	opts   []runtime.Option
}

// Option defines a functional option for configuring the Plugin.
type Option func(*Plugin)

// WithEngineFactory sets how sonification engines are constructed.
func WithEngineFactory(factory ports.EngineFactory) Option {
	return func(p *Plugin) {
		p.opts = append(p.opts, runtime.WithEngineFactory(factory))
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		p.opts = append(p.opts, runtime.WithLogger(logger))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Plugin) {
		p.opts = append(p.opts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithSnapshotStore mirrors each chart's last reconciled snapshot to a store.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(p *Plugin) {
		p.opts = append(p.opts, runtime.WithSnapshotStore(store))
	}
}

// WithAppend enables incremental appends for charts that only grow.
func WithAppend(enabled bool) Option {
	return func(p *Plugin) {
		p.opts = append(p.opts, runtime.WithAppend(enabled))
	}
}

// WithBoxFormatter replaces the box-plot data formatter.
func WithBoxFormatter(f shape.BoxFormatter) Option {
	return func(p *Plugin) {
		p.opts = append(p.opts, runtime.WithBoxFormatter(f))
	}
}

// New creates a Plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{}
	for _, opt := range opts {
		opt(p)
	}
	p.driver = runtime.New(p.opts...)
	return p
}

// AfterInit is called once the host chart is constructed.
func (p *Plugin) AfterInit(ctx context.Context, chart ports.Chart, opts Options) {
	p.driver.AfterInit(ctx, chart, opts)
}

// AfterUpdate is called after every host update.
func (p *Plugin) AfterUpdate(ctx context.Context, chart ports.Chart, opts Options) {
	p.driver.AfterUpdate(ctx, chart, opts)
}

// AfterDatasetUpdate is called after a single series is updated.
func (p *Plugin) AfterDatasetUpdate(ctx context.Context, chart ports.Chart, args domain.DatasetUpdateArgs, opts Options) {
	p.driver.AfterDatasetUpdate(ctx, chart, args, opts)
}

// AfterDestroy is called when the host chart is torn down.
func (p *Plugin) AfterDestroy(ctx context.Context, chart ports.ChartModel) {
	p.driver.AfterDestroy(ctx, chart)
}

// State reports the lifecycle state of a chart.
func (p *Plugin) State(chartID string) domain.Lifecycle {
	return p.driver.State(chartID)
}

// Charts returns the IDs of all active charts.
func (p *Plugin) Charts() []string {
	return p.driver.Registry().IDs()
}
