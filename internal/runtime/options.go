package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/aretw0/sonisync/pkg/registry"
	"github.com/aretw0/sonisync/pkg/shape"
)

// Option defines a functional option for configuring the Driver.
type Option func(*Driver)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Driver) {
		d.hooks = d.hooks.Merge(hooks)
	}
}

// WithEngineFactory configures how sonification engines are constructed.
func WithEngineFactory(factory ports.EngineFactory) Option {
	return func(d *Driver) {
		d.factory = factory
	}
}

// WithSnapshotStore writes each reconciled snapshot through to a store.
// The store is never read back during reconciliation.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(d *Driver) {
		d.store = store
	}
}

// WithAppend enables the incremental append path. When disabled, pure
// appends are applied as full replaces.
func WithAppend(enabled bool) Option {
	return func(d *Driver) {
		d.appendEnabled = enabled
	}
}

// WithBoxFormatter replaces the box-plot formatter used by the normalizer.
func WithBoxFormatter(f shape.BoxFormatter) Option {
	return func(d *Driver) {
		d.normalizer = shape.New(shape.WithBoxFormatter(f))
	}
}

// WithRegistry shares a state registry between drivers.
func WithRegistry(reg *registry.Registry) Option {
	return func(d *Driver) {
		d.registry = reg
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}
