package memory

import (
	"context"

	"github.com/aretw0/sonisync/pkg/config"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
)

// Host replays the lifecycle a chart library drives: initialization,
// layout, per-dataset visibility updates, data updates and destruction.
type Host struct {
	hooks ports.ChartHooks
	opts  config.Options
}

// NewHost creates a host that calls hooks with opts.
func NewHost(hooks ports.ChartHooks, opts config.Options) *Host {
	return &Host{hooks: hooks, opts: opts}
}

// Create initializes a chart and runs its first update.
func (h *Host) Create(ctx context.Context, c *Chart) {
	c.ResetLayout()
	h.hooks.AfterInit(ctx, c, h.opts)
	h.Update(ctx, c)
}

// Update lays the chart out and fires the data-updated hook.
func (h *Host) Update(ctx context.Context, c *Chart) {
	c.Layout()
	h.hooks.AfterUpdate(ctx, c, h.opts)
}

// Hide hides a series the way a legend click does.
func (h *Host) Hide(ctx context.Context, c *Chart, series int) {
	h.setVisibility(ctx, c, series, false)
}

// Show reveals a series the way a legend click does.
func (h *Host) Show(ctx context.Context, c *Chart, series int) {
	h.setVisibility(ctx, c, series, true)
}

func (h *Host) setVisibility(ctx context.Context, c *Chart, series int, visible bool) {
	mode := domain.ModeHide
	if visible {
		mode = domain.ModeShow
	}
	c.SetDatasetVisibility(series, visible)
	c.Layout()
	h.hooks.AfterDatasetUpdate(ctx, c, domain.DatasetUpdateArgs{Mode: mode, Index: series}, h.opts)
	h.hooks.AfterUpdate(ctx, c, h.opts)
}

// Destroy tears the chart down.
func (h *Host) Destroy(ctx context.Context, c *Chart) {
	h.hooks.AfterDestroy(ctx, c)
}
