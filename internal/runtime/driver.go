// Package runtime drives the reconciliation between a host chart and the
// sonification engine it owns.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/sonisync/internal/logging"
	"github.com/aretw0/sonisync/pkg/axes"
	"github.com/aretw0/sonisync/pkg/classify"
	"github.com/aretw0/sonisync/pkg/config"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/aretw0/sonisync/pkg/registry"
	"github.com/aretw0/sonisync/pkg/shape"
)

// maxDeferredPasses bounds the extra passes run for re-entrant updates.
const maxDeferredPasses = 3

// Driver reacts to host lifecycle hooks and keeps one sonification engine
// per chart consistent with the chart's data, visibility and scales.
//
// Hooks for one chart must not run concurrently. A data-updated hook fired
// while a reconciliation is in progress is deferred: the chart is
// reconciled once more when the running pass ends.
type Driver struct {
	registry   *registry.Registry
	factory    ports.EngineFactory
	normalizer *shape.Normalizer
	classifier *classify.Classifier
	store      ports.SnapshotStore
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time

	appendEnabled bool
}

// New creates a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{
		registry:   registry.New(),
		normalizer: shape.New(),
		logger:     logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.classifier = classify.New(classify.WithLogger(d.logger))
	return d
}

// Registry exposes the driver's state registry.
func (d *Driver) Registry() *registry.Registry {
	return d.registry
}

// State reports the lifecycle state of a chart.
func (d *Driver) State(chartID string) domain.Lifecycle {
	return d.registry.State(chartID)
}

// AfterInit activates the chart if it already holds data. Initializing a
// chart under a destroyed ID starts a new chart instance.
func (d *Driver) AfterInit(ctx context.Context, chart ports.Chart, opts config.Options) {
	if d.registry.Revive(chart.ID()) {
		d.logger.Debug("Reusing destroyed chart ID", "chart_id", chart.ID())
	}
	if d.registry.State(chart.ID()) != domain.LifecycleUninitialized {
		return
	}
	if !hasData(chart.Datasets()) {
		d.logger.Debug("Chart has no data yet, deferring activation", "chart_id", chart.ID())
		return
	}
	d.activate(ctx, chart, opts)
}

// AfterUpdate reconciles the engine with the host after a data update.
func (d *Driver) AfterUpdate(ctx context.Context, chart ports.Chart, opts config.Options) {
	id := chart.ID()
	if d.registry.State(id) == domain.LifecycleDestroyed {
		return
	}

	rec, ok := d.registry.Lookup(id)
	if !ok {
		if !hasData(chart.Datasets()) {
			return
		}
		if rec, ok = d.activate(ctx, chart, opts); !ok {
			return
		}
	}

	if !rec.Begin() {
		d.logger.Debug("Deferring re-entrant update", "chart_id", id)
		return
	}
	for pass := 1; ; pass++ {
		d.reconcile(ctx, chart, rec, opts)
		if !rec.End() {
			return
		}
		if pass > maxDeferredPasses {
			d.logger.Warn("Host keeps updating while reconciling, waiting for the next hook", "chart_id", id)
			return
		}
		rec.Begin()
	}
}

// AfterDatasetUpdate mirrors a hide/show of one host series into the engine.
func (d *Driver) AfterDatasetUpdate(ctx context.Context, chart ports.Chart, args domain.DatasetUpdateArgs, opts config.Options) {
	var visible bool
	switch args.Mode {
	case domain.ModeHide:
	case domain.ModeShow:
		visible = true
	default:
		return
	}

	id := chart.ID()
	if d.registry.State(id) == domain.LifecycleDestroyed {
		return
	}
	rec, ok := d.registry.Lookup(id)
	if !ok {
		if !hasData(chart.Datasets()) {
			return
		}
		if rec, ok = d.activate(ctx, chart, opts); !ok {
			return
		}
	}

	cats := seriesCategories(rec.Engine.Categories(), rec.Stacked)
	if args.Index < 0 || args.Index >= len(cats) {
		d.logger.Warn("Dataset index has no engine category", "chart_id", id, "index", args.Index)
		return
	}

	category := cats[args.Index]
	if err := rec.Engine.SetCategoryVisibility(category, visible); err != nil {
		d.visibilityFailed(ctx, id, category, err)
	}
	if visible {
		rec.Show(args.Index)
	} else {
		rec.Hide(args.Index)
	}

	if d.hooks.OnVisibility != nil {
		d.hooks.OnVisibility(ctx, &domain.VisibilityEvent{
			EventBase: d.event(domain.EventVisibility, id),
			Category:  category,
			Index:     args.Index,
			Visible:   visible,
		})
	}
}

// AfterDestroy releases the chart's engine and drops its record. Later
// update hooks for the same chart are ignored until it is initialized again.
func (d *Driver) AfterDestroy(ctx context.Context, chart ports.ChartModel) {
	id := chart.ID()
	rec, ok := d.registry.Unregister(id)
	if !ok {
		return
	}
	rec.Engine.CleanUp()

	if d.store != nil {
		if err := d.store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
			d.fail(ctx, id, domain.ErrorKindStore, err)
		}
	}

	d.logger.Info("Chart destroyed", "chart_id", id)
	if d.hooks.OnDestroy != nil {
		d.hooks.OnDestroy(ctx, &domain.ChartEvent{
			EventBase: d.event(domain.EventDestroy, id),
			Target:    rec.Target,
		})
	}
}

func (d *Driver) activate(ctx context.Context, chart ports.Chart, opts config.Options) (*registry.Record, bool) {
	id := chart.ID()
	datasets := chart.Datasets()

	target, err := domain.ResolveTarget(chart.Kind(), datasets)
	if err != nil {
		d.report(ctx, id, opts, domain.ErrorKindUnsupported, err)
		return nil, false
	}

	res, err := d.normalizer.Normalize(datasets, target)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyData) {
			d.fail(ctx, id, domain.ErrorKindConstruction, err)
		}
		return nil, false
	}

	control := opts.CC
	if control == nil {
		control = chart.NewControlElement()
	}

	if d.factory == nil {
		d.report(ctx, id, opts, domain.ErrorKindConstruction,
			fmt.Errorf("%w: no engine factory configured", domain.ErrEngineConstruction))
		return nil, false
	}

	stack := chart.AxisOptions().X.Stacked
	engine, err := d.factory(ports.EngineConfig{
		Target:      chart.Canvas(),
		Control:     control,
		Kind:        target,
		Data:        res.Payload,
		Title:       chart.Title(),
		Axes:        d.deriveAxes(chart, target, res, opts, false),
		AudioEngine: opts.AudioEngine,
		Lang:        opts.Lang,
		Stack:       stack,
		OnFocus:     func() { d.displayPoint(chart) },
	})
	if err != nil {
		d.report(ctx, id, opts, domain.ErrorKindConstruction, fmt.Errorf("%w: %w", domain.ErrEngineConstruction, err))
		return nil, false
	}
	if engine == nil {
		return nil, false
	}

	rec := &registry.Record{
		ChartID:       id,
		Engine:        engine,
		Target:        target,
		Stacked:       stack,
		VisibleSeries: hostVisible(chart, len(res.Payload.Series)),
		LastSnapshot:  d.snapshot(chart),
	}
	d.registry.Register(rec)

	chart.OnBlur(func() {
		if err := chart.SetActiveElements(nil); err != nil {
			d.logger.Debug("Failed to clear highlight", "chart_id", id, "err", err)
		}
	})
	chart.OnFocus(func() { d.displayPoint(chart) })

	d.persist(ctx, rec)

	d.logger.Info("Chart activated", "chart_id", id, "target", target)
	if d.hooks.OnActivate != nil {
		d.hooks.OnActivate(ctx, &domain.ChartEvent{
			EventBase: d.event(domain.EventActivate, id),
			Target:    target,
		})
	}
	return rec, true
}

func (d *Driver) reconcile(ctx context.Context, chart ports.Chart, rec *registry.Record, opts config.Options) {
	id := chart.ID()
	cur := d.snapshot(chart)
	live := classify.LiveState{
		ScalesSynced:    rec.ScalesSynced,
		ScalesAvailable: chart.ComputedScales().Y != nil,
	}

	verdict := d.classifier.Classify(rec.LastSnapshot, cur, live)
	applied := verdict.Kind

	switch verdict.Kind {
	case domain.VerdictUnchanged:
	case domain.VerdictScaleOnly:
		d.patchScales(chart, rec, opts)
	case domain.VerdictPureAppend:
		if d.appendEnabled && d.applyAppend(ctx, rec, verdict.Append) {
			rec.LastSnapshot = cur
			if live.ScalesAvailable && !rec.ScalesSynced {
				d.patchScales(chart, rec, opts)
			}
			break
		}
		applied = domain.VerdictReplace
		fallthrough
	case domain.VerdictReplace:
		if !d.replace(ctx, chart, rec, cur, live, opts) {
			return
		}
	}

	if applied != domain.VerdictUnchanged {
		d.persist(ctx, rec)
		d.logger.Debug("Chart reconciled", "chart_id", id, "verdict", verdict.Kind, "applied", applied)
	}
	if d.hooks.OnReconcile != nil {
		d.hooks.OnReconcile(ctx, &domain.ReconcileEvent{
			EventBase: d.event(domain.EventReconcile, id),
			Verdict:   verdict.Kind,
			Applied:   applied,
		})
	}
}

// patchScales recalibrates axis bounds in place from the layout scales.
func (d *Driver) patchScales(chart ports.Chart, rec *registry.Record, opts config.Options) {
	a := axes.Merge(axes.Derive(d.axesInput(chart, rec.Target, nil, opts)), opts.Axes)
	if b := a.X.Bounds(); !b.Empty() {
		rec.Engine.PatchAxisBounds(domain.AxisX, b)
	}
	if b := a.Y.Bounds(); !b.Empty() {
		rec.Engine.PatchAxisBounds(domain.AxisY, b)
	}
	rec.ScalesSynced = true
}

func (d *Driver) applyAppend(ctx context.Context, rec *registry.Record, desc *domain.AppendDescriptor) bool {
	for _, p := range desc.NewPoints {
		if err := rec.Engine.AppendData(p, desc.CategoryName); err != nil {
			d.fail(ctx, rec.ChartID, domain.ErrorKindAppend, err)
			return false
		}
	}
	return true
}

func (d *Driver) replace(ctx context.Context, chart ports.Chart, rec *registry.Record, cur domain.Snapshot, live classify.LiveState, opts config.Options) bool {
	id := chart.ID()
	datasets := chart.Datasets()

	target, err := domain.ResolveTarget(chart.Kind(), datasets)
	if err != nil {
		d.report(ctx, id, opts, domain.ErrorKindUnsupported, err)
		return false
	}

	res, err := d.normalizer.Normalize(datasets, target)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyData) {
			d.logger.Debug("Host data emptied, keeping previous engine data", "chart_id", id)
		} else {
			d.fail(ctx, id, domain.ErrorKindConstruction, err)
		}
		return false
	}

	a := d.deriveAxes(chart, target, res, opts, true)
	cursor := rec.Engine.Current().Index
	rec.Engine.SetData(res.Payload, a, &cursor)

	rec.Target = target
	rec.LastSnapshot = cur
	rec.ScalesSynced = live.ScalesAvailable

	if res.Payload.Grouped() {
		cats := seriesCategories(rec.Engine.Categories(), rec.Stacked)
		for i, category := range cats {
			if err := rec.Engine.SetCategoryVisibility(category, chart.IsDatasetVisible(i)); err != nil {
				d.visibilityFailed(ctx, id, category, err)
			}
		}
	}
	rec.VisibleSeries = hostVisible(chart, len(res.Payload.Series))
	return true
}

// displayPoint highlights the host elements under the engine's cursor.
func (d *Driver) displayPoint(chart ports.Chart) {
	rec, ok := d.registry.Lookup(chart.ID())
	if !ok {
		return
	}
	index := rec.Engine.Current().Index
	refs := make([]domain.ElementRef, 0, len(rec.VisibleSeries))
	for _, series := range rec.VisibleSeries {
		refs = append(refs, domain.ElementRef{DatasetIndex: series, Index: index})
	}
	if err := chart.SetActiveElements(refs); err != nil {
		d.logger.Debug("Failed to highlight point", "chart_id", rec.ChartID, "index", index, "err", err)
	}
}

func (d *Driver) axesInput(chart ports.ChartModel, target domain.TargetKind, scrubbed []string, opts config.Options) axes.Input {
	return axes.Input{
		HostKind: chart.Kind(),
		Target:   target,
		Options:  chart.AxisOptions(),
		Scales:   chart.ComputedScales(),
		Labels:   chart.Labels(),
		Scrubbed: scrubbed,
		Lang:     opts.Lang,
	}
}

func (d *Driver) deriveAxes(chart ports.ChartModel, target domain.TargetKind, res shape.Result, opts config.Options, correctStacked bool) domain.Axes {
	in := d.axesInput(chart, target, res.Scrubbed, opts)
	a := axes.Derive(in)
	if correctStacked {
		a = classify.CorrectStacked(a, in.Options.Y, res.Payload, chart.IsDatasetVisible)
	}
	return axes.Merge(a, opts.Axes)
}

// snapshot captures the host state. A failure yields the zero snapshot,
// which never compares equal and so forces a replace.
func (d *Driver) snapshot(chart ports.ChartModel) domain.Snapshot {
	snap, err := domain.TakeSnapshot(chart.Datasets(), chart.Labels(), chart.IsDatasetVisible)
	if err != nil {
		d.logger.Warn("Failed to snapshot chart", "chart_id", chart.ID(), "err", err)
		return domain.Snapshot{}
	}
	return snap
}

func (d *Driver) persist(ctx context.Context, rec *registry.Record) {
	if d.store == nil || rec.LastSnapshot.IsZero() {
		return
	}
	if err := d.store.Save(ctx, rec.ChartID, rec.LastSnapshot); err != nil {
		d.fail(ctx, rec.ChartID, domain.ErrorKindStore, err)
	}
}

func (d *Driver) visibilityFailed(ctx context.Context, chartID, category string, err error) {
	d.fail(ctx, chartID, domain.ErrorKindVisibility, fmt.Errorf("category %q: %w", category, err))
}

// report surfaces a user-facing failure through the error callback.
func (d *Driver) report(ctx context.Context, chartID string, opts config.Options, kind string, err error) {
	opts.ReportError(err.Error())
	d.fail(ctx, chartID, kind, err)
}

// fail logs a non-fatal failure and emits it to the hooks.
func (d *Driver) fail(ctx context.Context, chartID, kind string, err error) {
	d.logger.Warn("Reconciliation step failed", "chart_id", chartID, "kind", kind, "err", err)
	if d.hooks.OnError != nil {
		d.hooks.OnError(ctx, &domain.ErrorEvent{
			EventBase: d.event(domain.EventError, chartID),
			Kind:      kind,
			Err:       err,
		})
	}
}

func (d *Driver) event(t domain.EventType, chartID string) domain.EventBase {
	return domain.EventBase{Timestamp: d.now(), Type: t, ChartID: chartID}
}

func hasData(datasets []domain.Dataset) bool {
	for _, ds := range datasets {
		if len(ds.Data) > 0 {
			return true
		}
	}
	return false
}

// hostVisible returns the host-visible series among the first n.
func hostVisible(chart ports.ChartModel, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if chart.IsDatasetVisible(i) {
			out = append(out, i)
		}
	}
	return out
}

// seriesCategories maps host series indices to engine categories, skipping
// the aggregate category a stacked engine injects at position 0.
func seriesCategories(cats []string, stacked bool) []string {
	if stacked && len(cats) > 0 && cats[0] == ports.AggregateCategory {
		return cats[1:]
	}
	return cats
}
