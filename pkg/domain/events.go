package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventActivate   EventType = "activate"
	EventReconcile  EventType = "reconcile"
	EventVisibility EventType = "visibility"
	EventDestroy    EventType = "destroy"
	EventError      EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ChartID   string    `json:"chart_id"`
}

// ChartEvent reports a lifecycle transition of one chart.
type ChartEvent struct {
	EventBase
	Target TargetKind `json:"target,omitempty"`
}

// ReconcileEvent reports the outcome of one data-updated hook.
type ReconcileEvent struct {
	EventBase
	Verdict VerdictKind `json:"verdict"`
	// Applied is the strategy actually used; a disabled or failed append
	// is applied as a replace.
	Applied VerdictKind `json:"applied"`
}

// VisibilityEvent reports a hide/show applied to the engine.
type VisibilityEvent struct {
	EventBase
	Category string `json:"category"`
	Index    int    `json:"index"`
	Visible  bool   `json:"visible"`
}

// ErrorEvent reports a non-fatal failure.
type ErrorEvent struct {
	EventBase
	Kind string `json:"kind"`
	Err  error  `json:"-"`
}

// Error kinds reported through ErrorEvent.
const (
	ErrorKindUnsupported  = "unsupported_series_kind"
	ErrorKindConstruction = "engine_construction"
	ErrorKindVisibility   = "visibility_assignment"
	ErrorKindAppend       = "append"
	ErrorKindStore        = "snapshot_store"
)

// LifecycleHooks defines callbacks for driver observability.
type LifecycleHooks struct {
	OnActivate   func(context.Context, *ChartEvent)
	OnReconcile  func(context.Context, *ReconcileEvent)
	OnVisibility func(context.Context, *VisibilityEvent)
	OnDestroy    func(context.Context, *ChartEvent)
	OnError      func(context.Context, *ErrorEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnActivate:   chain(h.OnActivate, other.OnActivate),
		OnReconcile:  chain(h.OnReconcile, other.OnReconcile),
		OnVisibility: chain(h.OnVisibility, other.OnVisibility),
		OnDestroy:    chain(h.OnDestroy, other.OnDestroy),
		OnError:      chain(h.OnError, other.OnError),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
