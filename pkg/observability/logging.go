package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/sonisync/pkg/domain"
)

// LogHooks returns lifecycle hooks that emit one structured record per event.
// Unchanged reconciliations are logged at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(ctx context.Context, e *domain.ChartEvent) {
			logger.InfoContext(ctx, "chart_activate", "chart_id", e.ChartID, "target", e.Target)
		},
		OnReconcile: func(ctx context.Context, e *domain.ReconcileEvent) {
			level := slog.LevelInfo
			if e.Applied == domain.VerdictUnchanged {
				level = slog.LevelDebug
			}
			logger.Log(ctx, level, "chart_reconcile", "chart_id", e.ChartID, "verdict", e.Verdict, "applied", e.Applied)
		},
		OnVisibility: func(ctx context.Context, e *domain.VisibilityEvent) {
			logger.InfoContext(ctx, "chart_visibility", "chart_id", e.ChartID, "category", e.Category, "index", e.Index, "visible", e.Visible)
		},
		OnDestroy: func(ctx context.Context, e *domain.ChartEvent) {
			logger.InfoContext(ctx, "chart_destroy", "chart_id", e.ChartID)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.WarnContext(ctx, "chart_error", "chart_id", e.ChartID, "kind", e.Kind, "err", e.Err)
		},
	}
}
