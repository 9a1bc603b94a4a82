package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnActivate(ctx, &domain.ChartEvent{})
	hooks.OnActivate(ctx, &domain.ChartEvent{})
	hooks.OnDestroy(ctx, &domain.ChartEvent{})
	hooks.OnReconcile(ctx, &domain.ReconcileEvent{Verdict: domain.VerdictPureAppend, Applied: domain.VerdictReplace})
	hooks.OnReconcile(ctx, &domain.ReconcileEvent{Verdict: domain.VerdictPureAppend, Applied: domain.VerdictReplace})
	hooks.OnVisibility(ctx, &domain.VisibilityEvent{Visible: false})
	hooks.OnError(ctx, &domain.ErrorEvent{Kind: domain.ErrorKindVisibility})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveCharts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("pure_append", "replace")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Visibility.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues(domain.ErrorKindVisibility)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnReconcile(ctx, &domain.ReconcileEvent{EventBase: domain.EventBase{ChartID: "c1"}, Verdict: domain.VerdictUnchanged, Applied: domain.VerdictUnchanged})
	assert.Empty(t, buf.String(), "unchanged is debug only")

	hooks.OnReconcile(ctx, &domain.ReconcileEvent{EventBase: domain.EventBase{ChartID: "c1"}, Verdict: domain.VerdictReplace, Applied: domain.VerdictReplace})
	hooks.OnError(ctx, &domain.ErrorEvent{EventBase: domain.EventBase{ChartID: "c1"}, Kind: domain.ErrorKindAppend, Err: errors.New("rejected")})

	out := buf.String()
	assert.Contains(t, out, "msg=chart_reconcile chart_id=c1 verdict=replace applied=replace")
	assert.Contains(t, out, "kind=append err=rejected")
}
