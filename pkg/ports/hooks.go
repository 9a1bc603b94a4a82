package ports

import (
	"context"

	"github.com/aretw0/sonisync/pkg/config"
	"github.com/aretw0/sonisync/pkg/domain"
)

// ChartHooks is the lifecycle surface a host chart library calls into.
// Hooks for one chart must not run concurrently.
type ChartHooks interface {
	AfterInit(ctx context.Context, chart Chart, opts config.Options)
	AfterUpdate(ctx context.Context, chart Chart, opts config.Options)
	AfterDatasetUpdate(ctx context.Context, chart Chart, args domain.DatasetUpdateArgs, opts config.Options)
	AfterDestroy(ctx context.Context, chart ChartModel)
}
