// Package memorymagicsfx provides an fx module for an in-memory magics table.
// Useful for testing.
package memorymagicsfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/magics"
	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/stats/logger"
	"github.com/discochess/magics/internal/store/memstore"
)

// Module provides a table over an in-memory store seeded with the
// supplied *artifact.Set. Requires a *zap.Logger to be provided.
var Module = fx.Module("memorymagics",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newTable,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("magics.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the table.
type Params struct {
	fx.In

	Set       *artifact.Set
	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided table and store.
type Result struct {
	fx.Out

	Table *magics.Table
}

func newTable(p Params) (Result, error) {
	ctx := context.Background()
	if err := artifact.Save(ctx, p.Store, artifact.DefaultKey, p.Set); err != nil {
		return Result{}, err
	}

	table, err := magics.Open(ctx,
		magics.WithStore(p.Store),
		magics.WithStats(p.Collector),
		magics.WithLogger(p.Logger.Named("magics")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return table.Close()
		},
	})

	return Result{Table: table}, nil
}
