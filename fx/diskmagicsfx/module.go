// Package diskmagicsfx provides an fx module for a disk-backed magics table.
package diskmagicsfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/magics"
	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/stats/logger"
)

// Config holds configuration for the disk-backed table.
type Config struct {
	// DataDir is the directory the search command saved to.
	DataDir string

	// Key overrides the stored set name. Default is "magics.json".
	Key string
}

// Module provides a *magics.Table loaded from disk.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("diskmagics",
	fx.Provide(
		newStatsCollector,
		newTable,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("magics.stats"))
}

// Params holds dependencies for loading the table.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided table.
type Result struct {
	fx.Out

	Table *magics.Table
}

func newTable(p Params) (Result, error) {
	dataDir, err := magics.WithDataDir(p.Config.DataDir)
	if err != nil {
		return Result{}, err
	}

	opts := []magics.Option{
		dataDir,
		magics.WithStats(p.Collector),
		magics.WithLogger(p.Logger.Named("magics")),
	}
	if p.Config.Key != "" {
		opts = append(opts, magics.WithKey(p.Config.Key))
	}

	table, err := magics.Open(context.Background(), opts...)
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
