package magics

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/store"
	"github.com/discochess/magics/internal/store/diskstore"
	"github.com/discochess/magics/internal/store/storeurl"
)

// Option configures a Table.
type Option interface {
	apply(*options)
}

// options holds the table configuration.
type options struct {
	store  store.Store
	key    string
	stats  stats.Collector
	logger *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		key:    artifact.DefaultKey,
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the storage backend to load from.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithKey sets the key the descriptor set is stored under.
// Default is "magics.json".
func WithKey(key string) Option {
	return optionFunc(func(o *options) {
		o.key = key
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithDataDir configures the table from a local directory written by
// the search command. The compression is detected from the file name.
func WithDataDir(dir string) (Option, error) {
	for _, name := range storeurl.Codecs {
		c, err := storeurl.Codec(name)
		if err != nil {
			return nil, err
		}
		file := artifact.DefaultKey
		if ext := c.Extension(); ext != "" {
			file += "." + ext
		}
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			continue
		}

		st, err := diskstore.New(dir, c)
		if err != nil {
			return nil, fmt.Errorf("creating store: %w", err)
		}
		return WithStore(st), nil
	}
	return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
}
