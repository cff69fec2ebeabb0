// Package storeurl opens a Store from a location string such as
// "./out", "gs://bucket/prefix", "s3://bucket/prefix", "badger:///var/magics"
// or "mem://".
package storeurl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/discochess/magics/internal/codec"
	"github.com/discochess/magics/internal/codec/gzipcodec"
	"github.com/discochess/magics/internal/codec/noopcodec"
	"github.com/discochess/magics/internal/codec/zstdcodec"
	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/store"
	"github.com/discochess/magics/internal/store/badgerstore"
	"github.com/discochess/magics/internal/store/cachedstore"
	"github.com/discochess/magics/internal/store/diskstore"
	"github.com/discochess/magics/internal/store/gcsstore"
	"github.com/discochess/magics/internal/store/memstore"
	"github.com/discochess/magics/internal/store/s3store"
)

// ErrUnsupported is returned for unknown schemes and codec names.
var ErrUnsupported = errors.New("storeurl: unsupported")

// Codecs lists the accepted codec names.
var Codecs = []string{"zstd", "gzip", "none"}

// Codec returns the codec registered under name.
func Codec(name string) (codec.Codec, error) {
	switch name {
	case "zstd", "":
		return zstdcodec.New(), nil
	case "gzip":
		return gzipcodec.New(), nil
	case "none":
		return noopcodec.New(), nil
	default:
		return nil, fmt.Errorf("%w codec %q (want one of %s)", ErrUnsupported, name, strings.Join(Codecs, ", "))
	}
}

// Option configures Open.
type Option func(*options)

type options struct {
	region    string
	endpoint  string
	collector stats.Collector
	cache     int
}

// WithRegion sets the AWS region for s3:// locations.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint sets a custom S3-compatible endpoint for s3:// locations.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithStats sets the collector used by the remote read cache.
func WithStats(c stats.Collector) Option {
	return func(o *options) { o.collector = c }
}

// WithCacheCapacity sets how many keys the remote read cache keeps.
func WithCacheCapacity(n int) Option {
	return func(o *options) { o.cache = n }
}

// Open returns the store for location. Remote locations are wrapped in
// a read-through cache.
func Open(ctx context.Context, location string, c codec.Codec, opts ...Option) (store.Store, error) {
	o := options{collector: stats.NewNoop(), cache: cachedstore.DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		scheme, rest = "file", location
	}

	switch scheme {
	case "file":
		s, err := diskstore.New(rest, c)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mem":
		return memstore.New(), nil
	case "badger":
		s, err := badgerstore.New(rest, c)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gs", "s3":
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", location, err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("%q has no bucket", location)
		}
		prefix := strings.TrimPrefix(u.Path, "/")

		var remote store.Store
		if scheme == "gs" {
			remote, err = gcsstore.New(ctx, u.Host, c, gcsstore.WithPrefix(prefix))
		} else {
			remote, err = s3store.New(ctx, u.Host, c,
				s3store.WithPrefix(prefix),
				s3store.WithRegion(o.region),
				s3store.WithEndpoint(o.endpoint),
			)
		}
		if err != nil {
			return nil, err
		}
		cached, err := cachedstore.New(remote,
			cachedstore.WithCapacity(o.cache),
			cachedstore.WithStats(o.collector),
		)
		if err != nil {
			remote.Close()
			return nil, err
		}
		return cached, nil
	default:
		return nil, fmt.Errorf("%w scheme %q", ErrUnsupported, scheme)
	}
}
