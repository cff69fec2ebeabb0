package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/fen"
	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/store"
	"github.com/discochess/magics/internal/store/cachedstore"
	"github.com/discochess/magics/internal/store/storeurl"
)

var (
	// Global flags.
	dataDir     string
	storeURL    string
	compression string
	s3Region    string
	s3Endpoint  string
	cacheSize   int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "magics",
	Short: "Find magic bitboard tables for rook and bishop attacks",
	Long: `Magics searches for multiplicative perfect hashes that map every
blocker occupancy of a rook or bishop square to its attack set.

The 128 resulting descriptors are saved to a store and can be emitted
as Go, Rust or JSON source, verified, inspected and rendered.

Examples:
  # Find all magics and print Rust tables
  magics search --format rust

  # Reproduce a previous run with four workers
  magics search --seed 0x1f2e3d --workers 4

  # Attacks of a rook on d4 in the starting position
  magics lookup --pattern rook --square d4 --fen "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"

  # Show statistics of the saved run
  magics stats`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "./data", "directory holding the saved descriptor set")
	rootCmd.PersistentFlags().StringVar(&storeURL, "store", "", "store location overriding --data-dir (dir, gs://, s3://, badger://, mem://)")
	rootCmd.PersistentFlags().StringVar(&compression, "compression", "zstd", "store compression: "+strings.Join(storeurl.Codecs, ", "))
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "", "AWS region for s3:// stores")
	rootCmd.PersistentFlags().StringVar(&s3Endpoint, "s3-endpoint", "", "custom endpoint for s3:// stores (MinIO, LocalStack)")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", cachedstore.DefaultCapacity, "objects cached in memory for remote stores")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newLogger returns a development logger when verbose and a warn-level
// production logger otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openStore opens location, falling back to --store and then --data-dir.
func openStore(ctx context.Context, location string, collector stats.Collector) (store.Store, error) {
	if location == "" {
		location = storeURL
	}
	if location == "" {
		location = dataDir
	}
	c, err := storeurl.Codec(compression)
	if err != nil {
		return nil, err
	}
	st, err := storeurl.Open(ctx, location, c,
		storeurl.WithRegion(s3Region),
		storeurl.WithEndpoint(s3Endpoint),
		storeurl.WithCacheCapacity(cacheSize),
		storeurl.WithStats(collector),
	)
	if err != nil {
		return nil, fmt.Errorf("opening store %q: %w", location, err)
	}
	return st, nil
}

// loadSet reads the saved descriptor set from location.
func loadSet(ctx context.Context, location string) (*artifact.Set, error) {
	st, err := openStore(ctx, location, stats.NewNoop())
	if err != nil {
		return nil, err
	}
	defer st.Close()

	set, err := artifact.Load(ctx, st, artifact.DefaultKey)
	if err != nil {
		return nil, fmt.Errorf("%w; run 'magics search' first", err)
	}
	return set, nil
}

// boardFlags selects a pattern, a square and an occupancy.
type boardFlags struct {
	pattern string
	square  string
	occ     string
	fen     string
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "rook", "sliding pattern: rook, bishop")
	cmd.Flags().StringVarP(&f.square, "square", "s", "d4", "origin square")
	cmd.Flags().StringVar(&f.occ, "occ", "", "occupancy as a hex bitboard, bit 0 = a1")
	cmd.Flags().StringVar(&f.fen, "fen", "", "occupancy from a FEN position")
	cmd.MarkFlagsMutuallyExclusive("occ", "fen")
}

func (f *boardFlags) parse() (geometry.Pattern, geometry.Square, geometry.Bitboard, error) {
	p, err := geometry.ParsePattern(f.pattern)
	if err != nil {
		return 0, 0, 0, err
	}
	sq, err := geometry.ParseSquare(f.square)
	if err != nil {
		return 0, 0, 0, err
	}

	var occ geometry.Bitboard
	switch {
	case f.fen != "":
		occ, err = fen.Occupancy(f.fen)
		if err != nil {
			return 0, 0, 0, err
		}
	case f.occ != "":
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f.occ), "0x"), 16, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parsing occupancy %q: %w", f.occ, err)
		}
		occ = geometry.Bitboard(v)
	}
	return p, sq, occ, nil
}
