package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/builder"
	"github.com/discochess/magics/internal/stats"
	statslogger "github.com/discochess/magics/internal/stats/logger"
	"github.com/discochess/magics/internal/stats/prometheus"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search magics for every rook and bishop square",
	Long: `Search a magic multiplier for each of the 64 squares and both sliding
patterns, save the 128 descriptors and emit them as source code.

Each square draws at most --attempts million sparse candidates. With
--extra-bit, squares still unsolved after half the budget may use a
table one bit wider than their mask.

Every square owns a random stream derived from the run seed, so a run
is reproduced exactly by passing the printed seed again, whatever the
worker count.

Examples:
  # Default run, Rust tables to stdout
  magics search

  # Parallel run saved to GCS, Go source to a file
  magics search --workers 8 --store gs://my-bucket/magics --format go --out magics.go

  # Expose Prometheus metrics while searching
  magics search --metrics-addr :9090`,
	RunE: runSearch,
}

var (
	attemptsM    int
	extraBit     bool
	seed         uint64
	workers      int
	failComplete bool
	metricsAddr  string
	searchFormat string
	searchOut    string
	searchPkg    string
)

func init() {
	searchCmd.Flags().IntVar(&attemptsM, "attempts", 100, "attempt budget per square, in millions")
	searchCmd.Flags().BoolVar(&extraBit, "extra-bit", true, "allow one extra table bit after half the budget")
	searchCmd.Flags().Uint64Var(&seed, "seed", 0, "run seed (0 = random)")
	searchCmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of squares searched in parallel")
	searchCmd.Flags().BoolVar(&failComplete, "fail-complete", false, "keep searching after a square fails and report every failure")
	searchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while searching")
	addEmitFlags(searchCmd, &searchFormat, &searchOut, &searchPkg)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if attemptsM <= 0 {
		return fmt.Errorf("--attempts must be positive, got %d", attemptsM)
	}
	if _, err := newEmitter(searchFormat, searchPkg); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	var collector stats.Collector = stats.NewNoop()
	if metricsAddr != "" {
		registry := promclient.NewRegistry()
		collector = stats.Tee{prometheus.New(registry), statslogger.New(logger.Named("stats"))}
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	// Open the store before searching so a bad location fails fast.
	st, err := openStore(ctx, "", collector)
	if err != nil {
		return err
	}
	defer st.Close()

	progress := builder.DefaultProgressFunc
	if workers > 1 {
		progress = builder.NewPrinter(os.Stderr, workers)
	}

	b := builder.NewBuilder(
		builder.WithMaxAttempts(attemptsM*1_000_000),
		builder.WithRelaxation(extraBit),
		builder.WithSeed(seed),
		builder.WithWorkers(workers),
		builder.WithFailFast(!failComplete),
		builder.WithProgress(progress),
		builder.WithStats(collector),
		builder.WithLogger(logger),
	)

	fmt.Fprintf(os.Stderr, "Searching magics\n")
	fmt.Fprintf(os.Stderr, "  Seed:       %#x\n", b.Seed())
	fmt.Fprintf(os.Stderr, "  Attempts:   %s per square\n", humanize.Comma(int64(attemptsM)*1_000_000))
	fmt.Fprintf(os.Stderr, "  Extra bit:  %t\n", extraBit)
	fmt.Fprintf(os.Stderr, "  Workers:    %d\n", workers)
	fmt.Fprintln(os.Stderr)

	r, err := b.Build(ctx)
	if err != nil {
		if r != nil {
			fmt.Fprintf(os.Stderr, "\n%d of %d squares failed, seed %#x\n",
				len(multierr.Errors(err)), len(b.Jobs()), b.Seed())
		}
		return err
	}

	set := r.Set()
	set.Manifest.Compression = compression
	if err := artifact.Save(ctx, st, artifact.DefaultKey, set); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nfound all magics in %s (%d relaxed, %s table entries)\n",
		builder.FormatDuration(r.Manifest.Elapsed()),
		r.Manifest.Relaxed,
		humanize.Comma(int64(r.Manifest.TableEntries)),
	)
	return emitSet(set, searchFormat, searchOut, searchPkg)
}
