package main

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/discochess/magics/benchmark/analysis"
	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/builder"
	"github.com/discochess/magics/internal/codec"
	"github.com/discochess/magics/internal/store/storeurl"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about the saved descriptor set",
	Long: `Display statistics about the saved descriptor set including:
- Run seed, budget and duration
- Table entries and encoded size
- Attempts needed per pattern

With --compare, the attempt distributions of two runs are compared
with a Mann-Whitney U test.`,
	RunE: runStats,
}

var compareWith string

func init() {
	statsCmd.Flags().StringVar(&compareWith, "compare", "", "store location of a second run to compare against")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	set, err := loadSet(ctx, "")
	if err != nil {
		return err
	}

	m := set.Manifest
	fmt.Printf("Run:            %s\n", m.RunID)
	fmt.Printf("Built:          %s (%s)\n", humanize.Time(m.BuiltAt), builder.FormatDuration(m.Elapsed()))
	fmt.Printf("Seed:           %#x\n", m.Seed)
	fmt.Printf("Budget:         %s attempts, extra bit %t\n", humanize.Comma(int64(m.MaxAttempts)), m.Relaxation)
	fmt.Printf("Workers:        %d\n", m.Workers)
	fmt.Printf("Table entries:  %s (%s)\n", humanize.Comma(int64(set.TableEntries())), humanize.Bytes(uint64(set.TableEntries())*8))
	if err := printSizes(set); err != nil {
		return err
	}

	for _, s := range analysis.Summarize(set) {
		fmt.Println()
		fmt.Printf("%s\n", s.Pattern.Title())
		fmt.Printf("  Entries:  %s\n", humanize.Comma(int64(s.TableEntries)))
		fmt.Printf("  Relaxed:  %d\n", s.Relaxed)
		fmt.Printf("  Attempts: median %s, p90 %s, max %s\n",
			humanize.Comma(int64(s.Attempts.Median)),
			humanize.Comma(int64(s.Attempts.P90)),
			humanize.Comma(int64(s.Attempts.Max)),
		)
	}

	if compareWith == "" {
		return nil
	}
	other, err := loadSet(ctx, compareWith)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Comparing %s with %s\n", m.RunID, other.Manifest.RunID)
	for _, c := range analysis.CompareRuns(set, other) {
		fmt.Println()
		fmt.Println(c.Summary())
	}
	return nil
}

// printSizes prints the encoded size of set under every codec.
func printSizes(set *artifact.Set) error {
	var raw bytes.Buffer
	if err := artifact.Encode(&raw, set); err != nil {
		return err
	}
	for _, name := range storeurl.Codecs {
		c, err := storeurl.Codec(name)
		if err != nil {
			return err
		}
		packed, err := codec.Compress(c, raw.Bytes())
		if err != nil {
			return err
		}
		fmt.Printf("Encoded %-7s %s\n", name+":", humanize.Bytes(uint64(len(packed))))
	}
	return nil
}
