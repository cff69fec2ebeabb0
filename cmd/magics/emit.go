package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/emit"
	"github.com/discochess/magics/internal/emit/goemit"
	"github.com/discochess/magics/internal/emit/jsonemit"
	"github.com/discochess/magics/internal/emit/rustemit"
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Emit the saved descriptor set as source code",
	Long: `Write the saved magics, shifts, masks and attack tables as Rust,
Go or JSON without searching again.

Examples:
  # Rust statics to stdout
  magics emit --format rust

  # Go source into a package
  magics emit --format go --package attacks --out attacks/magics.go`,
	RunE: runEmit,
}

var (
	emitFormat  string
	emitOut     string
	emitPackage string
)

func init() {
	addEmitFlags(emitCmd, &emitFormat, &emitOut, &emitPackage)
	rootCmd.AddCommand(emitCmd)
}

func addEmitFlags(cmd *cobra.Command, format, out, pkg *string) {
	cmd.Flags().StringVarP(format, "format", "f", "rust", "output format: rust, go, json")
	cmd.Flags().StringVarP(out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(pkg, "package", goemit.DefaultPackage, "package name for Go output")
}

func runEmit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	set, err := loadSet(ctx, "")
	if err != nil {
		return err
	}
	return emitSet(set, emitFormat, emitOut, emitPackage)
}

func newEmitter(format, pkg string) (emit.Emitter, error) {
	switch format {
	case "rust":
		return rustemit.New(), nil
	case "go":
		return goemit.New(goemit.WithPackage(pkg)), nil
	case "json":
		return jsonemit.New(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// emitSet writes set to out, or stdout when out is empty.
func emitSet(set *artifact.Set, format, out, pkg string) (err error) {
	e, err := newEmitter(format, pkg)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, cerr := os.Create(out)
		if cerr != nil {
			return fmt.Errorf("creating %s: %w", out, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing %s: %w", out, cerr)
			}
		}()
		w = f
	}

	if err := e.Emit(w, set); err != nil {
		return fmt.Errorf("emitting %s: %w", e.Name(), err)
	}
	if out != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s tables to %s\n", e.Name(), out)
	}
	return nil
}
