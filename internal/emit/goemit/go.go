// Package goemit writes descriptor sets as a self-contained Go source
// file with lookup functions.
package goemit

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/emit"
	"github.com/discochess/magics/internal/geometry"
)

// Compile-time check that Emitter implements emit.Emitter.
var _ emit.Emitter = (*Emitter)(nil)

// DefaultPackage is the package clause used when none is configured.
const DefaultPackage = "magics"

var source = template.Must(template.New("go").Funcs(template.FuncMap{
	"hex": func(v uint64) string { return fmt.Sprintf("0x%016x", v) },
}).Parse(`// Code generated by magics; DO NOT EDIT.
// Seed {{.Manifest.Seed}}, run {{.Manifest.RunID}}.

package {{.Package}}
{{range $p := .Patterns}}
// {{.Title}}Magics holds the multiplier for each square.
var {{.Title}}Magics = [64]uint64{
{{- range .Entries}}
	{{hex .Magic}}, // {{.Name}}
{{- end}}
}

// {{.Title}}Shifts holds the right shift applied to the product.
var {{.Title}}Shifts = [64]uint8{
{{- range .Entries}}
	{{.Shift}},
{{- end}}
}

// {{.Title}}Bits holds the table index width.
var {{.Title}}Bits = [64]uint8{
{{- range .Entries}}
	{{.Bits}},
{{- end}}
}

// {{.Title}}Masks holds the relevant-occupancy mask.
var {{.Title}}Masks = [64]uint64{
{{- range .Entries}}
	{{hex .Mask}},
{{- end}}
}

// {{.Title}}Tables holds the attack table for each square.
var {{.Title}}Tables = [64][]uint64{
{{- range .Entries}}
	{{$p.Table .Name}}[:],
{{- end}}
}

// {{.Title}}Attacks returns the attack set from square sq (0 = a1)
// given the board occupancy.
func {{.Title}}Attacks(sq int, occ uint64) uint64 {
	i := ((occ & {{.Title}}Masks[sq]) * {{.Title}}Magics[sq]) >> {{.Title}}Shifts[sq]
	return {{.Title}}Tables[sq][i&(1<<{{.Title}}Bits[sq]-1)]
}
{{end}}
{{- range $p := .Patterns}}{{range .Entries}}
var {{$p.Table .Name}} = [{{len .Attacks}}]uint64{
{{- range .Attacks}}
	{{hex .}},
{{- end}}
}
{{end}}{{end}}`))

type patternData struct {
	Title   string
	Entries []artifact.Entry
}

// Table returns the unexported name of a square's attack table, e.g. rookA1.
func (p patternData) Table(square string) string {
	return strings.ToLower(p.Title) + strings.ToUpper(square)
}

type fileData struct {
	Package  string
	Manifest artifact.Manifest
	Patterns []patternData
}

// Emitter writes Go source.
type Emitter struct {
	pkg string
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithPackage sets the package clause of the generated file.
func WithPackage(name string) Option {
	return func(e *Emitter) { e.pkg = name }
}

// New returns a Go emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{pkg: DefaultPackage}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns "go".
func (e *Emitter) Name() string {
	return "go"
}

// Emit writes s to w.
func (e *Emitter) Emit(w io.Writer, s *artifact.Set) error {
	data := fileData{Package: e.pkg, Manifest: s.Manifest}
	for _, p := range geometry.Patterns {
		data.Patterns = append(data.Patterns, patternData{Title: p.Title(), Entries: s.Entries(p)})
	}

	bw := bufio.NewWriter(w)
	if err := source.Execute(bw, data); err != nil {
		return fmt.Errorf("rendering Go source: %w", err)
	}
	return bw.Flush()
}
