// Package jsonemit writes descriptor sets in the artifact JSON layout.
package jsonemit

import (
	"io"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/emit"
)

// Compile-time check that Emitter implements emit.Emitter.
var _ emit.Emitter = (*Emitter)(nil)

// Emitter writes JSON that artifact.Decode reads back.
type Emitter struct{}

// New returns a JSON emitter.
func New() *Emitter {
	return &Emitter{}
}

// Name returns "json".
func (e *Emitter) Name() string {
	return "json"
}

// Emit writes s to w.
func (e *Emitter) Emit(w io.Writer, s *artifact.Set) error {
	return artifact.Encode(w, s)
}
