// Package emit defines writers that render a descriptor set as source
// code or data for other programs.
package emit

import (
	"io"

	"github.com/discochess/magics/internal/artifact"
)

// Emitter renders a complete descriptor set.
type Emitter interface {
	// Name identifies the format on the command line.
	Name() string
	// Emit writes s to w.
	Emit(w io.Writer, s *artifact.Set) error
}
