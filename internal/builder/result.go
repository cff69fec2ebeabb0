package builder

import (
	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/search"
)

// Result holds the descriptors of a run in job order. A slot is nil
// when its square failed in fail-complete mode.
type Result struct {
	Descriptors []*search.Descriptor
	Manifest    artifact.Manifest
}

// Get returns the descriptor for p on sq, or nil.
func (r *Result) Get(p geometry.Pattern, sq geometry.Square) *search.Descriptor {
	for _, d := range r.Descriptors {
		if d != nil && d.Pattern == p && d.Square == sq {
			return d
		}
	}
	return nil
}

// Complete reports whether every square of both patterns has a descriptor.
func (r *Result) Complete() bool {
	return r.Manifest.Squares == len(geometry.Patterns)*geometry.NumSquares
}

// Set converts the result into a persistable descriptor set.
func (r *Result) Set() *artifact.Set {
	found := make([]*search.Descriptor, 0, len(r.Descriptors))
	for _, d := range r.Descriptors {
		if d != nil {
			found = append(found, d)
		}
	}
	return artifact.FromDescriptors(r.Manifest, found)
}
