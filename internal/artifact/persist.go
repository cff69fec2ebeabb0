package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/discochess/magics/internal/store"
)

// ManifestKey is the store key the manifest is written to alongside the
// set, so tools can inspect a run without decoding every table.
const ManifestKey = "manifest.json"

// Save encodes s and writes it to st under key, followed by its manifest.
func Save(ctx context.Context, st store.Store, key string, s *Set) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return err
	}
	if err := st.Put(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	manifest, err := json.MarshalIndent(s.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := st.Put(ctx, ManifestKey, manifest); err != nil {
		return fmt.Errorf("saving %s: %w", ManifestKey, err)
	}
	return nil
}

// Load reads, decodes and validates the set stored under key.
func Load(ctx context.Context, st store.Store, key string) (*Set, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return Decode(bytes.NewReader(data))
}

// LoadManifest reads only the manifest of the last saved set.
func LoadManifest(ctx context.Context, st store.Store) (*Manifest, error) {
	data, err := st.Get(ctx, ManifestKey)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ManifestKey, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	return &m, nil
}
