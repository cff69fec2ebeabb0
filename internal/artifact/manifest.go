package artifact

import "time"

// FormatVersion is bumped whenever the encoded layout changes.
const FormatVersion = 1

// Manifest describes how a descriptor set was produced.
type Manifest struct {
	Version      int       `json:"version"`
	RunID        string    `json:"run_id"`
	Seed         uint64    `json:"seed"`
	MaxAttempts  int       `json:"max_attempts"`
	Relaxation   bool      `json:"relaxation"`
	Workers      int       `json:"workers"`
	BuiltAt      time.Time `json:"built_at"`
	ElapsedMS    int64     `json:"elapsed_ms"`
	Squares      int       `json:"squares"`
	Relaxed      int       `json:"relaxed"`
	TableEntries int       `json:"table_entries"`
	Compression  string    `json:"compression,omitempty"`
}

// Elapsed returns the recorded build duration.
func (m *Manifest) Elapsed() time.Duration {
	return time.Duration(m.ElapsedMS) * time.Millisecond
}
