package gcsstore

import (
	"testing"

	"github.com/discochess/magics/internal/codec"
	"github.com/discochess/magics/internal/codec/gzipcodec"
	"github.com/discochess/magics/internal/codec/noopcodec"
	"github.com/discochess/magics/internal/codec/zstdcodec"
)

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			WithPrefix(tt.input)(s)
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_objectKey(t *testing.T) {
	tests := []struct {
		prefix string
		codec  codec.Codec
		key    string
		want   string
	}{
		{"", zstdcodec.New(), "magics.json", "magics.json.zst"},
		{"data/v1/", zstdcodec.New(), "manifest.json", "data/v1/manifest.json.zst"},
		{"", gzipcodec.New(), "magics.json", "magics.json.gz"},
		{"runs/", noopcodec.New(), "magics.json", "runs/magics.json"},
	}
	for _, tt := range tests {
		s := &Store{prefix: tt.prefix, codec: tt.codec}
		if got := s.objectKey(tt.key); got != tt.want {
			t.Errorf("objectKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		codec codec.Codec
		want  string
	}{
		{noopcodec.New(), "application/json"},
		{gzipcodec.New(), "application/gzip"},
		{zstdcodec.New(), "application/zstd"},
	}
	for _, tt := range tests {
		if got := contentType(tt.codec); got != tt.want {
			t.Errorf("contentType(%s) = %q, want %q", tt.codec.Name(), got, tt.want)
		}
	}
}
