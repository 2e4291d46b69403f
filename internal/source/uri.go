package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidURI is returned for URIs that cannot be split into scheme and name.
var ErrInvalidURI = errors.New("source: invalid uri")

// Format is the serialization of an input.
type Format string

// Supported formats.
const (
	FormatNPY  Format = "npy"
	FormatJSON Format = "json"
)

// Compression is the stream compression applied to an input.
type Compression string

// Supported compressions.
const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Location is a parsed input URI.
type Location struct {
	Scheme      string
	Name        string
	Format      Format
	Compression Compression
}

// Parse splits uri into a Location. URIs without a scheme are local paths.
func Parse(uri string) (Location, error) {
	scheme, name, ok := strings.Cut(uri, "://")
	if !ok {
		scheme, name = "file", uri
	}
	scheme = strings.ToLower(scheme)
	if scheme == "" || name == "" {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}

	loc := Location{Scheme: scheme, Name: name, Format: FormatNPY}
	base := strings.ToLower(name)
	switch {
	case strings.HasSuffix(base, ".zst"):
		loc.Compression = CompressionZstd
		base = strings.TrimSuffix(base, ".zst")
	case strings.HasSuffix(base, ".lz4"):
		loc.Compression = CompressionLZ4
		base = strings.TrimSuffix(base, ".lz4")
	}
	if strings.HasSuffix(base, ".json") {
		loc.Format = FormatJSON
	}
	return loc, nil
}

func (l Location) String() string {
	return l.Scheme + "://" + l.Name
}
