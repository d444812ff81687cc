// Package codec converts graph snapshots to and from their file formats.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"conceptgraph/internal/domain"
)

// Importer interface for importing graph data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.GraphFragment, error)
	Format() string
}

// Exporter interface for exporting graph data to various formats
type Exporter interface {
	Export(fragment *domain.GraphFragment, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered for a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ForPath picks a codec from a file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot infer format of %s: no extension", path)
	}
	return ForFormat(ext)
}

// ForContentType picks a codec from an HTTP Content-Type header, defaulting to JSON
func ForContentType(contentType string) Codec {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") {
		return NewYAMLCodec()
	}
	return NewJSONCodec()
}
