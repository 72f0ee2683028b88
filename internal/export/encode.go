// Package export writes table metadata documents to object storage.
package export

import (
	"encoding/json"
	"io"

	"github.com/koustreak/colmeta/internal/errs"
	"go.yaml.in/yaml/v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidInput, "unsupported format %q", name)
	}
}

// Ext is the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType is the MIME type stored with uploaded documents.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes v to w. JSON is indented by two spaces.
func Encode(w io.Writer, f Format, v interface{}) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported format %q", f)
	}
}
