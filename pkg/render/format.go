package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Format is an output format and the file extension it is written with.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatJPG  Format = "jpg"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// DefaultFormat is the format written when none is requested.
const DefaultFormat = FormatPNG

// ValidFormats lists every supported format.
var ValidFormats = []Format{FormatPNG, FormatSVG, FormatJPG, FormatDOT, FormatJSON}

// IsImage reports whether f is produced by Graphviz.
func (f Format) IsImage() bool {
	return f == FormatPNG || f == FormatSVG || f == FormatJPG
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJPG:
		return "image/jpeg"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// ParseFormat parses a format name. "jpeg" is accepted as an alias for jpg.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "jpeg" {
		f = FormatJPG
	}
	if !slices.Contains(ValidFormats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, jpg, dot, json)", s)
	}
	return f, nil
}

// ParseFormats parses a list of format names, accepting comma-separated
// entries and dropping duplicates. An empty list yields DefaultFormat.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := ParseFormat(part)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		out = []Format{DefaultFormat}
	}
	return out, nil
}
