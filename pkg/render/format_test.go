package render

import (
	"slices"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []Format
		wantErr bool
	}{
		{"Empty", nil, []Format{FormatPNG}, false},
		{"Single", []string{"svg"}, []Format{FormatSVG}, false},
		{"CommaSeparated", []string{"png,svg", "json"}, []Format{FormatPNG, FormatSVG, FormatJSON}, false},
		{"Dedup", []string{"png", "PNG", "png"}, []Format{FormatPNG}, false},
		{"JpegAlias", []string{"jpeg"}, []Format{FormatJPG}, false},
		{"Invalid", []string{"pdf"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("err = %v, want INVALID_FORMAT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormats: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatProperties(t *testing.T) {
	if !FormatPNG.IsImage() || FormatDOT.IsImage() || FormatJSON.IsImage() {
		t.Error("IsImage is wrong")
	}
	if FormatSVG.ContentType() != "image/svg+xml" || FormatJPG.ContentType() != "image/jpeg" {
		t.Error("ContentType is wrong")
	}
}
