package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Web App", false},
		{"empty", "", false},
		{"path like", "src/DocumentVault.Web", false},
		{"ampersand", "Front Door & CDN", false},
		{"newline", "Web\nApp", false},
		{"tab", "Web\tApp", false},

		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"carriage return", "foo\rbar", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"dashed", "sdlc-container-apps", false},
		{"underscored", "document_vault_app", false},
		{"with colon", "sdlc:_app", false},

		{"empty", "", true},
		{"slash", "out/diagram", true},
		{"backslash", "out\\diagram", true},
		{"parent dir", "../diagram", true},
		{"hidden", ".diagram", true},
		{"newline", "a\nb", true},
		{"too long", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateFilename(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateBlueprintName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "sdlc-container-apps", false},
		{"digits", "app2", false},

		{"empty", "", true},
		{"uppercase", "SDLC", true},
		{"leading dash", "-app", true},
		{"space", "my app", true},
		{"underscore", "my_app", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlueprintName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlueprintName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
