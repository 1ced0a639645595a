package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/render"
)

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantFmts []string
		wantDir  string
		wantCode errors.Code
	}{
		{name: "Defaults", opts: Options{}, wantFmts: []string{"png"}, wantDir: "."},
		{name: "Formats", opts: Options{Formats: []string{"svg,png"}, OutputDir: "out"}, wantFmts: []string{"svg", "png"}, wantDir: "out"},
		{name: "BadFormat", opts: Options{Formats: []string{"pdf"}}, wantCode: errors.ErrCodeInvalidFormat},
		{name: "BadDirection", opts: Options{Direction: "up"}, wantCode: errors.ErrCodeInvalidDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			if !slices.Equal(opts.Formats, tt.wantFmts) || opts.OutputDir != tt.wantDir {
				t.Errorf("got %v %q, want %v %q", opts.Formats, opts.OutputDir, tt.wantFmts, tt.wantDir)
			}
			if opts.Logger == nil {
				t.Error("Logger should default to a discarding logger")
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("second call: %v", err)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	builds, renders int
	nodes, edges    int
	buildErr        error
}

func (h *recordingHooks) OnBuildComplete(_ context.Context, _ string, nodes, edges int, _ time.Duration, err error) {
	h.builds++
	h.nodes, h.edges, h.buildErr = nodes, edges, err
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}

func TestGenerate(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	bp, err := blueprint.Get("document-vault-app")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	res, err := NewRunner(nil, nil).Generate(context.Background(), bp, Options{
		Formats:   []string{"dot", "json"},
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{
		filepath.Join(dir, "document_vault_app.dot"),
		filepath.Join(dir, "document_vault_app.json"),
	}
	if !slices.Equal(res.Files, want) {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}
	for _, f := range want {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}
	if res.Title != "Document vault app" || res.Stats.Nodes != 6 || res.Stats.Edges != 7 {
		t.Errorf("Result = %+v", res)
	}
	if hooks.builds != 1 || hooks.renders != 1 || hooks.nodes != 6 || hooks.edges != 7 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestGenerateOverrides(t *testing.T) {
	bp, _ := blueprint.Get("sdlc-container-apps")
	dir := t.TempDir()
	res, err := NewRunner(nil, nil).Generate(context.Background(), bp, Options{
		Formats:   []string{"dot"},
		OutputDir: dir,
		Filename:  "custom",
		Direction: "tb",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Files[0] != filepath.Join(dir, "custom.dot") {
		t.Errorf("file = %s", res.Files[0])
	}
	data, _ := os.ReadFile(res.Files[0])
	if !strings.Contains(string(data), "rankdir=TB") {
		t.Error("direction override should reach the DOT output")
	}
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	bp := blueprint.Blueprint{
		Name:  "broken",
		Title: "Broken",
		Build: func(b *diagram.Builder) error {
			u, _ := b.AddNode(b.Root(), catalog.Users, "U")
			_, err := b.AddNode(b.Root(), "nonexistent:category", "X")
			_ = b.Connect(u, u, "self")
			return err
		},
	}
	dir := t.TempDir()
	_, err := NewRunner(nil, nil).Generate(context.Background(), bp, Options{Formats: []string{"dot"}, OutputDir: dir})
	if !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Fatalf("err = %v, want INVALID_CATEGORY", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("output dir has %d entries, want 0", len(entries))
	}
	if hooks.renders != 0 || hooks.builds != 1 || hooks.buildErr == nil {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestPreview(t *testing.T) {
	bp, _ := blueprint.Get("app-service-with-env")
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(c, nil).Preview(context.Background(), bp, render.FormatJSON, Options{})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(res.Files) != 0 {
		t.Error("Preview must not write files")
	}
	if len(res.Artifacts) != 1 || res.Artifacts[0].Format != render.FormatJSON {
		t.Fatalf("Artifacts = %+v", res.Artifacts)
	}
}
