package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// runCLI executes the root command with args and returns what the command
// printed to its status writer.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// isolate points the cache at a temp dir and clears the cache URL.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	t.Setenv(cacheURLEnv, "")
	return xdg
}

func TestGenerateWritesFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, err := runCLI(t, "generate", "document-vault-app", "-f", "dot,json", "-o", dir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, name := range []string{"document_vault_app.dot", "document_vault_app.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
		if !strings.Contains(out, "generated:") || !strings.Contains(out, path) {
			t.Errorf("output does not announce %s:\n%s", path, out)
		}
	}
}

func TestGenerateDefaultPNG(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := runCLI(t, "generate", "sdlc-container-apps", "-o", dir); err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sdlc-container-apps.png"))
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestGenerateAll(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := runCLI(t, "generate", "--all", "-f", "dot", "-o", dir); err != nil {
		t.Fatalf("generate --all: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(blueprint.All()) {
		t.Errorf("wrote %d files, want %d", len(entries), len(blueprint.All()))
	}
}

func TestGenerateErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"no blueprint", []string{"generate"}, errors.ErrCodeInvalidInput},
		{"all with names", []string{"generate", "--all", "document-vault-app"}, errors.ErrCodeInvalidInput},
		{"unknown blueprint", []string{"generate", "nope"}, errors.ErrCodeNotFound},
		{"filename with many", []string{"generate", "--all", "--filename", "x"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"generate", "document-vault-app", "-f", "gif", "-o", t.TempDir()}, errors.ErrCodeInvalidFormat},
		{"bad direction", []string{"generate", "document-vault-app", "--direction", "up", "-o", t.TempDir()}, errors.ErrCodeInvalidDirection},
		{"missing output dir", []string{"generate", "document-vault-app", "-f", "dot", "-o", filepath.Join(t.TempDir(), "missing")}, errors.ErrCodeRender},
		{"bad cache url", []string{"generate", "document-vault-app", "--cache-url", "memcached://x"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestGenerateFilenameOverride(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := runCLI(t, "generate", "document-vault-app", "-f", "dot", "-o", dir, "--filename", "vault"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "vault.dot")); err != nil {
		t.Errorf("vault.dot not written: %v", err)
	}
}

const tinyDefinition = `
title = "Tiny vault"

[[nodes]]
id = "user"
category = "client:users"
label = "User"

[[clusters]]
name = "rg"

  [[clusters.nodes]]
  id = "web"
  category = "compute:container-app"
  label = "Web App"

[[edges]]
from = "user"
to = "web"
label = "accesses"
`

func TestRenderDefinitionFile(t *testing.T) {
	isolate(t)
	src := filepath.Join(t.TempDir(), "tiny.toml")
	if err := os.WriteFile(src, []byte(tinyDefinition), 0644); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	out, err := runCLI(t, "render", src, "-f", "dot", "-o", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tiny_vault.dot"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `label="accesses"`) {
		t.Errorf("edge label missing from DOT:\n%s", data)
	}
	if !strings.Contains(out, "2 nodes") {
		t.Errorf("stats missing from output:\n%s", out)
	}
}

func TestRenderDefinitionFailureWritesNothing(t *testing.T) {
	isolate(t)
	src := filepath.Join(t.TempDir(), "bad.toml")
	bad := strings.Replace(tinyDefinition, "compute:container-app", "nonexistent:category", 1)
	if err := os.WriteFile(src, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	_, err := runCLI(t, "render", src, "-f", "dot", "-o", dir)
	if !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Fatalf("render error = %v, want INVALID_CATEGORY", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed render left %d files behind", len(entries))
	}
}

func TestRenderMissingFile(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, "render", filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestList(t *testing.T) {
	out, err := runCLI(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range blueprint.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %q", name)
		}
	}
}

func TestCategories(t *testing.T) {
	out, err := runCLI(t, "categories")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"compute:function-app", "identity:managed-identity", "compute"} {
		if !strings.Contains(out, want) {
			t.Errorf("categories output missing %q", want)
		}
	}
}

func TestCachePathAndClear(t *testing.T) {
	xdg := isolate(t)
	dir := filepath.Join(xdg, appName)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on missing dir: %q", out)
	}

	// Populate through a real run, then clear.
	if _, err := runCLI(t, "generate", "document-vault-app", "-f", "svg", "-o", t.TempDir()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestGenerateWithRedisCache(t *testing.T) {
	isolate(t)
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()

	for i := 0; i < 2; i++ {
		if _, err := runCLI(t, "generate", "document-vault-app", "-f", "svg", "-o", t.TempDir(), "--cache-url", url); err != nil {
			t.Fatalf("generate #%d: %v", i+1, err)
		}
	}

	var artifacts int
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, "archdiagram:artifact:v1:svg:") {
			artifacts++
		}
	}
	if artifacts != 1 {
		t.Errorf("redis holds %d svg artifacts, want 1 (keys %v)", artifacts, mr.Keys())
	}
}

func TestNoCacheWritesNothing(t *testing.T) {
	xdg := isolate(t)

	if _, err := runCLI(t, "generate", "document-vault-app", "-f", "svg", "-o", t.TempDir(), "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(xdg, appName)); !os.IsNotExist(err) {
		t.Errorf("--no-cache created the cache dir (stat err %v)", err)
	}
}

func TestGenerateUnusableCacheDir(t *testing.T) {
	isolate(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CACHE_HOME", filepath.Join(blocker, "cache"))
	dir := t.TempDir()

	if _, err := runCLI(t, "generate", "document-vault-app", "-f", "dot", "-o", dir); err != nil {
		t.Fatalf("generate with unusable cache dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "document_vault_app.dot")); err != nil {
		t.Errorf("document_vault_app.dot not written: %v", err)
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the binary")
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName+" version") {
		t.Errorf("version output = %q", out)
	}
}
