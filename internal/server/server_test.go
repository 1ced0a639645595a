package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	return New(pipeline.NewRunner(nil, nil), opts...)
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestListDiagrams(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/diagrams", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var list []diagramInfo
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != len(blueprint.All()) {
		t.Fatalf("got %d diagrams, want %d", len(list), len(blueprint.All()))
	}

	found := false
	for _, d := range list {
		if d.Name == "document-vault-app" {
			found = true
			if d.Title != "Document vault app" {
				t.Errorf("title = %q", d.Title)
			}
			if d.URL != "/diagrams/document-vault-app" {
				t.Errorf("url = %q", d.URL)
			}
		}
	}
	if !found {
		t.Error("document-vault-app not listed")
	}
}

func TestCategories(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/categories", "", "")

	var list []categoryInfo
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != catalog.Default().Len() {
		t.Errorf("got %d categories, want %d", len(list), catalog.Default().Len())
	}
}

func TestDiagramPreview(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantType    string
		wantCode    string
		wantContain string
	}{
		{
			name:        "dot",
			target:      "/diagrams/document-vault-app?format=dot",
			wantStatus:  http.StatusOK,
			wantType:    "text/vnd.graphviz; charset=utf-8",
			wantContain: `digraph "Document vault app"`,
		},
		{
			name:        "json",
			target:      "/diagrams/sdlc-container-apps?format=json",
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantContain: `"title": "SDLC: Container Apps Deployment"`,
		},
		{
			name:        "direction override",
			target:      "/diagrams/document-vault-app?format=dot&direction=tb",
			wantStatus:  http.StatusOK,
			wantContain: "rankdir=TB",
		},
		{
			name:       "unknown blueprint",
			target:     "/diagrams/nope?format=dot",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "bad format",
			target:     "/diagrams/document-vault-app?format=gif",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "bad direction",
			target:     "/diagrams/document-vault-app?format=dot&direction=up",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DIRECTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target, "", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				if got := decodeError(t, w).Code; got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
				return
			}
			if tt.wantType != "" && w.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", w.Header().Get("Content-Type"), tt.wantType)
			}
			if !strings.Contains(w.Body.String(), tt.wantContain) {
				t.Errorf("body does not contain %q:\n%s", tt.wantContain, w.Body.String())
			}
		})
	}
}

func TestDiagramPreviewETag(t *testing.T) {
	s := newTestServer(t)

	first := do(t, s, http.MethodGet, "/diagrams/document-vault-app?format=dot", "", "")
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	if first.Header().Get("X-Diagram-Nodes") != "6" {
		t.Errorf("X-Diagram-Nodes = %q, want 6", first.Header().Get("X-Diagram-Nodes"))
	}

	second := do(t, s, http.MethodGet, "/diagrams/document-vault-app?format=dot", "", "", "If-None-Match", etag)
	if second.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", second.Code)
	}
}

func TestDiagramPreviewSVG(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/diagrams/document-vault-app", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}
}

const vaultTOML = `
title = "Posted vault"

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

func TestRenderDefinition(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "toml by content type",
			target:      "/render?format=dot",
			contentType: "application/toml",
			body:        vaultTOML,
			wantStatus:  http.StatusOK,
		},
		{
			name:       "yaml by query",
			target:     "/render?format=dot&syntax=yaml",
			body:       "title: Tiny\nnodes:\n  - id: a\n    category: client:users\n",
			wantStatus: http.StatusOK,
		},
		{
			name:        "unknown category",
			target:      "/render?format=dot",
			contentType: "application/json",
			body:        `{"title": "Bad", "nodes": [{"id": "x", "category": "nonexistent:category"}]}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "INVALID_CATEGORY",
		},
		{
			name:        "dangling edge",
			target:      "/render?format=dot",
			contentType: "application/json",
			body:        `{"title": "Bad", "nodes": [{"id": "a", "category": "client:users"}], "edges": [{"from": "a", "to": "ghost"}]}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "UNKNOWN_NODE_REF",
		},
		{
			name:       "no syntax",
			target:     "/render",
			body:       vaultTOML,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:        "malformed body",
			target:      "/render",
			contentType: "application/json",
			body:        `{"title": `,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.target, tt.contentType, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				if got := decodeError(t, w).Code; got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
			}
		})
	}
}

func TestCustomRegistry(t *testing.T) {
	reg := blueprint.NewRegistry()
	err := reg.Register(blueprint.Blueprint{
		Name:  "single",
		Title: "Single node",
		Build: func(b *diagram.Builder) error {
			_, err := b.AddNode(b.Root(), catalog.Generic, "Only")
			return err
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	s := newTestServer(t, WithRegistry(reg))
	if w := do(t, s, http.MethodGet, "/diagrams/single?format=dot", "", ""); w.Code != http.StatusOK {
		t.Errorf("single: status = %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/diagrams/document-vault-app?format=dot", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("built-in on custom registry: status = %d, want 404", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	m := NewMetrics()
	m.Install()
	s := newTestServer(t, WithMetrics(m))

	do(t, s, http.MethodGet, "/diagrams/document-vault-app?format=dot", "", "")
	do(t, s, http.MethodPost, "/render?format=dot", "application/json", `{"title": "Bad", "nodes": [{"id": "x", "category": "nonexistent:category"}]}`)

	w := do(t, s, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()

	for _, want := range []string{
		`archdiagram_diagrams_finalized_total{result="rendered"} 1`,
		`archdiagram_diagrams_finalized_total{result="INVALID_CATEGORY"} 1`,
		`archdiagram_pipeline_build_duration_seconds_count{result="success"} 1`,
		`archdiagram_pipeline_builds_in_flight 0`,
		`archdiagram_http_requests_total{code="200",method="GET",route="/diagrams/{name}"} 1`,
		`archdiagram_http_requests_total{code="422",method="POST",route="/render"} 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.ListenAndServe(ctx, "127.0.0.1:0"); err != context.Canceled {
		t.Errorf("ListenAndServe() = %v, want context.Canceled", err)
	}
}
