package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
)

func sample(t *testing.T) *diagram.Diagram {
	t.Helper()
	d, err := diagram.Build(context.Background(), "Document vault app", nil, func(b *diagram.Builder) error {
		user, _ := b.AddNode(b.Root(), catalog.Users, "User")
		rg, _ := b.BeginCluster(b.Root(), "documentvault-rg")
		web, _ := b.AddNode(rg, catalog.ContainerApp, "Web App")
		inner, _ := b.BeginCluster(rg, "data")
		cosmos, _ := b.AddNode(inner, catalog.CosmosDB, "Cosmos DB")
		_ = b.Connect(user, web, "accesses")
		_ = b.Connect(web, cosmos, "", diagram.WithColor("darkgreen"), diagram.WithStyle(diagram.EdgeDashed))
		return b.Err()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	for _, want := range []string{
		`digraph "Document vault app" {`,
		`rankdir=LR`,
		`label="Document vault app"`,
		`n1 [label="User", shape=circle`,
		`subgraph cluster_1 {`,
		`label="documentvault-rg";`,
		`subgraph cluster_2 {`,
		`label="data";`,
		`n1 -> n2 [label="accesses"];`,
		`n2 -> n3 [color="darkgreen", style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// cluster_2 is nested inside cluster_1.
	outer := strings.Index(dot, "subgraph cluster_1")
	inner := strings.Index(dot, "subgraph cluster_2")
	closeOuter := strings.LastIndex(dot, "  }\n")
	if !(outer < inner && inner < closeOuter) {
		t.Error("nested cluster should be emitted inside its parent block")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT should end with a closing brace")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	d := sample(t)
	if ToDOT(d, Options{}) != ToDOT(d, Options{}) {
		t.Error("ToDOT should be deterministic")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="Web App\nContainer App"`) {
		t.Errorf("detailed label missing caption:\n%s", dot)
	}
}

func TestToDOTEscapesLabels(t *testing.T) {
	d, err := diagram.Build(context.Background(), `Quote "test"`, nil, func(b *diagram.Builder) error {
		_, err := b.AddNode(b.Root(), catalog.Generic, `say "hi"`)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dot := ToDOT(d, Options{})
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("label not escaped:\n%s", dot)
	}
}

func TestToDOTLabelRunes(t *testing.T) {
	d, err := diagram.Build(context.Background(), "tab\tted", nil, func(b *diagram.Builder) error {
		rg, err := b.BeginCluster(b.Root(), "rg\u200bname")
		if err != nil {
			return err
		}
		a, _ := b.AddNode(rg, catalog.Generic, "a\tb\u200bc")
		z, _ := b.AddNode(b.Root(), catalog.Generic, `C:\data`)
		_ = b.Connect(a, z, "line one\nline two")
		return b.Err()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dot := ToDOT(d, Options{})

	for _, want := range []string{
		"label=\"tab\tted\"",
		"label=\"rg\u200bname\";",
		"label=\"a\tb\u200bc\"",
		`label="C:\\data"`,
		`label="line one\nline two"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	for _, bad := range []string{`\t`, `\u200b`} {
		if strings.Contains(dot, bad) {
			t.Errorf("DOT contains Go escape %s:\n%s", bad, dot)
		}
	}
}

func TestToDOTDirection(t *testing.T) {
	d, _ := diagram.Build(context.Background(), "tb", nil, func(*diagram.Builder) error { return nil },
		diagram.WithDirection(diagram.TopToBottom))
	if !strings.Contains(ToDOT(d, Options{}), "rankdir=TB") {
		t.Error("direction should map to rankdir")
	}
}
