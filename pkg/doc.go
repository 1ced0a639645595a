// Package pkg holds the libraries behind archdiagram.
//
// # Overview
//
// Archdiagram describes cloud architecture diagrams in code (categorized
// nodes, nested clusters and labelled edges) and renders them through
// Graphviz. The packages are layered:
//
//  1. [errors], [catalog] - error codes and the icon category table
//  2. [diagram] - the model and the scoped builder that assembles it
//  3. [render] - DOT generation, Graphviz output and the file/memory renderers
//  4. [blueprint], [io] - named diagrams in Go and in TOML/YAML/JSON files
//  5. [pipeline] - build, render and write, with caching and hooks
//  6. [cache], [observability] - artifact cache backends and event hooks
//
// # Data Flow
//
//	blueprint or definition file
//	         ↓
//	    [diagram] Builder (categories and references checked)
//	         ↓
//	    sealed Diagram
//	         ↓
//	    [render] ToDOT → Graphviz (cached by DOT hash)
//	         ↓
//	    PNG/SVG/JPG/DOT/JSON
//
// # Quick Start
//
//	bp, _ := blueprint.Get("document-vault-app")
//	res, err := pipeline.NewRunner(nil, nil).Generate(ctx, bp, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("generated:", res.Files[0])
//
// [errors]: github.com/matzehuels/archdiagram/pkg/errors
// [catalog]: github.com/matzehuels/archdiagram/pkg/catalog
// [diagram]: github.com/matzehuels/archdiagram/pkg/diagram
// [render]: github.com/matzehuels/archdiagram/pkg/render
// [blueprint]: github.com/matzehuels/archdiagram/pkg/blueprint
// [io]: github.com/matzehuels/archdiagram/pkg/io
// [pipeline]: github.com/matzehuels/archdiagram/pkg/pipeline
// [cache]: github.com/matzehuels/archdiagram/pkg/cache
// [observability]: github.com/matzehuels/archdiagram/pkg/observability
package pkg
