package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/archdiagram/pkg/diagram"
)

type exportDiagram struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Direction string          `json:"direction"`
	Filename  string          `json:"filename"`
	Clusters  []exportCluster `json:"clusters"`
	Nodes     []exportNode    `json:"nodes"`
	Edges     []exportEdge    `json:"edges"`
}

type exportCluster struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Parent int      `json:"parent,omitempty"`
	Path   []string `json:"path"`
}

type exportNode struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Label       string   `json:"label"`
	DisplayName string   `json:"display_name,omitempty"`
	Cluster     int      `json:"cluster,omitempty"`
	Path        []string `json:"path,omitempty"`
}

type exportEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
	Style string `json:"style,omitempty"`
}

// WriteJSON encodes d as indented JSON. Node ids are "n1", "n2", ... in
// declaration order; cluster ids match the DOT "cluster_N" blocks.
func WriteJSON(d *diagram.Diagram, w io.Writer) error {
	out := exportDiagram{
		ID:        d.ID().String(),
		Title:     d.Title(),
		Direction: string(d.Direction()),
		Filename:  d.Filename(),
		Clusters:  make([]exportCluster, 0, d.ClusterCount()),
		Nodes:     make([]exportNode, 0, d.NodeCount()),
		Edges:     make([]exportEdge, 0, d.EdgeCount()),
	}

	for _, c := range d.Clusters() {
		ec := exportCluster{ID: c.ID(), Name: c.Name(), Path: c.Path()}
		if p := c.Parent(); p != nil && !p.IsRoot() {
			ec.Parent = p.ID()
		}
		out.Clusters = append(out.Clusters, ec)
	}

	ids := make(map[diagram.NodeRef]string, d.NodeCount())
	for i, n := range d.Nodes() {
		id := fmt.Sprintf("n%d", i+1)
		ids[n.Ref()] = id
		out.Nodes = append(out.Nodes, exportNode{
			ID:          id,
			Category:    string(n.Category),
			Label:       n.Label,
			DisplayName: n.DisplayName,
			Cluster:     n.Cluster().ID(),
			Path:        n.Cluster().Path(),
		})
	}

	for _, e := range d.Edges() {
		out.Edges = append(out.Edges, exportEdge{
			From:  ids[e.From],
			To:    ids[e.To],
			Label: e.Label,
			Color: e.Color,
			Style: string(e.Style),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the JSON export of d.
func MarshalJSON(d *diagram.Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes the JSON export of d to path.
func ExportJSON(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
