package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Syntax is a definition file syntax.
type Syntax string

const (
	SyntaxTOML Syntax = "toml"
	SyntaxYAML Syntax = "yaml"
	SyntaxJSON Syntax = "json"
)

// SyntaxFromPath picks the syntax from a file extension.
func SyntaxFromPath(path string) (Syntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return SyntaxTOML, nil
	case ".yaml", ".yml":
		return SyntaxYAML, nil
	case ".json":
		return SyntaxJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported definition file %s (use .toml, .yaml, .yml or .json)", filepath.Base(path))
}

// Definition is a declarative diagram.
type Definition struct {
	Name        string       `toml:"name" yaml:"name" json:"name"`
	Title       string       `toml:"title" yaml:"title" json:"title"`
	Description string       `toml:"description" yaml:"description" json:"description"`
	Direction   string       `toml:"direction" yaml:"direction" json:"direction"`
	Filename    string       `toml:"filename" yaml:"filename" json:"filename"`
	Nodes       []NodeDef    `toml:"nodes" yaml:"nodes" json:"nodes"`
	Clusters    []ClusterDef `toml:"clusters" yaml:"clusters" json:"clusters"`
	Edges       []EdgeDef    `toml:"edges" yaml:"edges" json:"edges"`
}

// NodeDef declares a node. Label defaults to ID.
type NodeDef struct {
	ID          string `toml:"id" yaml:"id" json:"id"`
	Category    string `toml:"category" yaml:"category" json:"category"`
	Label       string `toml:"label" yaml:"label" json:"label"`
	DisplayName string `toml:"display_name" yaml:"display_name" json:"display_name"`
}

// ClusterDef declares a cluster and its members.
type ClusterDef struct {
	Name     string       `toml:"name" yaml:"name" json:"name"`
	Nodes    []NodeDef    `toml:"nodes" yaml:"nodes" json:"nodes"`
	Clusters []ClusterDef `toml:"clusters" yaml:"clusters" json:"clusters"`
}

// EdgeDef declares one edge per (from, to) pair.
type EdgeDef struct {
	From  Refs   `toml:"from" yaml:"from" json:"from"`
	To    Refs   `toml:"to" yaml:"to" json:"to"`
	Label string `toml:"label" yaml:"label" json:"label"`
	Color string `toml:"color" yaml:"color" json:"color"`
	Style string `toml:"style" yaml:"style" json:"style"`
}

// Refs is a list of node ids that also accepts a single scalar id.
type Refs []string

// UnmarshalTOML implements toml.Unmarshaler.
func (r *Refs) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*r = Refs{v}
	case []any:
		out := make(Refs, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("node id must be a string, got %T", item)
			}
			out = append(out, s)
		}
		*r = out
	default:
		return fmt.Errorf("node ids must be a string or a list of strings, got %T", v)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Refs) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*r = Refs{n.Value}
		return nil
	}
	var list []string
	if err := n.Decode(&list); err != nil {
		return err
	}
	*r = list
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Refs) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*r = Refs{one}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("node ids must be a string or a list of strings")
	}
	*r = list
	return nil
}

// ReadDefinition decodes a definition in the given syntax. Unknown keys are
// rejected.
func ReadDefinition(r io.Reader, syntax Syntax) (*Definition, error) {
	var def Definition
	switch syntax {
	case SyntaxTOML:
		md, err := toml.NewDecoder(r).Decode(&def)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
		}
	case SyntaxYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode YAML")
		}
	case SyntaxJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported definition syntax %q", syntax)
	}
	return &def, nil
}

// ParseDefinition decodes data in the given syntax.
func ParseDefinition(data []byte, syntax Syntax) (*Definition, error) {
	return ReadDefinition(bytes.NewReader(data), syntax)
}

// LoadDefinition reads the definition file at path. When the file has no
// name, it is derived from the file's base name.
func LoadDefinition(path string) (*Definition, error) {
	syntax, err := SyntaxFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "definition file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	def, err := ReadDefinition(f, syntax)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidInput
		}
		return nil, errors.Wrap(code, err, "%s", filepath.Base(path))
	}
	if def.Name == "" {
		def.Name = nameFromPath(path)
	}
	return def, nil
}

var nonNameChars = regexp.MustCompile(`[^a-z0-9]+`)

func nameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := strings.Trim(nonNameChars.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if name == "" {
		return "diagram"
	}
	return name
}

// Blueprint validates the definition's shape and converts it to a runnable
// blueprint. Duplicate node ids are INVALID_INPUT; edges naming unknown ids
// are UNKNOWN_NODE_REF. Category checks happen when the blueprint runs.
func (d *Definition) Blueprint() (blueprint.Blueprint, error) {
	dir, err := diagram.ParseDirection(d.Direction)
	if err != nil {
		return blueprint.Blueprint{}, err
	}
	ids := make(map[string]bool)
	if err := collectIDs(d.Nodes, d.Clusters, ids); err != nil {
		return blueprint.Blueprint{}, err
	}
	for i, e := range d.Edges {
		if len(e.From) == 0 || len(e.To) == 0 {
			return blueprint.Blueprint{}, errors.New(errors.ErrCodeInvalidInput, "edge %d: from and to are required", i)
		}
		for _, id := range slices.Concat(e.From, e.To) {
			if !ids[id] {
				return blueprint.Blueprint{}, errors.New(errors.ErrCodeUnknownNodeRef, "edge %d: unknown node id %q", i, id)
			}
		}
	}

	title := d.Title
	if title == "" {
		title = d.Name
	}
	bp := blueprint.Blueprint{
		Name:        d.Name,
		Title:       title,
		Description: d.Description,
		Direction:   dir,
		Filename:    d.Filename,
		Build:       d.build,
	}
	if err := bp.Validate(); err != nil {
		return blueprint.Blueprint{}, err
	}
	return bp, nil
}

func collectIDs(nodes []NodeDef, clusters []ClusterDef, ids map[string]bool) error {
	for _, n := range nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has no id", n.Label)
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, c := range clusters {
		if err := collectIDs(c.Nodes, c.Clusters, ids); err != nil {
			return err
		}
	}
	return nil
}

// build replays the definition through b: root nodes, then clusters depth
// first, then edges in file order.
func (d *Definition) build(b *diagram.Builder) error {
	refs := make(map[string]diagram.NodeRef)
	if err := addNodes(b, b.Root(), d.Nodes, refs); err != nil {
		return err
	}
	if err := addClusters(b, b.Root(), d.Clusters, refs); err != nil {
		return err
	}

	for _, e := range d.Edges {
		opts := []diagram.EdgeOption{}
		if e.Color != "" {
			opts = append(opts, diagram.WithColor(e.Color))
		}
		if e.Style != "" {
			opts = append(opts, diagram.WithStyle(diagram.EdgeStyle(e.Style)))
		}
		dsts := make([]diagram.NodeRef, len(e.To))
		for i, id := range e.To {
			dsts[i] = refs[id]
		}
		for _, from := range e.From {
			if err := b.AddEdge(refs[from], dsts, e.Label, opts...); err != nil {
				return err
			}
		}
	}
	return nil
}

func addNodes(b *diagram.Builder, parent *diagram.Cluster, nodes []NodeDef, refs map[string]diagram.NodeRef) error {
	for _, n := range nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		var opts []diagram.NodeOption
		if n.DisplayName != "" {
			opts = append(opts, diagram.WithDisplayName(n.DisplayName))
		}
		ref, err := b.AddNode(parent, catalog.Category(n.Category), label, opts...)
		if err != nil {
			return err
		}
		refs[n.ID] = ref
	}
	return nil
}

func addClusters(b *diagram.Builder, parent *diagram.Cluster, clusters []ClusterDef, refs map[string]diagram.NodeRef) error {
	for _, c := range clusters {
		err := b.InCluster(parent, c.Name, func(cl *diagram.Cluster) error {
			if err := addNodes(b, cl, c.Nodes, refs); err != nil {
				return err
			}
			return addClusters(b, cl, c.Clusters, refs)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
