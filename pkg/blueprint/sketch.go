package blueprint

import (
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
)

// sketch keeps the built-in definitions terse. The builder records the
// first error and every later call involving a failed node or cluster fails
// too, so definitions only need to return b.Err() at the end.
type sketch struct {
	b *diagram.Builder
}

func (s sketch) node(parent *diagram.Cluster, cat catalog.Category, label string) diagram.NodeRef {
	ref, _ := s.b.AddNode(parent, cat, label)
	return ref
}

func (s sketch) cluster(parent *diagram.Cluster, name string) *diagram.Cluster {
	c, _ := s.b.BeginCluster(parent, name)
	return c
}

func (s sketch) end(c *diagram.Cluster) {
	if c != nil {
		_ = s.b.EndCluster(c)
	}
}

// edge draws src -> each dst.
func (s sketch) edge(src diagram.NodeRef, label string, dsts ...diagram.NodeRef) {
	_ = s.b.AddEdge(src, dsts, label)
}

// fanIn draws each src -> dst.
func (s sketch) fanIn(label string, dst diagram.NodeRef, srcs ...diagram.NodeRef) {
	_ = s.b.AddFanIn(srcs, dst, label)
}
