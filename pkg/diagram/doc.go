// Package diagram is the in-memory model of an architecture diagram and the
// builder that assembles it.
//
// # Overview
//
// A [Diagram] is a directed graph of categorized nodes grouped into nested,
// named clusters and connected by labelled edges. Diagrams are assembled with
// a [Builder] and, once finalized, are sealed: the model never changes again
// and is handed to a [Renderer] exactly once.
//
// # Scopes
//
// Every node and cluster is declared inside an explicit parent scope. The
// diagram's root cluster is available from [Builder.Root]; nested clusters are
// opened with [Builder.BeginCluster] and closed with [Builder.EndCluster] (or
// the [Builder.InCluster] helper, which closes the cluster on every exit
// path). There is no implicit "current cluster": a node belongs to exactly
// the cluster passed as its parent.
//
//	d, err := diagram.Build(ctx, "Document vault app", renderer, func(b *diagram.Builder) error {
//	    user, _ := b.AddNode(b.Root(), catalog.Users, "User")
//	    return b.InCluster(b.Root(), "documentvault-rg", func(rg *diagram.Cluster) error {
//	        web, err := b.AddNode(rg, catalog.ContainerApp, "Web App")
//	        if err != nil {
//	            return err
//	        }
//	        return b.Connect(user, web, "accesses")
//	    })
//	})
//
// # Edges
//
// [Builder.AddEdge] appends one edge per destination in the order given, all
// carrying the same label. Edges are never deduplicated. Every endpoint must
// be a node created by the same builder; anything else fails with
// UNKNOWN_NODE_REF and appends nothing.
//
// # Failure and Finalization
//
// The first construction error (unknown category, dangling reference, misuse
// of a closed scope) is remembered. [Builder.Close] finalizes the diagram
// exactly once: it seals every scope and, only if construction succeeded,
// calls the renderer. Either the whole diagram renders or the run fails; no
// partial artifact is produced. [Build] wraps a construction function so that
// Close runs even if the function returns early or panics.
//
// # Concurrency
//
// A Builder is meant for a single goroutine. A sealed Diagram is read-only and
// safe to share between readers.
package diagram
