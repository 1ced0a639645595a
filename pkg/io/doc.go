// Package io reads diagram definition files and exports sealed diagrams.
//
// # Definition Files
//
// Diagrams can be declared without Go code in TOML, YAML or JSON. The format
// is picked from the file extension (.toml, .yaml/.yml, .json):
//
//	title = "Document vault app"
//	direction = "LR"
//
//	[[nodes]]
//	id = "user"
//	category = "client:users"
//	label = "User"
//
//	[[clusters]]
//	name = "documentvault-rg"
//
//	  [[clusters.nodes]]
//	  id = "web"
//	  category = "compute:container-app"
//	  label = "Web App"
//
//	[[edges]]
//	from = "user"
//	to = ["web"]
//	label = "accesses"
//
// Node ids are local handles used by edges; they never appear in the image.
// "from" and "to" accept a single id or a list. One edge is drawn for every
// (from, to) pair, in order, so a list on either side expresses fan-out or
// fan-in.
//
// A [Definition] converts to a [blueprint.Blueprint] and is replayed through
// the diagram builder, so category checks, reference checks and
// finalization behave exactly as for the built-in blueprints.
//
//	def, err := io.LoadDefinition("vault.toml")
//	bp, err := def.Blueprint()
//	d, err := bp.Run(ctx, renderer)
//
// # Export
//
// [WriteJSON] and [MarshalJSON] serialise a diagram (nodes with their
// cluster paths, clusters and edges) for tooling; [ExportJSON] writes it to a
// file. The JSON export is also available as the "json" render format.
//
// [blueprint.Blueprint]: github.com/matzehuels/archdiagram/pkg/blueprint.Blueprint
package io
