// Package domain defines the core types of the concept graph.
//
// A graph snapshot is two ordered collections: Nodes (concepts identified by a
// unique string ID, with a display name, an opaque type, a coarser category
// and an advisory level) and Edges (source/target ID references with a
// relationship label and a strength in [0,1]).
//
// # Query Results
//
// RelatedConcept annotates a node with the relationship that led to it and its
// hop distance from the expansion start. PathResult carries a fewest-hop path
// between two concepts, or the not-found marker.
//
// # Errors
//
// ErrInvalidGraph and ErrInvalidArgument are the only errors raised by the
// graph core. Missing concepts and disconnected endpoints are ordinary results.
//
// # Design Principles
//
// - Plain value types, no pointers between nodes
// - Relations expressed as ID references only
// - No database or external dependencies
package domain
