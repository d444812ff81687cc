// Package graph implements the in-memory query core of the concept graph.
//
// Load validates a snapshot and builds an undirected adjacency index, returning
// an immutable Handle. Every query runs against a Handle:
//
//   - Expand walks depth-first from a start concept to a bounded depth and
//     reports each newly discovered concept with the relationship that led to
//     it and the depth at which it was first discovered.
//   - ShortestPath runs a breadth-first search and returns a fewest-hop path,
//     breaking ties by adjacency (edge insertion) order.
//   - FilterNodes, InducedEdges and Subgraph narrow a snapshot by category,
//     type and text while keeping the edge set referentially consistent.
//
// Store publishes the current Handle atomically. Replacing a snapshot never
// disturbs queries that already hold the previous Handle.
//
// Nothing in this package performs I/O or logs; load warnings are returned in
// a LoadReport for the caller to surface.
package graph
