// Package repository defines the data access interface for persisted graph
// snapshots.
//
// A snapshot is stored as two ordered tables, nodes and edges. Edges carry no
// foreign keys: a stored snapshot may reference unknown nodes, and those edges
// are reported and dropped when the snapshot is loaded into the graph core,
// exactly as for any other source.
//
// # SQLite Implementation
//
// The sqlite subpackage implements Repository on modernc.org/sqlite in WAL
// mode. ReplaceSnapshot swaps the stored snapshot in a single transaction so
// readers never observe a half-written graph.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
