// Package service implements the application layer of the concept graph.
//
// GraphService owns the graph.Store and is the only writer to it. Reload and
// ImportFragment build a new snapshot off to the side and publish it in one
// step; a snapshot that fails to load is rejected and the previous one keeps
// serving. Queries take the current handle once and run entirely against it,
// so a reload in the middle of a query is never observed.
//
// # Queries
//
// Knowledge, Search, Concept, Related and Path apply the configured defaults
// and bounds (depth, result cap, search and node limits, step budget) before
// calling into the graph core.
//
// # Event System
//
// Snapshot changes are published on the EventBus (snapshot_reloaded,
// snapshot_rejected) and relayed to SSE clients by the hub.
//
// # Observability
//
// Every operation runs in an OpenTelemetry span and is counted in the
// Prometheus collectors from the telemetry package. Dropped edges are logged
// as warnings on each load.
package service
