// Package handler implements the HTTP API of the concept graph.
//
// Routes are mounted on a chi router under /api/graph:
//
//	GET  /knowledge              filtered subgraph (category, type, limit)
//	GET  /search                 text search (query, limit)
//	GET  /concepts/{id}          concept details with related concepts
//	GET  /concepts/{id}/related  related concepts (depth)
//	POST /path                   shortest path {source, target}
//	GET  /snapshot               published snapshot info and dropped edges
//	POST /snapshot               upload a JSON or YAML snapshot
//	POST /snapshot/reload        re-read the configured source
//	GET  /export/{format}        current snapshot as json or yaml
//
// plus /health, /metrics (Prometheus) and /events (SSE).
//
// # Response Format
//
// Every API response uses the envelope {"success": true, "data": ...}.
// Errors return {"success": false, "error": ..., "details": ...} with the
// status derived from the error: invalid arguments 400, unknown concepts 404,
// rejected snapshots or exhausted traversal budgets 422, no snapshot loaded
// 503, anything else 500.
//
// # Middleware
//
// Request IDs, real IP, panic recovery, zap access logging, CORS and an
// optional token-bucket rate limit on the API routes.
package handler
