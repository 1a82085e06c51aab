// Package devtools provides a read-only debug HTTP server over a statekit
// Registry.
//
// Endpoints:
//
//	GET /api/models        - registered model ids
//	GET /api/models/{id}   - JSON snapshot of one model's committed state
//	GET /api/snapshot      - JSON snapshot of every model (the save/restore
//	                         and time-travel contract: the serialized form
//	                         of Read for every id)
//	GET /metrics           - Prometheus metrics (promhttp)
//	GET /ws                - websocket stream of change notifications
//
// The server only ever observes committed state through Read and OnChange;
// it never touches drafts. It is a development aid, not a transport layer.
package devtools
