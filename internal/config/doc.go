// Package config loads and saves statekit.json, the project-level
// configuration used by the statekit CLI.
//
// The file configures the devtools server (host, port), the Prometheus
// metric namespace, and default benchmark parameters. All fields are
// optional; Load fills in defaults for anything missing.
package config
