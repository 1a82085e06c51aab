// Package errors provides structured, coded errors for the statekit CLI.
//
// Each error carries a stable code (for example "E101"), a category, a
// short message, and optionally a longer detail, a fix suggestion, and a
// documentation link. Codes are registered in registry.go so that the
// same failure always reports the same code and base message.
//
// Typical use:
//
//	return errors.New("E101").
//		WithDetail("No statekit.json found in " + dir).
//		WithSuggestion("Run 'statekit demo' from a project directory or create statekit.json")
//
// PrintError renders the full formatted form to stderr, with colors when
// attached to a terminal.
package errors
