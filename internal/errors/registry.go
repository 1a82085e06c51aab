package errors

// template holds the static parts of a registered error code.
type template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates. Codes are grouped by
// category: E1xx config, E2xx bench, E3xx server.
var registry = map[string]template{
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The statekit.json configuration file could not be located.",
		DocURL:   "https://statekit-go.github.io/docs/config",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read or written",
		DocURL:   "https://statekit-go.github.io/docs/config",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration file is not valid JSON",
		DocURL:   "https://statekit-go.github.io/docs/config",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Configuration value out of range",
		DocURL:   "https://statekit-go.github.io/docs/config",
	},

	"E201": {
		Category: CategoryBench,
		Message:  "Unknown benchmark profile",
		Detail:   "Built-in profiles are: fast, standard, stress.",
		DocURL:   "https://statekit-go.github.io/docs/bench",
	},
	"E202": {
		Category: CategoryBench,
		Message:  "Benchmark profile file could not be parsed",
		Detail:   "Profile files are TOML; see the bench documentation for the schema.",
		DocURL:   "https://statekit-go.github.io/docs/bench",
	},
	"E203": {
		Category: CategoryBench,
		Message:  "Invalid benchmark parameter",
		DocURL:   "https://statekit-go.github.io/docs/bench",
	},

	"E301": {
		Category: CategoryServer,
		Message:  "Devtools server failed to start",
		DocURL:   "https://statekit-go.github.io/docs/devtools",
	},
}

// Registered reports whether a code is known to the registry.
func Registered(code string) bool {
	_, ok := registry[code]
	return ok
}
