package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No scrollock.yaml was found in the directory or any parent directory.",
		DocURL:   "https://scrollock.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
		DocURL:   "https://scrollock.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field has a value outside its valid range.",
		DocURL:   "https://scrollock.dev/docs/errors/E102",
	},

	// ============================================
	// Server Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The HTTP server could not bind to the configured address.",
		DocURL:   "https://scrollock.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryServer,
		Message:  "Server shutdown failed",
		Detail:   "The server did not shut down cleanly within the shutdown timeout.",
		DocURL:   "https://scrollock.dev/docs/errors/E201",
	},
}
