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
	// Runtime Errors (E100-E119)
	"E100": {
		Category: CategoryRuntime,
		Message:  "Route not found",
		Detail:   "No route pattern matches the requested path.",
		DocURL:   "https://city.vango.dev/errors/E100",
	},
	"E101": {
		Category: CategoryRuntime,
		Message:  "Method not allowed",
		Detail:   "The matched route does not declare a handler for the request method.",
		DocURL:   "https://city.vango.dev/errors/E101",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "Invalid request path",
		Detail:   "The request path could not be canonicalized.",
		DocURL:   "https://city.vango.dev/errors/E102",
	},
	"E103": {
		Category: CategoryRuntime,
		Message:  "Endpoint handler failed",
		Detail:   "An endpoint handler returned an error.",
		DocURL:   "https://city.vango.dev/errors/E103",
	},
	"E104": {
		Category: CategoryRuntime,
		Message:  "Response encoding failed",
		Detail:   "The endpoint response body could not be serialized for its Content-Type.",
		DocURL:   "https://city.vango.dev/errors/E104",
	},

	// Configuration Errors (E120-E139)
	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The city.json or city.toml configuration file is malformed.",
		DocURL:   "https://city.vango.dev/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Routes directory not found",
		Detail:   "The configured routes directory does not exist.",
		DocURL:   "https://city.vango.dev/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or cannot be parsed.",
		DocURL:   "https://city.vango.dev/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json or .toml.",
		DocURL:   "https://city.vango.dev/errors/E123",
	},

	// CLI Errors (E140-E179)
	"E141": {
		Category: CategoryCLI,
		Message:  "Configuration file not found",
		Detail:   "No city.json or city.toml was found. Defaults are used unless a file is required.",
		DocURL:   "https://city.vango.dev/errors/E141",
	},
	"E160": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "The command could not complete. Check the output above for details.",
		DocURL:   "https://city.vango.dev/errors/E160",
	},
	"E161": {
		Category: CategoryCLI,
		Message:  "Missing argument",
		Detail:   "The command requires an argument that was not provided.",
		DocURL:   "https://city.vango.dev/errors/E161",
	},
	"E162": {
		Category: CategoryCLI,
		Message:  "Manifest not found",
		Detail:   "No route manifest exists at the configured location. Run 'city routes --out' first.",
		DocURL:   "https://city.vango.dev/errors/E162",
	},

	// Route Errors (E200-E219)
	"E201": {
		Category: CategoryRoute,
		Message:  "Duplicate route pattern",
		Detail:   "Two routes in the plan share the same pattern. Patterns must be unique per plan.",
		DocURL:   "https://city.vango.dev/errors/E201",
	},
	"E202": {
		Category: CategoryRoute,
		Message:  "Route parameter count mismatch",
		Detail:   "The number of parameter names differs from the number of capture groups in the route pattern.",
		DocURL:   "https://city.vango.dev/errors/E202",
	},
	"E203": {
		Category: CategoryRoute,
		Message:  "Empty route parameter name",
		Detail:   "A dynamic segment such as [] or [...] does not name its parameter.",
		DocURL:   "https://city.vango.dev/errors/E203",
	},
	"E204": {
		Category: CategoryRoute,
		Message:  "Catch-all segment not last",
		Detail:   "A catch-all segment ([...name]) must be the last segment of a route path.",
		DocURL:   "https://city.vango.dev/errors/E204",
	},
	"E205": {
		Category: CategoryRoute,
		Message:  "Duplicate route parameter",
		Detail:   "The same parameter name appears twice in one route path.",
		DocURL:   "https://city.vango.dev/errors/E205",
	},
	"E206": {
		Category: CategoryRoute,
		Message:  "Ambiguous route file",
		Detail:   "A route file declares Head, Breadcrumbs or Headings but no Page. Page metadata only applies to page routes.",
		DocURL:   "https://city.vango.dev/errors/E206",
	},
	"E207": {
		Category: CategoryRoute,
		Message:  "Orphan layout",
		Detail:   "A layout file has no routes below it and is never used.",
		DocURL:   "https://city.vango.dev/errors/E207",
	},
	"E208": {
		Category: CategoryRoute,
		Message:  "Invalid route type",
		Detail:   "The route type tag must be empty or the endpoint marker.",
		DocURL:   "https://city.vango.dev/errors/E208",
	},
	"E209": {
		Category: CategoryRoute,
		Message:  "Loader kind mismatch",
		Detail:   "Page routes take content loaders and endpoint routes take endpoint loaders.",
		DocURL:   "https://city.vango.dev/errors/E209",
	},
	"E210": {
		Category: CategoryRoute,
		Message:  "Module load failed",
		Detail:   "A module loader returned an error while resolving a matched route.",
		DocURL:   "https://city.vango.dev/errors/E210",
	},
	"E211": {
		Category: CategoryRoute,
		Message:  "Page module missing",
		Detail:   "The last module of a page route must be a page module.",
		DocURL:   "https://city.vango.dev/errors/E211",
	},
	"E212": {
		Category: CategoryRoute,
		Message:  "Unknown module",
		Detail:   "The manifest references a module ID that is not registered.",
		DocURL:   "https://city.vango.dev/errors/E212",
	},
	"E213": {
		Category: CategoryRoute,
		Message:  "Invalid route pattern",
		Detail:   "The route path has an unbalanced bracket or the route regular expression is malformed.",
		DocURL:   "https://city.vango.dev/errors/E213",
	},
	"E214": {
		Category: CategoryRoute,
		Message:  "Invalid menu file",
		Detail:   "A menu.json file is not valid JSON or defines no menu entries.",
		DocURL:   "https://city.vango.dev/errors/E214",
	},

	// Manifest Errors (E220-E239)
	"E220": {
		Category: CategoryManifest,
		Message:  "Unsupported manifest version",
		Detail:   "The manifest was written by an incompatible version of City.",
		DocURL:   "https://city.vango.dev/errors/E220",
	},
	"E221": {
		Category: CategoryManifest,
		Message:  "Manifest decode failed",
		Detail:   "The manifest is not valid JSON.",
		DocURL:   "https://city.vango.dev/errors/E221",
	},
	"E222": {
		Category: CategoryManifest,
		Message:  "Manifest store unavailable",
		Detail:   "The manifest could not be read from or written to its store.",
		DocURL:   "https://city.vango.dev/errors/E222",
	},
	"E223": {
		Category: CategoryManifest,
		Message:  "Invalid manifest location",
		Detail:   "Manifest locations are file paths, file:// URLs or s3://bucket/key URLs.",
		DocURL:   "https://city.vango.dev/errors/E223",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
