package errors

import "net/http"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	Status   int
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (T001-T019)
	// ============================================

	"T001": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "The configuration file exists but could not be read.",
		Status:   http.StatusInternalServerError,
	},
	"T002": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file is not valid JSON.",
		Status:   http.StatusInternalServerError,
	},
	"T003": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A TOASTD_* environment variable could not be parsed.",
		Status:   http.StatusInternalServerError,
	},
	"T004": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// API Errors (T020-T039)
	// ============================================

	"T020": {
		Category: CategoryAPI,
		Message:  "Malformed request body",
		Detail:   "The request body must be a JSON notification request.",
		Status:   http.StatusBadRequest,
	},
	"T021": {
		Category: CategoryAPI,
		Message:  "Request body too large",
		Status:   http.StatusRequestEntityTooLarge,
	},
	"T022": {
		Category: CategoryAPI,
		Message:  "Notification center unavailable",
		Detail:   "The notification center has been shut down.",
		Status:   http.StatusServiceUnavailable,
	},

	// ============================================
	// Transport Errors (T040-T059)
	// ============================================

	"T040": {
		Category: CategoryTransport,
		Message:  "WebSocket upgrade failed",
		Status:   http.StatusBadRequest,
	},
	"T041": {
		Category: CategoryTransport,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped unexpectedly.",
		Status:   http.StatusInternalServerError,
	},
	"T042": {
		Category: CategoryTransport,
		Message:  "Send failed",
		Detail:   "The notification could not be delivered to the server.",
		Status:   http.StatusBadGateway,
	},

	// ============================================
	// Archive Errors (T060-T079)
	// ============================================

	"T060": {
		Category: CategoryArchive,
		Message:  "Archive upload failed",
		Detail:   "A batch of notification records could not be written to S3.",
		Status:   http.StatusInternalServerError,
	},
	"T061": {
		Category: CategoryArchive,
		Message:  "Archive misconfigured",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// Relay Errors (T080-T099)
	// ============================================

	"T080": {
		Category: CategoryRelay,
		Message:  "Relay connection failed",
		Detail:   "Redis could not be reached.",
		Status:   http.StatusServiceUnavailable,
	},
	"T081": {
		Category: CategoryRelay,
		Message:  "Malformed relay message",
		Status:   http.StatusBadRequest,
	},
	"T082": {
		Category: CategoryRelay,
		Message:  "Relay publish failed",
		Status:   http.StatusBadGateway,
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
