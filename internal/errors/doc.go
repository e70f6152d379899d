// Package errors provides coded, structured errors for toastd.
//
// Every error carries a code (e.g. "T002") that maps to a registered
// template with a category, a short message, a longer detail and, for API
// errors, the HTTP status to answer with.
//
// # Error Categories
//
//   - config: configuration file and environment problems
//   - api: malformed HTTP requests
//   - transport: HTTP and WebSocket serving failures
//   - archive: S3 archive failures
//   - relay: Redis relay failures
//
// # Usage
//
//	err := errors.New("T004").
//	    WithDetail("toast.exitDelayMs must not be negative").
//	    WithSuggestion(`Set "exitDelayMs": 300 in toastd.json`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR T004: Invalid config value
//	//
//	//   toast.exitDelayMs must not be negative
//	//
//	//   Hint: Set "exitDelayMs": 300 in toastd.json
//
// Errors wrap their cause, so errors.Is and errors.As from the standard
// library work through them.
package errors
