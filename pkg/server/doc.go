// Package server exposes a toast.Center over HTTP and WebSocket.
//
// Routes:
//
//	POST   /api/toasts                 create a notification, 201 {"handle": ...}
//	GET    /api/toasts                 {"overlay": ..., "toasts": [...]}
//	DELETE /api/toasts/{handle}        dismiss, always 204
//	POST   /api/toasts/{handle}/action activate the action button, 204
//	GET    /ws                         live overlay frames
//	GET    /                           demo dashboard
//	GET    /toast.js                   browser client
//	GET    /healthz                    liveness
//
// The Hub is a toast.Observer. Each connection first receives a "sync"
// frame carrying the whole overlay as HTML, then one frame per center
// event. Browsers send {"op": "dismiss"|"action", "handle": ...}.
//
// Origins are checked with SameOriginCheck plus Config.AllowedOrigins.
package server
