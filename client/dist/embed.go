package clientdist

import _ "embed"

// ToastJS is the browser client that mirrors the overlay over WebSocket.
//
// It is served by the server at "/toast.js".
//go:embed toast.js
var ToastJS []byte
