// Package relay lets other processes raise notifications through Redis
// pub/sub.
//
// A Relay subscribes to one channel and submits every message to the
// center. Messages use the same JSON as POST /api/toasts:
//
//	{"kind":"error","title":"Deploy","message":"Rollout failed","persistent":true}
//
// Malformed messages are logged and skipped. Publish is the sending side,
// used by `toastd send --redis`.
package relay
