// Package archive writes the history of removed notifications to S3.
//
// An Archiver subscribes to a toast.Center and turns every "removed" event
// into a Record. Records are batched and uploaded as JSON-lines objects:
//
//	prefix/2024/05/17/1715953200000000000.jsonl
//
// A batch is flushed when it reaches Config.BatchSize, every
// Config.FlushInterval, and on Close. The archive is write-only; nothing
// is read back on startup.
package archive
