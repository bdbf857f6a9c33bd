// Package scheduler arms one recurring timer per key.
//
// Keys are channel IDs (cleanup jobs) or user IDs (notification jobs).
// Register is an upsert: a prior entry for the same key is cancelled before
// the new one is armed, so a key can never fan out twice. Handlers run on
// their own goroutine per firing; a slow, failing, or panicking handler
// never delays the next occurrence or other keys. A handler that overruns
// its own period is skipped for that occurrence rather than run twice.
package scheduler
