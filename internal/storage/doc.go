// Package storage persists the declarative settings namespaces as one JSON
// document per namespace. Timer handles and cooldowns are process-local and
// never pass through here.
//
// Load never fails its caller: a missing or malformed file degrades to an
// empty namespace with a logged warning, so startup cannot be wedged by a
// corrupt settings file. Save writes to a temp file and renames it over the
// old document, so a crash mid-write leaves the previous state readable.
package storage
