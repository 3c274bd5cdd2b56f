// Package core is the application facade over the cost engine.
//
// It owns the current catalog snapshot and keeps everything derived from it
// consistent: resolvers are cached per snapshot generation, stored presets
// are reconciled on read, and the default cost table is rebuilt whenever the
// catalog changes. Web handlers and the CLI talk to [Service] only.
//
// # Catalog refresh
//
// [Service.RefreshCatalog] may run concurrently with itself (the background
// refresher and a manual refresh). Each call takes a sequence number before
// fetching; a result is committed only if no later-started fetch has already
// committed. Readers take the snapshot under a read lock and then work on the
// immutable value without holding any lock.
//
// # Imports
//
// Imports are bounded by an [ImportLimiter]. When all slots are busy a
// request waits up to the configured time and then fails with
// [ErrTooManyImports].
//
// # Errors
//
// [MapError] turns any error returned here into a [UserMessage] carrying a
// support code. See errors.go for the code table.
package core
