// Package lock provides named advisory locks with bounded acquisition.
//
// The locks guard short critical sections, most notably the
// check-then-write window of "name must be unique within dataset" saves,
// where the database schema's unique index is the backstop and the lock
// exists to turn most races into a clean conflict error instead of an
// insert failure.
//
// Two implementations are provided: MemoryLocker for a single process and
// PostgresLocker for multi-instance deployments, built on PostgreSQL
// session advisory locks.
package lock
