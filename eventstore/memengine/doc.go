// Package memengine provides an in-memory journal engine.
//
// It implements the same Query/Append contract as postgresengine, including the optimistic
// concurrency check on the expected max sequence number, and is the default backend of the
// transaction journal. Events live as long as the process does.
//
// The engine is not safe for concurrent use; the circulation desk is single-threaded.
package memengine
