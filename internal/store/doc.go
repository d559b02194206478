// Package store provides SQLite-backed durable storage for compilation
// logs.
//
// The store implements an append-only log with:
//   - Compilations: one row per method compilation, with its status and
//     stream digest
//   - Operations: the emitted operation stream of each compilation, one
//     row per record
//
// # Critical Patterns
//
// Logical ordering:
//   - Compilations are ordered by seq INTEGER, NEVER by timestamps
//   - Operations are ordered by idx, their position in the stream
//
// Flattened operands:
//   - Operand identity (pointer equality) does not survive storage; rows
//     keep each operand's kind, name and type, CBOR-encoded with the
//     canonical encoding mode so equal streams store equal bytes
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
