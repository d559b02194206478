// Package ir provides the operand model and operation records of the
// symbolic stack machine.
//
// ir imports only cil (for opcode identity). The engine, the orchestrator,
// backends and the store all exchange ir values.
//
// Key design constraints:
//   - ClrType values are compared by identity (pointer equality); a
//     TypeRegistry owns the singletons.
//   - Operands have reference semantics. Argument/Local operands live for a
//     whole compilation; Temporaries are single-assignment.
//   - Canonical JSON (RFC 8785) is the only serialization used for digests
//     and golden snapshots.
package ir
