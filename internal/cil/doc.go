// Package cil models the input side of the symbolic stack machine: the
// closed set of ECMA-335 opcodes, their stack metadata, decoded
// instructions and the restartable instruction source.
//
// cil imports nothing internal. Every other package that needs opcode
// metadata imports cil; cil never imports them back.
//
// Key design constraints:
//   - Opcode and ExtOpcode are closed enumerations. An opcode value with no
//     entry in the metadata tables is not an instruction.
//   - ExtOpcode is meaningful only when Opcode == Prefix1 (the 0xFE escape).
//   - Metadata (mnemonic, PopBehavior, PushBehavior, inline operand kind) is
//     a pure lookup; it never depends on method context. The one exception,
//     the arity of ret, is resolved by the engine from the return type.
package cil
