// Package engine implements the symbolic stack machine: a single forward
// pass over one method body that tracks the types on an abstract
// evaluation stack, gives every produced value a single-assignment
// identity, and emits one ir.OperationInfo per instruction to a Processor.
//
// ARCHITECTURE:
//
// Per instruction, in order:
//  1. Non-stack operands: fixed-index argument/local loads contribute the
//     slot's Operand (by reference); literal loads contribute a fresh
//     Constant; fixed-index stores contribute the destination slot.
//  2. Stack operands: pop exactly the declared PopBehavior arity and append
//     the popped Temporaries deepest-first.
//  3. Result: a load yields a fresh Temporary of the loaded type; anything
//     else consults the infer table over the unified popped types.
//  4. Push: Push0 pushes nothing, Push1-class pushes the result once,
//     Push1_push1 (dup) pushes the same Temporary twice.
//  5. Emit: the record goes to the Processor before the next instruction
//     is read.
//
// CRITICAL PATTERNS:
//
// Single pass, single block:
// The machine starts with an empty stack and never merges stack state at
// branch targets. Branches are recorded like any other instruction.
//
// All-or-nothing:
// The first error aborts the compilation. A failed Machine keeps returning
// that error; the Processor never sees the failing instruction.
//
// Exclusive ownership:
// A Machine, its Namer and its stack belong to one compilation. There is no
// locking; concurrent compilations use independent Machines.
package engine
