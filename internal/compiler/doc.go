// Package compiler drives one method compilation end to end.
//
// ARCHITECTURE:
// Compile runs three strictly sequential phases with no partial results:
//  1. Preamble: Backend.Begin receives the method.
//  2. Translate: an engine.Machine replays the body, emitting one
//     ir.OperationInfo per instruction to the backend.
//  3. Finish: Backend.Finish returns the CodeHandle.
//
// The first failure in any phase ends the compilation and is reported as a
// Status; the caller's only recourse is to treat the method as
// uncompilable.
//
// The package also carries static checks run before compilation:
// Validate reports malformed bodies all at once (the engine stops at the
// first problem), and AnalyzeLoops reports control-flow cycles, which the
// single-pass machine replays linearly.
package compiler
