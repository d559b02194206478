// Package harness provides conformance testing for the symbolic stack
// machine.
//
// A scenario names one method, compiles it through the listing backend,
// and checks the outcome and the emitted operation stream.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: add_int32
//	description: "Two arguments summed"
//	method:
//	  name: Add
//	  returns: int32
//	  params: [int32, int32]
//	  body: "ldarg.0; ldarg.1; add; ret"
//	expect:
//	  status: OK
//	  records: 4
//	assertions:
//	  - type: result_type
//	    record: 2
//	    result_type: int32
//	  - type: same_operand
//	    refs:
//	      - { record: 0 }
//	      - { record: 2, operand: 0 }
//
// Instead of an inline method, method_file names a method file (YAML or
// CUE, relative to the scenario) and method_name selects one method from
// it.
//
// # Assertion Types
//
//   - record_text: the record renders as the given SSA text
//   - result_type: the record's Result has the given type
//   - no_result: the record defines no value
//   - opcode_order: the stream's opcodes are exactly the given list
//   - same_operand: every ref resolves to one operand (pointer identity)
//   - distinct_operand: no two refs resolve to the same operand
//   - unique_results: no two Results share a name or an operand
//   - stored_stream: the stream survives a store write and read unchanged
//
// A ref names a record and either one of its operands or, when operand is
// omitted, its Result.
//
// # Determinism
//
// Each scenario compiles against a fresh type registry and writes to an
// isolated in-memory store with a fixed compilation ID, so identical
// scenarios produce identical streams and golden files.
package harness
