// Package method provides the method view the stack machine compiles: a
// name, a return type, ordered parameters and locals, and an instruction
// body.
//
// Methods are described in YAML or CUE files. The body is given either as
// assembly text (the "body" field) or as raw IL bytes in hex (the "il"
// field), never both:
//
//	name: Add
//	returns: int32
//	params: [int32, int32]
//	body: |
//	  ldarg.0
//	  ldarg.1
//	  add
//	  ret
//
// A YAML file may hold several methods as separate documents. A CUE file
// declares methods under a top-level "method" struct keyed by name:
//
//	method: Add: {
//		returns: "int32"
//		params: ["int32", "int32"]
//		il: "02 03 58 2A"
//	}
//
// Type names resolve through ir.TypeRegistry.Lookup, so aliases such as
// "i4" or "System.Double" are accepted.
package method
