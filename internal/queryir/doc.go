// Package queryir describes filters over the compilation log independently
// of how the log is stored.
//
// A query names a Source and a Predicate tree over that source's fields:
//
//	Select{
//	  From: Operations,
//	  Filter: And{Predicates: []Predicate{
//	    Equals{Field: "method", Value: String("Add")},
//	    Prefix{Field: "opcode", Prefix: "conv."},
//	  }},
//	}
//
// Sources:
//   - Compilations: one row per compile attempt
//   - Operations: one row per stored record, each carrying the fields of
//     its compilation as well as its own
//
// Query and Predicate are sealed interfaces using the marker method
// pattern, so backends can switch exhaustively over them. Values are typed
// (String or Int) and are never interpolated by a backend.
//
// Results are always ordered by compilation seq and then stream position.
// A query cannot ask for another order.
package queryir
