package queryir

// Query represents an abstract query over the compilation log.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: field = literal
//   - Prefix: string field starts with a literal
//   - And: all predicates must be true
type Predicate interface {
	predicateNode()
}

// Value is a literal compared against a field.
type Value interface {
	valueNode()
	Kind() Kind
}

// Kind is the type of a field or literal.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "string"
}

// String is a text literal.
type String string

func (String) valueNode() {}

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// Int is an integer literal.
type Int int64

func (Int) valueNode() {}

// Kind implements Value.
func (Int) Kind() Kind { return KindInt }

// Source names a table of the compilation log.
type Source string

const (
	Compilations Source = "compilations"
	Operations   Source = "operations"
)

// Select reads rows of From that satisfy Filter.
//
//	SELECT <source columns> FROM <from> WHERE <filter> ORDER BY seq[, idx] LIMIT <limit>
type Select struct {
	From   Source
	Filter Predicate // nil = every row
	Limit  int       // <= 0 = no limit
}

func (Select) queryNode() {}

// Equals is true when Field equals Value.
type Equals struct {
	Field string
	Value Value
}

func (Equals) predicateNode() {}

// Prefix is true when the string Field starts with Prefix. An empty
// Prefix matches every row.
type Prefix struct {
	Field  string
	Prefix string
}

func (Prefix) predicateNode() {}

// And is true when every predicate is true. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Where builds a conjunction, collapsing the single-predicate case.
func Where(preds ...Predicate) Predicate {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return And{Predicates: preds}
	}
}
