package queryir

import (
	"fmt"
)

// ValidationResult lists the problems that keep a query from running.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate checks a query against the fields of its source: every field
// must exist, every literal must match its field's kind, and Prefix only
// applies to string fields.
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{errors: []string{}}
	v.validateQuery(query)
	return ValidationResult{
		Valid:  len(v.errors) == 0,
		Errors: v.errors,
	}
}

type validator struct {
	src    Source
	errors []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addError("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addError("nil query")
	default:
		v.addError("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	switch sel.From {
	case Compilations, Operations:
	default:
		v.addError("unknown source %q", sel.From)
		return
	}
	if sel.Limit < 0 {
		v.addError("limit must be non-negative, got %d", sel.Limit)
	}
	v.src = sel.From
	v.validatePredicate(sel.Filter)
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case Prefix:
		v.validatePrefix(pred)
	case *Prefix:
		v.validatePrefix(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addError("unknown predicate type %T", p)
	}
}

func (v *validator) field(name string) (Kind, bool) {
	k, ok := FieldKind(v.src, name)
	if !ok {
		v.addError("%s has no field %q", v.src, name)
	}
	return k, ok
}

func (v *validator) validateEquals(eq Equals) {
	k, ok := v.field(eq.Field)
	if !ok {
		return
	}
	if eq.Value == nil {
		v.addError("field %q compared to nil", eq.Field)
		return
	}
	if eq.Value.Kind() != k {
		v.addError("field %q is %s, compared to %s", eq.Field, k, eq.Value.Kind())
	}
}

func (v *validator) validatePrefix(p Prefix) {
	k, ok := v.field(p.Field)
	if ok && k != KindString {
		v.addError("prefix match on %s field %q", k, p.Field)
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
