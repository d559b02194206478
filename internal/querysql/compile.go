// Package querysql compiles queryir queries to parameterized SQLite SQL
// over the compilation log schema.
package querysql

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/cilsym/internal/queryir"
)

// CompilationColumns is the projection of a Compilations query, in scan
// order.
var CompilationColumns = []string{
	"c.id", "c.seq", "c.method", "c.signature", "c.status", "c.error",
	"c.instruction_count", "c.digest", "c.engine_version", "c.stream_version",
}

// OperationColumns is the projection of an Operations query, in scan order.
var OperationColumns = []string{
	"o.compilation_id", "c.seq", "c.method",
	"o.idx", "o.il_offset", "o.opcode", "o.operands", "o.result", "o.hash",
}

// SQLCompiler compiles queryir queries to SQL.
//
// Every query carries an ORDER BY with a unique tiebreaker, and every
// literal is bound as a parameter.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to parameterized SQL. Queries that fail
// queryir.Validate are rejected with every problem listed.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if res := queryir.Validate(q); !res.Valid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(res.Errors, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	var sb strings.Builder
	switch q.From {
	case queryir.Compilations:
		sb.WriteString("SELECT " + strings.Join(CompilationColumns, ", ") + " FROM compilations c")
	case queryir.Operations:
		sb.WriteString("SELECT " + strings.Join(OperationColumns, ", ") +
			" FROM operations o JOIN compilations c ON c.id = o.compilation_id")
	}

	var params []any
	if q.Filter != nil {
		where, whereParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE " + where)
		params = whereParams
	}

	sb.WriteString(" ORDER BY " + stableOrderKey(q.From))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}
	return sb.String(), params, nil
}

// stableOrderKey is the ORDER BY of a source. seq is unique per
// compilation and idx per record within one.
func stableOrderKey(src queryir.Source) string {
	if src == queryir.Operations {
		return "c.seq ASC, o.idx ASC"
	}
	return "c.seq ASC"
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case queryir.Equals:
		return c.compileEquals(pred)
	case *queryir.Equals:
		return c.compileEquals(*pred)
	case queryir.Prefix:
		return c.compilePrefix(pred)
	case *queryir.Prefix:
		return c.compilePrefix(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// column qualifies a validated field name with its table alias.
func column(field string) string {
	if queryir.IsOperationField(field) {
		return "o." + field
	}
	return "c." + field
}

func (c *SQLCompiler) compileEquals(eq queryir.Equals) (string, []any, error) {
	param, err := valueToParam(eq.Value)
	if err != nil {
		return "", nil, err
	}
	return column(eq.Field) + " = ?", []any{param}, nil
}

// compilePrefix matches case-sensitively; '%' and '_' in the prefix are
// literal. substr counts characters, not bytes.
func (c *SQLCompiler) compilePrefix(p queryir.Prefix) (string, []any, error) {
	if p.Prefix == "" {
		return "1 = 1", nil, nil
	}
	col := column(p.Field)
	return fmt.Sprintf("substr(%s, 1, ?) = ?", col), []any{utf8.RuneCountInString(p.Prefix), p.Prefix}, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

func valueToParam(v queryir.Value) (any, error) {
	switch val := v.(type) {
	case queryir.String:
		return string(val), nil
	case queryir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
