package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/cilsym/internal/queryir"
	"github.com/roach88/cilsym/internal/querysql"
)

// ErrNotFound is returned when a compilation ID has no row.
var ErrNotFound = errors.New("compilation not found")

// ReadCompilation returns the compilation with the given ID.
// Returns ErrNotFound (wrapped) if no such compilation exists.
func (s *Store) ReadCompilation(ctx context.Context, id string) (Compilation, error) {
	list, err := s.FindCompilations(ctx, queryir.Select{
		From:   queryir.Compilations,
		Filter: queryir.Equals{Field: "id", Value: queryir.String(id)},
		Limit:  1,
	})
	if err != nil {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}
	if len(list) == 0 {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, ErrNotFound)
	}
	return list[0], nil
}

// FindCompilations runs a query over the Compilations source. Results are
// ordered by seq.
func (s *Store) FindCompilations(ctx context.Context, q queryir.Select) ([]Compilation, error) {
	if q.From != queryir.Compilations {
		return nil, fmt.Errorf("find compilations: query reads %s", q.From)
	}
	query, args, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, fmt.Errorf("find compilations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find compilations: %w", err)
	}
	defer rows.Close()

	var out []Compilation
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, fmt.Errorf("find compilations: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find compilations: %w", err)
	}
	return out, nil
}

// OperationMatch is one row of FindOperations: a stored record and the
// compilation it belongs to.
type OperationMatch struct {
	CompilationID string          `json:"compilation_id"`
	Seq           int64           `json:"seq"`
	Method        string          `json:"method"`
	Record        OperationRecord `json:"record"`
}

// FindOperations runs a query over the Operations source. Matches are
// ordered by compilation seq, then stream position.
func (s *Store) FindOperations(ctx context.Context, q queryir.Select) ([]OperationMatch, error) {
	if q.From != queryir.Operations {
		return nil, fmt.Errorf("find operations: query reads %s", q.From)
	}
	query, args, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, fmt.Errorf("find operations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find operations: %w", err)
	}
	defer rows.Close()

	out := []OperationMatch{}
	for rows.Next() {
		var m OperationMatch
		m.Record, err = scanRecord(rows, &m.CompilationID, &m.Seq, &m.Method)
		if err != nil {
			return nil, fmt.Errorf("find operations: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find operations: %w", err)
	}
	return out, nil
}

// ReadOperations returns the stored stream of a compilation ordered by
// stream position. A compilation with no records yields an empty slice.
func (s *Store) ReadOperations(ctx context.Context, compilationID string) ([]OperationRecord, error) {
	matches, err := s.FindOperations(ctx, queryir.Select{
		From:   queryir.Operations,
		Filter: queryir.Equals{Field: "id", Value: queryir.String(compilationID)},
	})
	if err != nil {
		return nil, fmt.Errorf("read operations: %w", err)
	}
	out := make([]OperationRecord, len(matches))
	for i, m := range matches {
		out[i] = m.Record
	}
	return out, nil
}

// OpcodeCount is one row of CountOpcodes.
type OpcodeCount struct {
	Opcode string `json:"opcode"`
	Count  int    `json:"count"`
}

// CountOpcodes returns how often each opcode appears across every stored
// stream, most frequent first, ties broken by opcode name.
func (s *Store) CountOpcodes(ctx context.Context) ([]OpcodeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT opcode, COUNT(*) AS n
		FROM operations
		GROUP BY opcode
		ORDER BY n DESC, opcode ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("count opcodes: %w", err)
	}
	defer rows.Close()

	var out []OpcodeCount
	for rows.Next() {
		var c OpcodeCount
		if err := rows.Scan(&c.Opcode, &c.Count); err != nil {
			return nil, fmt.Errorf("count opcodes: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row scanner) (Compilation, error) {
	var c Compilation
	err := row.Scan(
		&c.ID,
		&c.Seq,
		&c.Method,
		&c.Signature,
		&c.Status,
		&c.Error,
		&c.InstructionCount,
		&c.Digest,
		&c.EngineVersion,
		&c.StreamVersion,
	)
	return c, err
}

// scanRecord scans a querysql.OperationColumns row. lead receives the
// compilation columns that precede the record's own.
func scanRecord(row scanner, lead ...any) (OperationRecord, error) {
	var (
		r        OperationRecord
		operands []byte
		result   []byte
	)
	dest := append(lead, &r.Index, &r.Offset, &r.Opcode, &operands, &result, &r.Hash)
	if err := row.Scan(dest...); err != nil {
		return OperationRecord{}, err
	}
	var err error
	if r.Operands, err = unmarshalOperands(operands); err != nil {
		return OperationRecord{}, fmt.Errorf("operation %d: %w", r.Index, err)
	}
	if r.Result, err = unmarshalResult(result); err != nil {
		return OperationRecord{}, fmt.Errorf("operation %d: %w", r.Index, err)
	}
	return r, nil
}
