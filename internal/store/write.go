package store

import (
	"context"
	"fmt"

	"github.com/roach88/cilsym/internal/ir"
)

// WriteCompilation stores c and its operation stream in one transaction.
//
// c.ID and c.Seq are assigned here: ID from the store's IDGenerator (unless
// c.ID is already set) and Seq as one past the highest stored seq. Engine
// and stream versions default to the ir package constants. The assigned
// Compilation is returned.
func (s *Store) WriteCompilation(ctx context.Context, c Compilation, ops []ir.OperationInfo) (Compilation, error) {
	if c.ID == "" {
		c.ID = s.ids.Generate()
	}
	if c.EngineVersion == "" {
		c.EngineVersion = ir.EngineVersion
	}
	if c.StreamVersion == "" {
		c.StreamVersion = ir.StreamVersion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, fmt.Errorf("write compilation: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations`).Scan(&c.Seq); err != nil {
		return Compilation{}, fmt.Errorf("write compilation: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compilations
		(id, seq, method, signature, status, error, instruction_count, digest, engine_version, stream_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Seq,
		c.Method,
		c.Signature,
		c.Status,
		c.Error,
		c.InstructionCount,
		c.Digest,
		c.EngineVersion,
		c.StreamVersion,
	)
	if err != nil {
		return Compilation{}, fmt.Errorf("write compilation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operations
		(compilation_id, idx, il_offset, opcode, operands, result, result_type, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Compilation{}, fmt.Errorf("write operations: %w", err)
	}
	defer stmt.Close()

	for i, op := range ops {
		rec := Record(op)
		operands, err := marshalOperands(rec.Operands)
		if err != nil {
			return Compilation{}, fmt.Errorf("write operation %d: %w", i, err)
		}
		result, err := marshalResult(rec.Result)
		if err != nil {
			return Compilation{}, fmt.Errorf("write operation %d: %w", i, err)
		}
		hash, err := ir.OperationHash(op)
		if err != nil {
			return Compilation{}, fmt.Errorf("write operation %d: %w", i, err)
		}
		var resultType any
		if rec.Result != nil {
			resultType = rec.Result.Type
		}
		if _, err := stmt.ExecContext(ctx, c.ID, i, rec.Offset, rec.Opcode, operands, result, resultType, hash); err != nil {
			return Compilation{}, fmt.Errorf("write operation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, fmt.Errorf("write compilation: commit: %w", err)
	}
	return c, nil
}
