package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rentfleet/apiserver/internal/errs"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Result describes a completed write.
type Result struct {
	InsertID int64
	// RowsAffected is always 1 for Insert: a scanned id means the single
	// row inserted by the statement exists.
	RowsAffected int64
}

// Gateway executes parameterized statements against the shared pool.
// Every call acquires one pooled connection for its duration and blocks
// until one is free or ctx is done.
type Gateway struct {
	db *sql.DB
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

// Query runs a read statement and returns every row as a Row.
func (g *Gateway) Query(ctx context.Context, statement string, args ...any) ([]Row, error) {
	rows, err := g.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errs.Database("db.query", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, errs.Database("db.query", err)
	}
	return out, nil
}

// Insert runs a single-row insert. The statement must end in RETURNING id and
// insert exactly one row; only the first returned id is read.
func (g *Gateway) Insert(ctx context.Context, statement string, args ...any) (Result, error) {
	var id int64
	if err := g.db.QueryRowContext(ctx, statement, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, errs.Database("db.insert", errors.New("insert returned no id"))
		}
		return Result{}, errs.Database("db.insert", err)
	}
	return Result{InsertID: id, RowsAffected: 1}, nil
}

// Ping checks that a connection can be acquired.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return errs.Database("db.ping", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
