// Package data implements the tabular sink for measurement results: records
// with a fixed column schema, groups collecting the records of one
// experiment run, and pluggable persistence backends.
package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrRecordExists   = errors.New("record already in group")
	ErrRecordNotFound = errors.New("record not found")
)

// Column describes one record column. Dependent marks observed outputs;
// independent columns carry inputs or timestamps.
type Column struct {
	Name      string `json:"name"`
	Unit      string `json:"unit,omitempty"`
	Dependent bool   `json:"dependent"`
}

// Record is an append-only table with a schema fixed at construction. One
// row is appended per completed, non-terminal job execution.
type Record struct {
	name    string
	columns []Column
	colSet  map[string]int
	rows    [][]any
}

func NewRecord(name string, columns []Column) (*Record, error) {
	if name == "" {
		return nil, errors.New("record name is required")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("record %s needs at least one column", name)
	}
	colSet := make(map[string]int, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("record %s has an unnamed column", name)
		}
		if _, dup := colSet[col.Name]; dup {
			return nil, fmt.Errorf("record %s has duplicate column %s", name, col.Name)
		}
		colSet[col.Name] = i
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Record{name: name, columns: cols, colSet: colSet}, nil
}

func (r *Record) Name() string { return r.name }

func (r *Record) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

func (r *Record) HasColumn(name string) bool {
	_, ok := r.colSet[name]
	return ok
}

func (r *Record) Rows() int { return len(r.rows) }

// AddRow appends one row. Keys must name declared columns; columns absent
// from values are filled with nil cells.
func (r *Record) AddRow(values map[string]any) error {
	for key := range values {
		if !r.HasColumn(key) {
			return fmt.Errorf("%w: %s in record %s", ErrUnknownColumn, key, r.name)
		}
	}
	row := make([]any, len(r.columns))
	for key, value := range values {
		row[r.colSet[key]] = value
	}
	r.rows = append(r.rows, row)
	return nil
}

// Value returns the cell at (column, row).
func (r *Record) Value(column string, row int) (any, error) {
	idx, ok := r.colSet[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s in record %s", ErrUnknownColumn, column, r.name)
	}
	if row < 0 || row >= len(r.rows) {
		return nil, fmt.Errorf("row %d out of range in record %s", row, r.name)
	}
	return r.rows[row][idx], nil
}

// ColumnValues returns every cell of one column in row order.
func (r *Record) ColumnValues(column string) ([]any, error) {
	idx, ok := r.colSet[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s in record %s", ErrUnknownColumn, column, r.name)
	}
	out := make([]any, len(r.rows))
	for i, row := range r.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Group collects the records of one experiment run under a stable ID.
type Group struct {
	id        uuid.UUID
	name      string
	meta      map[string]any
	createdAt time.Time

	recordNames []string
	records     map[string]*Record
}

func NewGroup(name string, meta map[string]any) (*Group, error) {
	if name == "" {
		return nil, errors.New("group name is required")
	}
	g := &Group{
		id:        uuid.New(),
		name:      name,
		meta:      map[string]any{},
		createdAt: time.Now().UTC(),
		records:   make(map[string]*Record),
	}
	for k, v := range meta {
		g.meta[k] = v
	}
	return g, nil
}

// RestoreGroup rebuilds a group loaded from a backend, keeping its original
// identity and creation time.
func RestoreGroup(id uuid.UUID, name string, meta map[string]any, createdAt time.Time) *Group {
	g := &Group{
		id:        id,
		name:      name,
		meta:      map[string]any{},
		createdAt: createdAt,
		records:   make(map[string]*Record),
	}
	for k, v := range meta {
		g.meta[k] = v
	}
	return g
}

func (g *Group) ID() uuid.UUID        { return g.id }
func (g *Group) Name() string         { return g.name }
func (g *Group) CreatedAt() time.Time { return g.createdAt }

func (g *Group) Meta() map[string]any {
	out := make(map[string]any, len(g.meta))
	for k, v := range g.meta {
		out[k] = v
	}
	return out
}

func (g *Group) AddRecord(record *Record) error {
	if record == nil {
		return errors.New("record is required")
	}
	if _, exists := g.records[record.name]; exists {
		return fmt.Errorf("%w: %s", ErrRecordExists, record.name)
	}
	g.recordNames = append(g.recordNames, record.name)
	g.records[record.name] = record
	return nil
}

func (g *Group) Record(name string) (*Record, bool) {
	record, ok := g.records[name]
	return record, ok
}

func (g *Group) RecordNames() []string {
	out := make([]string, len(g.recordNames))
	copy(out, g.recordNames)
	return out
}
