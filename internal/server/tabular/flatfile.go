package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/filex"
)

// lockRetryDelay is the polling interval while waiting for the advisory
// file lock held by another process.
const lockRetryDelay = 25 * time.Millisecond

// Table is one flat-file table. The backing file is created lazily on first
// write (with a header row for schemas that declare one) and persists across
// process restarts. Values are trimmed of surrounding whitespace before
// storage; reads return stored content untouched.
type Table struct {
	path   string
	schema Schema
	keyIdx int

	mu  sync.Mutex
	flk *flock.Flock
}

// New builds a Table over path with the given schema. The schema's key column
// must be one of its columns.
func New(path string, schema Schema) (*Table, error) {
	keyIdx, err := schema.ColumnIndex(schema.Key)
	if err != nil {
		return nil, fmt.Errorf("schema key: %w", err)
	}
	return &Table{
		path:   path,
		schema: schema,
		keyIdx: keyIdx,
		flk:    flock.New(path + ".lock"),
	}, nil
}

// Path returns the location of the backing file.
func (t *Table) Path() string {
	return t.path
}

func (t *Table) lock(ctx context.Context) (func(), error) {
	t.mu.Lock()
	if _, err := t.flk.TryLockContext(ctx, lockRetryDelay); err != nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("lock table %s: %w", t.path, err)
	}
	return func() {
		_ = t.flk.Unlock()
		t.mu.Unlock()
	}, nil
}

func (t *Table) rlock(ctx context.Context) (func(), error) {
	t.mu.Lock()
	if _, err := t.flk.TryRLockContext(ctx, lockRetryDelay); err != nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("lock table %s: %w", t.path, err)
	}
	return func() {
		_ = t.flk.Unlock()
		t.mu.Unlock()
	}, nil
}

// readRows returns every row in the file, header row included when the
// schema declares one. Returns ErrTableMissing when the file does not exist.
func (t *Table) readRows() ([][]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrTableMissing
		}
		return nil, fmt.Errorf("open table %s: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", t.path, err)
	}
	return rows, nil
}

// writeRows rewrites the whole table atomically (temp file plus rename).
func (t *Table) writeRows(rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("encode table %s: %w", t.path, err)
	}
	return filex.ReplaceAtomic(t.path, buf.Bytes())
}

// dataStart is the index of the first data row within raw file rows.
func (t *Table) dataStart(rows [][]string) int {
	if t.schema.Header && len(rows) > 0 {
		return 1
	}
	return 0
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// padded returns a copy of row extended with empty strings up to the schema
// width.
func (t *Table) padded(row []string) []string {
	out := make([]string, len(t.schema.Columns))
	copy(out, row)
	return out
}

// Append writes a new row at the end of the table without checking for key
// collisions; callers that need uniqueness look the key up first. The file
// (and header row, if declared) is created on first write.
func (t *Table) Append(ctx context.Context, rec []string) error {
	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return t.appendLocked(rec)
}

func (t *Table) appendLocked(rec []string) error {
	_, statErr := os.Stat(t.path)
	missing := os.IsNotExist(statErr)

	f, err := os.OpenFile(t.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o660)
	if err != nil {
		return fmt.Errorf("open table %s: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if missing && t.schema.Header {
		if err := w.Write(t.schema.Columns); err != nil {
			return fmt.Errorf("write header %s: %w", t.path, err)
		}
	}
	if err := w.Write(trimAll(rec)); err != nil {
		return fmt.Errorf("append row %s: %w", t.path, err)
	}
	w.Flush()
	return w.Error()
}

// Find scans rows top to bottom and returns the first one whose key column
// equals key exactly (case-sensitive, stored values untrimmed). The returned
// record is padded to the schema width. Returns ErrNotFound when the file is
// absent or no row matches.
func (t *Table) Find(ctx context.Context, key string) ([]string, error) {
	return t.scan(ctx, key, -1, "")
}

// FindBy is Find with an additional exact-match requirement on a second
// column, used for email+password credential checks.
func (t *Table) FindBy(ctx context.Context, key, matchColumn, matchValue string) ([]string, error) {
	mi, err := t.schema.ColumnIndex(matchColumn)
	if err != nil {
		return nil, err
	}
	return t.scan(ctx, key, mi, matchValue)
}

func (t *Table) scan(ctx context.Context, key string, matchIdx int, matchValue string) ([]string, error) {
	unlock, err := t.rlock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rows, err := t.readRows()
	if err != nil {
		if errors.Is(err, common.ErrTableMissing) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	for _, row := range rows[t.dataStart(rows):] {
		if fieldAt(row, t.keyIdx) != key {
			continue
		}
		if matchIdx >= 0 && fieldAt(row, matchIdx) != matchValue {
			continue
		}
		return t.padded(row), nil
	}
	return nil, common.ErrNotFound
}

// UpdateField sets one column of the row identified by key, trimming the new
// value. Short rows are padded up to the target column; other rows are
// rewritten untouched, preserving order. Returns ErrNotFound when no row
// matches.
func (t *Table) UpdateField(ctx context.Context, key, column, value string) error {
	return t.updateField(ctx, key, -1, "", column, value)
}

// UpdateFieldBy is UpdateField with an additional credential match on a
// second column.
func (t *Table) UpdateFieldBy(ctx context.Context, key, matchColumn, matchValue, column, value string) error {
	mi, err := t.schema.ColumnIndex(matchColumn)
	if err != nil {
		return err
	}
	return t.updateField(ctx, key, mi, matchValue, column, value)
}

func (t *Table) updateField(ctx context.Context, key string, matchIdx int, matchValue, column, value string) error {
	ci, err := t.schema.ColumnIndex(column)
	if err != nil {
		return err
	}

	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rows, err := t.readRows()
	if err != nil {
		if errors.Is(err, common.ErrTableMissing) {
			return common.ErrNotFound
		}
		return err
	}

	for i := t.dataStart(rows); i < len(rows); i++ {
		row := rows[i]
		if fieldAt(row, t.keyIdx) != key {
			continue
		}
		if matchIdx >= 0 && fieldAt(row, matchIdx) != matchValue {
			continue
		}
		for ci >= len(row) {
			row = append(row, "")
		}
		row[ci] = strings.TrimSpace(value)
		rows[i] = row
		return t.writeRows(rows)
	}
	return common.ErrNotFound
}

// UpsertRow replaces the entire row whose key matches the record's key
// column, or appends the record at the end when no row has that key. The
// whole table is rewritten either way.
func (t *Table) UpsertRow(ctx context.Context, rec []string) error {
	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rec = trimAll(rec)
	key := fieldAt(rec, t.keyIdx)

	rows, err := t.readRows()
	if err != nil {
		if !errors.Is(err, common.ErrTableMissing) {
			return err
		}
		rows = nil
		if t.schema.Header {
			rows = [][]string{t.schema.Columns}
		}
	}

	replaced := false
	for i := t.dataStart(rows); i < len(rows); i++ {
		if fieldAt(rows[i], t.keyIdx) == key {
			rows[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, rec)
	}
	return t.writeRows(rows)
}

// ClearField sets a column to the empty string only when it currently holds
// a non-empty value. Returns ErrNotFound when the key is absent or the field
// is already empty, so callers can tell "nothing to remove" from "removed".
func (t *Table) ClearField(ctx context.Context, key, column string) error {
	ci, err := t.schema.ColumnIndex(column)
	if err != nil {
		return err
	}

	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rows, err := t.readRows()
	if err != nil {
		if errors.Is(err, common.ErrTableMissing) {
			return common.ErrNotFound
		}
		return err
	}

	for i := t.dataStart(rows); i < len(rows); i++ {
		row := rows[i]
		if fieldAt(row, t.keyIdx) != key {
			continue
		}
		if fieldAt(row, ci) == "" {
			return fmt.Errorf("%w: column %q already empty", common.ErrNotFound, column)
		}
		row[ci] = ""
		rows[i] = row
		return t.writeRows(rows)
	}
	return common.ErrNotFound
}

// DeleteRowBy removes the row matching key plus a credential column and
// rewrites the table without it. Returns ErrNotFound when no such row exists.
func (t *Table) DeleteRowBy(ctx context.Context, key, matchColumn, matchValue string) error {
	mi, err := t.schema.ColumnIndex(matchColumn)
	if err != nil {
		return err
	}

	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rows, err := t.readRows()
	if err != nil {
		if errors.Is(err, common.ErrTableMissing) {
			return common.ErrNotFound
		}
		return err
	}

	kept := rows[:t.dataStart(rows):t.dataStart(rows)]
	removed := false
	for _, row := range rows[t.dataStart(rows):] {
		if fieldAt(row, t.keyIdx) == key && fieldAt(row, mi) == matchValue {
			removed = true
			continue
		}
		kept = append(kept, row)
	}
	if !removed {
		return common.ErrNotFound
	}
	return t.writeRows(kept)
}

// Rows returns the data rows as stored, header excluded, rows unpadded.
// Returns ErrTableMissing when the file does not exist.
func (t *Table) Rows(ctx context.Context) ([][]string, error) {
	unlock, err := t.rlock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rows, err := t.readRows()
	if err != nil {
		return nil, err
	}
	return rows[t.dataStart(rows):], nil
}
