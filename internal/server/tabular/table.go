// Package tabular implements keyed CRUD over flat comma-separated text files
// acting as ad-hoc tables. Every mutation is read-entire-file, transform in
// memory, rewrite-entire-file; this is O(n) per operation and acceptable only
// at demo scale. A per-table mutex plus an advisory file lock serialize the
// whole read+write cycle, so concurrent writers cannot lose updates.
package tabular

import (
	"fmt"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
)

// Schema is the fixed column layout of one table: an ordered list of column
// names, one of them designated as the unique key, and an optional header row
// naming the columns in the file itself.
type Schema struct {
	Columns []string
	Key     string
	Header  bool
}

// ColumnIndex resolves a column name to its position, or ErrInvalidField for
// names outside the schema.
func (s Schema) ColumnIndex(name string) (int, error) {
	for i, c := range s.Columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", common.ErrInvalidField, name)
}

// fieldAt reads column i of a row, treating missing trailing columns as
// empty strings. The padding is never persisted by reads.
func fieldAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
