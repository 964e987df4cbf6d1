// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a row of table data cells into a ColumnMapping.
package normalize

import (
	"errors"
	"fmt"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/pkg/types"
)

const (
	// LabelAttr names the column a data cell belongs to.
	LabelAttr = "data-th"
	// UnitAttr carries the optional unit of a data cell's value.
	UnitAttr = "data-thunit"
)

var (
	// ErrMissingLabel reports a data cell without a column label.
	ErrMissingLabel = errors.New("data cell has no column label")

	// ErrDuplicateColumn reports two cells of one row with the same label
	// under the strict duplicate policy.
	ErrDuplicateColumn = errors.New("duplicate column label")
)

// Cells builds the ColumnMapping for one row of data cells. The value is
// the cell text as it appears in the markup; the unit is nil when the cell
// has no unit attribute.
//
// Columns keep the order of first appearance. With DuplicateOverwrite (or
// an empty policy) a later cell replaces the datum of an earlier cell with
// the same label in place. With DuplicateStrict the row fails.
func Cells(cells []fragment.Fragment, policy types.DuplicatePolicy) (types.ColumnMapping, error) {
	cols := make(types.ColumnMapping, 0, len(cells))
	for i, cell := range cells {
		label, ok := cell.Attr(LabelAttr)
		if !ok {
			return nil, fmt.Errorf("cell %d: %w", i, ErrMissingLabel)
		}

		if _, seen := cols.Get(label); seen && policy == types.DuplicateStrict {
			return nil, fmt.Errorf("cell %d: %w: %q", i, ErrDuplicateColumn, label)
		}

		vu := types.ValueUnit{Value: cell.Text()}
		if unit, ok := cell.Attr(UnitAttr); ok {
			vu.Unit = &unit
		}
		cols.Set(label, vu)
	}
	return cols, nil
}
