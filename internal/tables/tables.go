// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tables extracts the survey page's data tables into TableRecords.
//
// A table is grouped when it contains at least one row-group header
// (th[scope=rowgroup]); every other table is flat. Flat tables map each
// row label to its columns. Grouped tables map each group label to its
// sub-headings, and each sub-heading to its columns.
package tables

import (
	"errors"
	"fmt"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/internal/normalize"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// ErrUnsupportedShape reports a table that is missing the parts its
// layout requires, such as a caption or any data rows.
var ErrUnsupportedShape = errors.New("unsupported table shape")

// Extractor extracts table fragments. It holds only configuration and is
// safe for concurrent use.
type Extractor struct {
	slicing    types.GroupSlicing
	duplicates types.DuplicatePolicy
}

// New returns an Extractor using the slicing and duplicate-column settings
// of cfg. Empty settings take their defaults.
func New(cfg types.ExtractionConfig) *Extractor {
	cfg = cfg.WithDefaults()
	return &Extractor{
		slicing:    cfg.GroupSlicing,
		duplicates: cfg.DuplicateColumns,
	}
}

// IsGrouped reports whether table contains any row-group header.
func IsGrouped(table fragment.Fragment) bool {
	_, ok := fragment.First(table, "th", fragment.By("scope", "rowgroup"))
	return ok
}

// Extract returns the record for one table fragment.
func (e *Extractor) Extract(table fragment.Fragment) (types.TableRecord, error) {
	if IsGrouped(table) {
		return e.grouped(table)
	}
	return e.flat(table)
}

// ExtractAll extracts every table in order and stops at the first failure.
func (e *Extractor) ExtractAll(tables []fragment.Fragment) ([]types.TableRecord, error) {
	records := make([]types.TableRecord, 0, len(tables))
	for i, t := range tables {
		rec, err := e.Extract(t)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// flat reads the caption as the description and one ColumnMapping per row
// of the first table body.
func (e *Extractor) flat(table fragment.Fragment) (types.TableRecord, error) {
	rec := types.TableRecord{Kind: types.TableFlat}

	caption, ok := fragment.First(table, "figcaption")
	if !ok {
		return rec, fmt.Errorf("%w: flat table has no caption", ErrUnsupportedShape)
	}
	rec.Description = caption.TrimmedText()

	body, ok := fragment.First(table, "tbody")
	if !ok {
		return rec, fmt.Errorf("%w: flat table has no body", ErrUnsupportedShape)
	}
	rows := body.FindAll("tr")
	if len(rows) == 0 {
		return rec, fmt.Errorf("%w: flat table has no rows", ErrUnsupportedShape)
	}

	for i, row := range rows {
		heading, ok := fragment.First(row, "th")
		if !ok {
			return rec, fmt.Errorf("%w: row %d has no heading cell", ErrUnsupportedShape, i)
		}
		cols, err := normalize.Cells(row.FindAll("td"), e.duplicates)
		if err != nil {
			return rec, fmt.Errorf("row %q: %w", heading.Text(), err)
		}
		rec.SetRow(heading.Text(), cols)
	}
	return rec, nil
}
