// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tables

import (
	"fmt"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/internal/normalize"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// grouped pairs each table body with the row-group header at the same
// position. The description is the text of the table's first div, kept
// untrimmed as the page renders it.
func (e *Extractor) grouped(table fragment.Fragment) (types.TableRecord, error) {
	rec := types.TableRecord{Kind: types.TableGrouped}

	desc, ok := fragment.First(table, "div")
	if !ok {
		return rec, fmt.Errorf("%w: grouped table has no description block", ErrUnsupportedShape)
	}
	rec.Description = desc.Text()

	bodies := table.FindAll("tbody")
	headers := table.FindAll("th", fragment.By("scope", "rowgroup"))
	if len(bodies) == 0 {
		return rec, fmt.Errorf("%w: grouped table has no group bodies", ErrUnsupportedShape)
	}

	n := min(len(bodies), len(headers))
	for i := 0; i < n; i++ {
		group := types.Group{Label: headers[i].Text()}
		if err := e.fillGroup(&group, bodies[i]); err != nil {
			return rec, fmt.Errorf("group %q: %w", group.Label, err)
		}
		rec.SetGroup(group)
	}
	return rec, nil
}

func (e *Extractor) fillGroup(group *types.Group, body fragment.Fragment) error {
	if e.slicing == types.SlicingLegacy {
		return e.fillGroupLegacy(group, body)
	}

	for _, row := range body.FindAll("tr") {
		heading, ok := fragment.First(row, "th", fragment.By("scope", "row"))
		if !ok {
			continue
		}
		cols, err := normalize.Cells(row.FindAll("td"), e.duplicates)
		if err != nil {
			return fmt.Errorf("sub-heading %q: %w", heading.Text(), err)
		}
		group.SetRow(heading.Text(), cols)
	}
	return nil
}

// fillGroupLegacy gives every sub-heading the same cells: all data cells
// of the group body after the first. This reproduces historical output,
// including for groups with more than one sub-heading.
func (e *Extractor) fillGroupLegacy(group *types.Group, body fragment.Fragment) error {
	for _, heading := range body.FindAll("th", fragment.By("scope", "row")) {
		cells := body.FindAll("td")
		if len(cells) > 0 {
			cells = cells[1:]
		}
		cols, err := normalize.Cells(cells, e.duplicates)
		if err != nil {
			return fmt.Errorf("sub-heading %q: %w", heading.Text(), err)
		}
		group.SetRow(heading.Text(), cols)
	}
	return nil
}
