// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// rowCells parses a single table row and returns its td fragments.
func rowCells(t *testing.T, cellsHTML string) []fragment.Fragment {
	t.Helper()
	doc, err := fragment.ParseString("<table><tbody><tr>" + cellsHTML + "</tr></tbody></table>")
	require.NoError(t, err)
	return doc.FindAll("td")
}

func TestCells(t *testing.T) {
	tests := []struct {
		name    string
		cells   string
		policy  types.DuplicatePolicy
		want    types.ColumnMapping
		wantErr error
	}{
		{
			name:  "unit present and absent",
			cells: `<td data-th="2019" data-thunit="percent">45%</td><td data-th="2020">50%</td>`,
			want: types.ColumnMapping{
				{Label: "2019", Value: "45%", Unit: types.StringPtr("percent")},
				{Label: "2020", Value: "50%", Unit: nil},
			},
		},
		{
			name:  "empty unit is carried through",
			cells: `<td data-th="Yes" data-thunit="">12</td>`,
			want: types.ColumnMapping{
				{Label: "Yes", Value: "12", Unit: types.StringPtr("")},
			},
		},
		{
			name:  "value text kept as is",
			cells: `<td data-th="No"> 7 </td>`,
			want: types.ColumnMapping{
				{Label: "No", Value: " 7 "},
			},
		},
		{
			name:  "duplicate label overwrites by default",
			cells: `<td data-th="Yes">1</td><td data-th="No">5</td><td data-th="Yes">2</td>`,
			want: types.ColumnMapping{
				{Label: "Yes", Value: "2"},
				{Label: "No", Value: "5"},
			},
		},
		{
			name:  "page order kept over alphabetical order",
			cells: `<td data-th="Great deal">45</td><td data-th="Fair amount">30</td><td data-th="Only a little">15</td><td data-th="Not at all">10</td>`,
			want: types.ColumnMapping{
				{Label: "Great deal", Value: "45"},
				{Label: "Fair amount", Value: "30"},
				{Label: "Only a little", Value: "15"},
				{Label: "Not at all", Value: "10"},
			},
		},
		{
			name:    "duplicate label rejected when strict",
			cells:   `<td data-th="Yes">1</td><td data-th="Yes">2</td>`,
			policy:  types.DuplicateStrict,
			wantErr: ErrDuplicateColumn,
		},
		{
			name:    "missing label",
			cells:   `<td data-th="Yes">1</td><td>2</td>`,
			wantErr: ErrMissingLabel,
		},
		{
			name:  "no cells",
			cells: ``,
			want:  types.ColumnMapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cells(rowCells(t, tt.cells), tt.policy)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v should wrap %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCells_UnitNeverPlaceholder(t *testing.T) {
	got, err := Cells(rowCells(t, `<td data-th="a">1</td><td data-th="b">2</td>`), types.DuplicateOverwrite)
	require.NoError(t, err)
	for label, vu := range got {
		assert.Nil(t, vu.Unit, "column %s", label)
	}
}
