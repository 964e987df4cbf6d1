// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ValueUnit is a single table datum. Unit is nil when the source cell
// carries no unit attribute; that is a normal state and serializes as null.
type ValueUnit struct {
	Value string  `json:"Value" yaml:"Value"`
	Unit  *string `json:"Unit" yaml:"Unit"`
}

// StringPtr returns a pointer to s, for building ValueUnit literals.
func StringPtr(s string) *string {
	return &s
}

// Column is one labeled datum of a row.
type Column struct {
	Label string
	Value string
	Unit  *string
}

// ValueUnit returns the column's datum in published form.
func (c Column) ValueUnit() ValueUnit {
	return ValueUnit{Value: c.Value, Unit: c.Unit}
}

// ColumnMapping maps column labels to data for one row or sub-heading, in
// column order of first appearance.
type ColumnMapping []Column

// Set assigns vu to label. A repeated label keeps its position and takes
// the new datum.
func (m *ColumnMapping) Set(label string, vu ValueUnit) {
	for i := range *m {
		if (*m)[i].Label == label {
			(*m)[i].Value, (*m)[i].Unit = vu.Value, vu.Unit
			return
		}
	}
	*m = append(*m, Column{Label: label, Value: vu.Value, Unit: vu.Unit})
}

// Get returns the datum under label.
func (m ColumnMapping) Get(label string) (ValueUnit, bool) {
	for _, c := range m {
		if c.Label == label {
			return c.ValueUnit(), true
		}
	}
	return ValueUnit{}, false
}

// Labels returns the column labels in order.
func (m ColumnMapping) Labels() []string {
	labels := make([]string, len(m))
	for i, c := range m {
		labels[i] = c.Label
	}
	return labels
}

// Document returns the columns as {label: {Value, Unit}, ...}.
func (m ColumnMapping) Document() Document {
	doc := make(Document, 0, len(m))
	for _, c := range m {
		doc.Set(c.Label, c.ValueUnit())
	}
	return doc
}

func (m ColumnMapping) MarshalJSON() ([]byte, error) { return m.Document().MarshalJSON() }
func (m ColumnMapping) MarshalYAML() (any, error)    { return m.Document().MarshalYAML() }

// Row is one labeled row of a table.
type Row struct {
	Label   string
	Columns ColumnMapping
}

// Group is one row-group of a grouped table: a label and its sub-heading rows.
type Group struct {
	Label string
	Rows  []Row
}

// SetRow adds a sub-heading row. A repeated label replaces the earlier
// row in place.
func (g *Group) SetRow(label string, cols ColumnMapping) {
	g.Rows = setRow(g.Rows, label, cols)
}

// Document returns the group's sub-headings as an ordered mapping.
func (g Group) Document() Document {
	return rowsDocument(nil, g.Rows)
}

// TableKind distinguishes the two table layouts on the page.
type TableKind string

const (
	TableFlat    TableKind = "flat"
	TableGrouped TableKind = "grouped"
)

// TableRecord is the extracted form of one data table. Flat tables fill
// Rows; grouped tables fill Groups.
type TableRecord struct {
	Kind        TableKind
	Description string
	Rows        []Row
	Groups      []Group
}

// SetRow adds a row to a flat table. A repeated label replaces the earlier
// row in place.
func (t *TableRecord) SetRow(label string, cols ColumnMapping) {
	t.Rows = setRow(t.Rows, label, cols)
}

// SetGroup adds a group to a grouped table. A repeated label replaces the
// earlier group in place.
func (t *TableRecord) SetGroup(g Group) {
	for i := range t.Groups {
		if t.Groups[i].Label == g.Label {
			t.Groups[i] = g
			return
		}
	}
	t.Groups = append(t.Groups, g)
}

// Row returns the flat-table row with the given label.
func (t TableRecord) Row(label string) (ColumnMapping, bool) {
	for _, r := range t.Rows {
		if r.Label == label {
			return r.Columns, true
		}
	}
	return nil, false
}

// Group returns the group with the given label.
func (t TableRecord) Group(label string) (Group, bool) {
	for _, g := range t.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return Group{}, false
}

// Document returns the record in its published shape:
// {description, rowLabel: columns, ...} for flat tables and
// {description, groupLabel: {subheading: columns, ...}, ...} for grouped ones.
func (t TableRecord) Document() Document {
	doc := Document{{Key: "description", Value: t.Description}}
	if t.Kind == TableGrouped {
		for _, g := range t.Groups {
			doc.Set(g.Label, g.Document())
		}
		return doc
	}
	return rowsDocument(doc, t.Rows)
}

func (t TableRecord) MarshalJSON() ([]byte, error) { return t.Document().MarshalJSON() }
func (t TableRecord) MarshalYAML() (any, error)    { return t.Document().MarshalYAML() }

// SeriesPeak is the highest reading of one chart series.
type SeriesPeak struct {
	Name string
	High string
	Year string
}

// SeriesValue is one series' reading in the latest year.
type SeriesValue struct {
	Name  string
	Value string
}

// LatestData holds the final year's readings of every series.
type LatestData struct {
	Year   string
	Values []SeriesValue
}

// Value returns the latest reading of the named series.
func (l LatestData) Value(name string) (string, bool) {
	for _, v := range l.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// GraphSummary is the structured form of one line-chart caption. Series
// names come from the caption text, so the published key set depends on
// the data.
type GraphSummary struct {
	Description string
	Series      []SeriesPeak
	Latest      LatestData
}

// Peak returns the named series' peak.
func (g GraphSummary) Peak(name string) (SeriesPeak, bool) {
	for _, s := range g.Series {
		if s.Name == name {
			return s, true
		}
	}
	return SeriesPeak{}, false
}

// Document returns the summary as
// {description, series: {High, Year}, ..., latest_data: {Year, series: value, ...}}.
func (g GraphSummary) Document() Document {
	doc := Document{{Key: "description", Value: g.Description}}
	for _, s := range g.Series {
		doc.Set(s.Name, Document{
			{Key: "High", Value: s.High},
			{Key: "Year", Value: s.Year},
		})
	}
	latest := Document{{Key: "Year", Value: g.Latest.Year}}
	for _, v := range g.Latest.Values {
		latest.Set(v.Name, v.Value)
	}
	doc.Set("latest_data", latest)
	return doc
}

func (g GraphSummary) MarshalJSON() ([]byte, error) { return g.Document().MarshalJSON() }
func (g GraphSummary) MarshalYAML() (any, error)    { return g.Document().MarshalYAML() }

func setRow(rows []Row, label string, cols ColumnMapping) []Row {
	for i := range rows {
		if rows[i].Label == label {
			rows[i].Columns = cols
			return rows
		}
	}
	return append(rows, Row{Label: label, Columns: cols})
}

func rowsDocument(doc Document, rows []Row) Document {
	for _, r := range rows {
		doc.Set(r.Label, r.Columns)
	}
	return doc
}
