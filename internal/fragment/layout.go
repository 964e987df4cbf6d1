package fragment

// Markup conventions of the survey page.
const (
	// ChartTag and ChartClass select the wrapper of each chart image.
	ChartTag   = "div"
	ChartClass = "sggt-image"

	// TableTag and TableClass select the figure holding each data table.
	TableTag   = "figure"
	TableClass = "figure-table"
)

// Charts returns the chart fragments of the page in document order.
func (d *Document) Charts() []Fragment {
	return d.FindAll(ChartTag, By("class", ChartClass))
}

// Tables returns the data-table fragments of the page in document order.
func (d *Document) Tables() []Fragment {
	return d.FindAll(TableTag, By("class", TableClass))
}
