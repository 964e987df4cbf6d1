// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<html><body>
<div class="sggt-image wide"><img alt="first chart"></div>
<figure class="figure-table"><figcaption>  Question one  </figcaption>
<table><tbody>
<tr><th scope="row">A</th><td data-th="2019" data-thunit="percent">45%</td><td data-th="2020">50%</td></tr>
</tbody></table></figure>
<div class="sggt-image"><img alt="second chart"></div>
<figure class="figure-table other"><table></table></figure>
<figure class="not-a-table"></figure>
</body></html>`

func parsePage(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(pageHTML)
	require.NoError(t, err)
	return doc
}

func TestSelector(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		filters []Filter
		want    string
	}{
		{"tag only", "td", nil, "td"},
		{"class filter", "div", []Filter{By("class", "sggt-image")}, `div[class~="sggt-image"]`},
		{"attribute filter", "th", []Filter{By("scope", "rowgroup")}, `th[scope="rowgroup"]`},
		{"quoted value", "td", []Filter{By("data-th", `say "hi"`)}, `td[data-th="say \"hi\""]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Selector(tt.tag, tt.filters...))
		})
	}
}

func TestDocument_ChartsAndTables(t *testing.T) {
	doc := parsePage(t)

	charts := doc.Charts()
	require.Len(t, charts, 2)
	img, ok := First(charts[1], "img")
	require.True(t, ok)
	alt, ok := img.Attr("alt")
	require.True(t, ok)
	assert.Equal(t, "second chart", alt)

	tables := doc.Tables()
	assert.Len(t, tables, 2, "class match is per token, so figure-table other counts")
}

func TestElement_TextAndAttributes(t *testing.T) {
	doc := parsePage(t)
	table := doc.Tables()[0]

	caption, ok := First(table, "figcaption")
	require.True(t, ok)
	assert.Equal(t, "  Question one  ", caption.Text())
	assert.Equal(t, "Question one", caption.TrimmedText())
	assert.Equal(t, "figcaption", caption.Name())

	cells := table.FindAll("td")
	require.Len(t, cells, 2)

	unit, ok := cells[0].Attr("data-thunit")
	assert.True(t, ok)
	assert.Equal(t, "percent", unit)

	_, ok = cells[1].Attr("data-thunit")
	assert.False(t, ok)

	_, ok = First(table, "th", By("scope", "rowgroup"))
	assert.False(t, ok)
}
