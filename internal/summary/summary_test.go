// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/pkg/types"
)

const environmentCaption = "Americans' worries about the quality of the environment: 72% Pollution, 1989, 61% Warming, 2008, 2020. 60% and 43%"

func TestParse(t *testing.T) {
	got, err := Parse(environmentCaption)
	require.NoError(t, err)

	assert.Equal(t, "Americans' worries about the quality of the", got.Description)
	assert.Equal(t, []types.SeriesPeak{
		{Name: "Pollution", High: "72%", Year: "1989"},
		{Name: "Warming", High: "61%", Year: "2008"},
	}, got.Series)
	assert.Equal(t, types.LatestData{
		Year: "2020",
		Values: []types.SeriesValue{
			{Name: "Pollution", Value: "60%"},
			{Name: "Warming", Value: "43%"},
		},
	}, got.Latest)
}

func TestParse_PublishedShape(t *testing.T) {
	got, err := Parse(environmentCaption)
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"description": "Americans' worries about the quality of the",
		"Pollution": {"High": "72%", "Year": "1989"},
		"Warming": {"High": "61%", "Year": "2008"},
		"latest_data": {"Year": "2020", "Pollution": "60%", "Warming": "43%"}
	}`, string(data))
}

func TestParse_DecadeCaptionShape(t *testing.T) {
	caption := "Opinions on the Environment over the past decade Great deal, Fair amount, 62%, 2007, 51%, 2019, 2019: 48%, and, 45%"

	got, err := Parse(caption)
	require.NoError(t, err)

	assert.Equal(t, "Opinions on the Environment over the past", got.Description)
	require.Len(t, got.Series, 2)

	// Series names are data-dependent keys: check the shape, not literals.
	doc := got.Document()
	keys := doc.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, "description", keys[0])
	assert.Equal(t, "latest_data", keys[3])
	for i, s := range got.Series {
		assert.Equal(t, s.Name, keys[i+1])
		assert.NotEmpty(t, s.Name)
		v, ok := got.Latest.Value(s.Name)
		assert.True(t, ok, "latest_data should hold series %q", s.Name)
		assert.NotEmpty(t, v)
	}
	assert.NotEmpty(t, got.Latest.Year)

	latest, ok := doc.Get("latest_data")
	require.True(t, ok)
	latestKeys := latest.(types.Document).Keys()
	assert.Equal(t, []string{"Year", got.Series[0].Name, got.Series[1].Name}, latestKeys)
}

func TestParse_Idempotent(t *testing.T) {
	first, err := Parse(environmentCaption)
	require.NoError(t, err)
	second, err := Parse(environmentCaption)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		caption string
	}{
		{"empty", ""},
		{"fewer than fifteen tokens", "Americans' worries about the quality of the environment: 72% Pollution, 1989, 61%"},
		{"missing last value", "Americans' worries about the quality of the environment: 72% Pollution, 1989, 61% Warming, 2008, 2020. 60% and"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.caption)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSummary))
		})
	}
}

func TestParse_ShortTrailingTokensIgnored(t *testing.T) {
	got, err := Parse(environmentCaption + " (percent) overall")
	require.NoError(t, err)
	assert.Len(t, got.Series, 2)
	assert.Equal(t, "Warming", got.Series[1].Name)
}

func TestParse_ThirdSeriesRejected(t *testing.T) {
	caption := "Americans' worries about the quality of the environment: 72% Pollution, 1989, 61% Warming, 2008, 55% Water, 2000, 2020. 60%, 43% and 50%"
	assert.Equal(t, 18, DefaultGrammar.MinTokens())
	assert.Equal(t, 20, DefaultGrammar.MaxTokens())

	_, err := Parse(caption)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedSummary))
	assert.Contains(t, err.Error(), "fit 2 series")
}

func TestGrammar_ThreeSeries(t *testing.T) {
	g := Grammar{
		Delimiter:         " ",
		DescriptionTokens: 2,
		Series: []SeriesLayout{
			{High: 2, Name: 3, Year: 4},
			{High: 5, Name: 6, Year: 7},
			{High: 8, Name: 9, Year: 10},
		},
		Latest: LatestLayout{Year: 11, Values: []int{12, 13, 14}},
	}
	assert.Equal(t, 15, g.MinTokens())

	got, err := g.Parse("Energy sources 50% Coal, 1990, 40% Gas, 2010, 30% Solar, 2020, 2023: 10% 35% 25%")
	require.NoError(t, err)
	assert.Equal(t, "Energy sources", got.Description)
	require.Len(t, got.Series, 3)
	assert.Equal(t, types.SeriesPeak{Name: "Solar", High: "30%", Year: "2020"}, got.Series[2])
	v, ok := got.Latest.Value("Gas")
	assert.True(t, ok)
	assert.Equal(t, "35%", v)
	assert.Equal(t, "2023", got.Latest.Year)
}

func TestGrammar_Validate(t *testing.T) {
	assert.NoError(t, DefaultGrammar.Validate())
	assert.Equal(t, 18, DefaultGrammar.MinTokens())

	bad := DefaultGrammar
	bad.Latest = LatestLayout{Year: 14, Values: []int{15}}
	assert.Error(t, bad.Validate())

	bad = DefaultGrammar
	bad.Delimiter = ""
	assert.Error(t, bad.Validate())

	bad = DefaultGrammar
	bad.Series = nil
	bad.Latest.Values = nil
	assert.Error(t, bad.Validate())

	_, err := bad.Parse(environmentCaption)
	assert.Error(t, err)
}

func TestFromFragment(t *testing.T) {
	page := `<html><body>
<div class="sggt-image"><img src="a.png" alt="` + environmentCaption + `"></div>
<div class="sggt-image"><img src="b.png"></div>
<div class="sggt-image"><p>no image</p></div>
</body></html>`
	doc, err := fragment.Parse(strings.NewReader(page))
	require.NoError(t, err)
	charts := doc.Charts()
	require.Len(t, charts, 3)

	got, err := DefaultGrammar.FromFragment(charts[0])
	require.NoError(t, err)
	assert.Equal(t, "Pollution", got.Series[0].Name)

	_, err = DefaultGrammar.FromFragment(charts[1])
	assert.True(t, errors.Is(err, ErrMalformedSummary))

	_, err = DefaultGrammar.FromFragment(charts[2])
	assert.True(t, errors.Is(err, ErrMalformedSummary))
}

func TestDropLast(t *testing.T) {
	assert.Equal(t, "", dropLast(""))
	assert.Equal(t, "", dropLast(","))
	assert.Equal(t, "2019", dropLast("2019:"))
	assert.Equal(t, "Café", dropLast("Café…"))
}
