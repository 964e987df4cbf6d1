// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import "fmt"

// SeriesLayout gives the token positions of one series block.
// Name and Year tokens end with a punctuation character that is dropped.
type SeriesLayout struct {
	High int
	Name int
	Year int
}

// LatestLayout gives the token positions of the end-of-data block.
// Values[i] holds the latest reading of the i-th series. The Year token
// ends with a punctuation character that is dropped.
type LatestLayout struct {
	Year   int
	Values []int
}

// Grammar describes a caption as token positions after splitting on
// Delimiter. Tokens not named by any field are ignored, up to MaxTokens.
type Grammar struct {
	// Delimiter separates caption tokens.
	Delimiter string

	// DescriptionTokens is the number of leading tokens forming the
	// description.
	DescriptionTokens int

	// Series lists the series blocks in caption order.
	Series []SeriesLayout

	// Latest is the end-of-data block.
	Latest LatestLayout
}

// DefaultGrammar matches the two-series captions on the survey page:
//
//	d0 d1 d2 d3 d4 d5 d6 _ high1 name1, year1, high2 name2, year2, year: value1 sep value2
var DefaultGrammar = Grammar{
	Delimiter:         " ",
	DescriptionTokens: 7,
	Series: []SeriesLayout{
		{High: 8, Name: 9, Year: 10},
		{High: 11, Name: 12, Year: 13},
	},
	Latest: LatestLayout{Year: 14, Values: []int{15, 17}},
}

// MinTokens returns the number of tokens a caption needs for every
// position in g to exist.
func (g Grammar) MinTokens() int {
	highest := g.DescriptionTokens - 1
	for _, s := range g.Series {
		highest = max(highest, s.High, s.Name, s.Year)
	}
	highest = max(highest, g.Latest.Year)
	for _, v := range g.Latest.Values {
		highest = max(highest, v)
	}
	return highest + 1
}

// seriesBlockTokens is the number of tokens in one series block.
const seriesBlockTokens = 3

// MaxTokens returns the longest caption g accepts. Fewer trailing tokens
// than a series block are tolerated; a caption with room for another
// series block tracks more series than g describes and is rejected.
func (g Grammar) MaxTokens() int {
	return g.MinTokens() + seriesBlockTokens - 1
}

// Validate checks that g is internally consistent.
func (g Grammar) Validate() error {
	if g.Delimiter == "" {
		return fmt.Errorf("grammar delimiter is empty")
	}
	if g.DescriptionTokens < 0 {
		return fmt.Errorf("grammar description token count is negative")
	}
	if len(g.Series) == 0 {
		return fmt.Errorf("grammar has no series")
	}
	if len(g.Latest.Values) != len(g.Series) {
		return fmt.Errorf("grammar has %d series but %d latest values", len(g.Series), len(g.Latest.Values))
	}
	positions := []int{g.Latest.Year}
	positions = append(positions, g.Latest.Values...)
	for _, s := range g.Series {
		positions = append(positions, s.High, s.Name, s.Year)
	}
	for _, p := range positions {
		if p < 0 {
			return fmt.Errorf("grammar has negative token position %d", p)
		}
	}
	return nil
}
