// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary parses line-chart captions into GraphSummary records.
//
// A caption is the chart image's alt text: a fixed description, a block
// per tracked series with its peak value and year, and the readings of
// every series in the latest year. Series names are read from the caption,
// so the keys of the published record depend on the data.
//
// Captions that track a third series are not described by DefaultGrammar
// and fail with ErrMalformedSummary.
package summary

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// ErrMalformedSummary reports a caption that does not fit the grammar, or
// a chart without a caption.
var ErrMalformedSummary = errors.New("malformed chart summary")

// CaptionAttr is the image attribute holding the caption.
const CaptionAttr = "alt"

// Parse parses caption with DefaultGrammar.
func Parse(caption string) (types.GraphSummary, error) {
	return DefaultGrammar.Parse(caption)
}

// Parse parses caption according to g.
func (g Grammar) Parse(caption string) (types.GraphSummary, error) {
	if err := g.Validate(); err != nil {
		return types.GraphSummary{}, err
	}

	tokens := strings.Split(caption, g.Delimiter)
	if need := g.MinTokens(); len(tokens) < need {
		return types.GraphSummary{}, fmt.Errorf("%w: caption has %d tokens, need at least %d", ErrMalformedSummary, len(tokens), need)
	}
	if limit := g.MaxTokens(); len(tokens) > limit {
		return types.GraphSummary{}, fmt.Errorf("%w: caption has %d tokens, at most %d fit %d series", ErrMalformedSummary, len(tokens), limit, len(g.Series))
	}

	sum := types.GraphSummary{
		Description: strings.Join(tokens[:g.DescriptionTokens], g.Delimiter),
		Series:      make([]types.SeriesPeak, len(g.Series)),
		Latest: types.LatestData{
			Year:   dropLast(tokens[g.Latest.Year]),
			Values: make([]types.SeriesValue, len(g.Series)),
		},
	}
	for i, s := range g.Series {
		name := dropLast(tokens[s.Name])
		sum.Series[i] = types.SeriesPeak{
			Name: name,
			High: tokens[s.High],
			Year: dropLast(tokens[s.Year]),
		}
		sum.Latest.Values[i] = types.SeriesValue{
			Name:  name,
			Value: tokens[g.Latest.Values[i]],
		}
	}
	return sum, nil
}

// FromFragment parses the caption of a chart fragment with g. The caption
// is the alt attribute of the chart's first image.
func (g Grammar) FromFragment(chart fragment.Fragment) (types.GraphSummary, error) {
	img, ok := fragment.First(chart, "img")
	if !ok {
		return types.GraphSummary{}, fmt.Errorf("%w: chart has no image", ErrMalformedSummary)
	}
	caption, ok := img.Attr(CaptionAttr)
	if !ok {
		return types.GraphSummary{}, fmt.Errorf("%w: chart image has no %s text", ErrMalformedSummary, CaptionAttr)
	}
	return g.Parse(caption)
}

// dropLast removes the trailing punctuation character from a token.
func dropLast(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
