// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fragment exposes parsed HTML elements through the small query
// surface the extractors need: read an attribute, read text, and find
// descendants by tag and attribute. Parsing uses golang.org/x/net/html and
// queries run through goquery.
package fragment

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Fragment is a read-only view of one element in a parsed page.
type Fragment interface {
	// Name returns the element's tag name.
	Name() string

	// Attr returns the named attribute and whether it is present.
	Attr(name string) (string, bool)

	// Text returns the concatenated text of the element and its
	// descendants exactly as it appears in the markup.
	Text() string

	// TrimmedText returns Text with surrounding whitespace removed.
	TrimmedText() string

	// FindAll returns descendants with the given tag that match every
	// filter, in document order.
	FindAll(tag string, filters ...Filter) []Fragment
}

// Filter restricts FindAll to elements whose attribute Key has Value.
// The class attribute matches when Value is one of its space-separated
// classes.
type Filter struct {
	Key   string
	Value string
}

// By returns a Filter for attribute key with value.
func By(key, value string) Filter {
	return Filter{Key: key, Value: value}
}

// First returns the first descendant of f matching tag and filters.
func First(f Fragment, tag string, filters ...Filter) (Fragment, bool) {
	found := f.FindAll(tag, filters...)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// Selector builds the CSS selector FindAll uses for tag and filters.
func Selector(tag string, filters ...Filter) string {
	var b strings.Builder
	b.WriteString(tag)
	for _, f := range filters {
		value := strings.ReplaceAll(f.Value, `"`, `\"`)
		if f.Key == "class" {
			fmt.Fprintf(&b, `[class~="%s"]`, value)
			continue
		}
		fmt.Fprintf(&b, `[%s="%s"]`, f.Key, value)
	}
	return b.String()
}

// element adapts a single-node goquery selection to Fragment.
type element struct {
	sel *goquery.Selection
}

// Wrap returns one Fragment per node in sel.
func Wrap(sel *goquery.Selection) []Fragment {
	out := make([]Fragment, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out
}

func (e element) Name() string {
	return goquery.NodeName(e.sel)
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e element) Text() string {
	return e.sel.Text()
}

func (e element) TrimmedText() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e element) FindAll(tag string, filters ...Filter) []Fragment {
	return Wrap(e.sel.Find(Selector(tag, filters...)))
}

// Document is a parsed page.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from HTML read from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseString builds a Document from an HTML string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// FindAll returns elements anywhere in the page matching tag and filters.
func (d *Document) FindAll(tag string, filters ...Filter) []Fragment {
	return Wrap(d.doc.Find(Selector(tag, filters...)))
}
