package selectors

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

// ErrNoMatch is returned by Resolve when no candidate yields a node
var ErrNoMatch = utils.ErrSelectorExhausted

// Chain is an ordered list of pre-compiled candidate selectors for one field.
// Earlier candidates win; later ones cover older or guest layouts.
type Chain struct {
	Field    string
	patterns []string
	compiled []cascadia.Selector
}

// Compile builds a Chain, failing with ErrSelectorInvalid on the first malformed pattern
func Compile(field string, patterns ...string) (Chain, error) {
	c := Chain{
		Field:    field,
		patterns: make([]string, 0, len(patterns)),
		compiled: make([]cascadia.Selector, 0, len(patterns)),
	}
	for i, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			return Chain{}, utils.WrapErrorf(utils.ErrSelectorInvalid, "%s: candidate #%d is empty", field, i+1)
		}
		sel, err := cascadia.Compile(p)
		if err != nil {
			return Chain{}, utils.WrapErrorf(utils.ErrSelectorInvalid, "%s: candidate #%d (%q): %v", field, i+1, p, err)
		}
		c.patterns = append(c.patterns, p)
		c.compiled = append(c.compiled, sel)
	}
	return c, nil
}

// Patterns returns the source strings in priority order
func (c Chain) Patterns() []string {
	return append([]string(nil), c.patterns...)
}

// Len returns the number of candidates
func (c Chain) Len() int { return len(c.compiled) }

// Resolve returns the matches of the first candidate that yields at least one node within sel
func Resolve(sel *goquery.Selection, c Chain) (*goquery.Selection, error) {
	if sel != nil {
		for _, candidate := range c.compiled {
			if found := sel.FindMatcher(candidate); found.Length() > 0 {
				return found, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMatch, c.Field)
}

// Text returns the first match's descendant text, joined with single spaces.
// Empty text counts as absent.
func Text(sel *goquery.Selection, c Chain) (string, bool) {
	found, err := Resolve(sel, c)
	if err != nil {
		return "", false
	}
	text := NodeText(found.First())
	return text, text != ""
}

// AllText returns the normalized text of every node matched by the first working candidate, dropping empty entries
func AllText(sel *goquery.Selection, c Chain) []string {
	found, err := Resolve(sel, c)
	if err != nil {
		return nil
	}
	var out []string
	found.Each(func(_ int, s *goquery.Selection) {
		if text := NodeText(s); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// Attr returns the named attribute of the first matching node
func Attr(sel *goquery.Selection, c Chain, name string) (string, bool) {
	found, err := Resolve(sel, c)
	if err != nil {
		return "", false
	}
	val, ok := found.First().Attr(name)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

// Exists reports whether any candidate matches
func Exists(sel *goquery.Selection, c Chain) bool {
	_, err := Resolve(sel, c)
	return err == nil
}

// NodeText joins all descendant text nodes of the selection with single spaces
func NodeText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, strings.Fields(n.Data)...)
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
