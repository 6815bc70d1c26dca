// Package extract turns fetched HTML into typed entities using the selector tables.
// Every parse is a pure function of its input; absent fields stay empty.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

// DefaultOrigin is prefixed onto relative hrefs
const DefaultOrigin = "https://www.linkedin.com"

// Engine runs the selector registry against documents
type Engine struct {
	reg    *selectors.Registry
	origin string
}

// NewEngine creates an Engine. An empty origin falls back to DefaultOrigin
func NewEngine(reg *selectors.Registry, origin string) *Engine {
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Engine{reg: reg, origin: strings.TrimRight(origin, "/")}
}

// Origin returns the prefix used for relative hrefs
func (e *Engine) Origin() string { return e.origin }

func (e *Engine) chain(t selectors.Table, field string) selectors.Chain {
	return e.reg.Chain(t, field)
}

func (e *Engine) text(sel *goquery.Selection, t selectors.Table, field string) string {
	text, _ := selectors.Text(sel, e.chain(t, field))
	return text
}

func (e *Engine) allText(sel *goquery.Selection, t selectors.Table, field string) []string {
	return selectors.AllText(sel, e.chain(t, field))
}

func (e *Engine) attr(sel *goquery.Selection, t selectors.Table, field, name string) string {
	val, _ := selectors.Attr(sel, e.chain(t, field), name)
	return val
}

func (e *Engine) href(sel *goquery.Selection, t selectors.Table, field string) string {
	return AbsoluteURL(e.origin, e.attr(sel, t, field, "href"))
}

// items resolves a repeating container and returns each match as its own scope
func (e *Engine) items(sel *goquery.Selection, t selectors.Table, field string) []*goquery.Selection {
	found, err := selectors.Resolve(sel, e.chain(t, field))
	if err != nil {
		return nil
	}
	out := make([]*goquery.Selection, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

func parseDocument(html string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, utils.WrapErrorf(utils.ErrParsing, "HTML: %v", err)
	}
	return doc.Selection, nil
}

func intPtr(v int) *int { return &v }
