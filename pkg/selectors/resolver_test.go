package selectors

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

func mustDoc(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc.Selection
}

func mustCompile(t *testing.T, field string, patterns ...string) Chain {
	t.Helper()
	c, err := Compile(field, patterns...)
	require.NoError(t, err)
	return c
}

func TestResolve_FallsBackToLaterCandidate(t *testing.T) {
	doc := mustDoc(t, `<html><body><h2 class="b">Second layout</h2></body></html>`)
	chain := mustCompile(t, "name", "h1.a", "h2.b")

	found, err := Resolve(doc, chain)
	require.NoError(t, err)
	assert.Equal(t, "Second layout", found.Text())
}

func TestResolve_PrefersEarlierCandidate(t *testing.T) {
	doc := mustDoc(t, `<div><p class="new">new</p><p class="old">old</p></div>`)
	chain := mustCompile(t, "field", "p.new", "p.old")

	text, ok := Text(doc, chain)
	require.True(t, ok)
	assert.Equal(t, "new", text)
}

func TestResolve_NoMatch(t *testing.T) {
	doc := mustDoc(t, `<div></div>`)
	chain := mustCompile(t, "field", "span.missing", "em.missing")

	_, err := Resolve(doc, chain)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.ErrorIs(t, err, utils.ErrSelectorExhausted)
	assert.Contains(t, err.Error(), "field")
}

func TestResolve_NilSelectionAndEmptyChain(t *testing.T) {
	_, err := Resolve(nil, mustCompile(t, "f", "div"))
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = Resolve(mustDoc(t, "<div></div>"), Chain{Field: "empty"})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestText_JoinsDescendantsWithSingleSpaces(t *testing.T) {
	doc := mustDoc(t, `<h1 class="n">  <span>Jane</span><span>
		Doe </span><!-- hidden --><script>x()</script></h1>`)

	text, ok := Text(doc, mustCompile(t, "name", "h1.n"))
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", text)
}

func TestText_EmptyIsAbsent(t *testing.T) {
	doc := mustDoc(t, `<h1 class="n">   </h1>`)

	text, ok := Text(doc, mustCompile(t, "name", "h1.n"))
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestAllText_UsesFirstWorkingCandidateAndDropsEmpty(t *testing.T) {
	doc := mustDoc(t, `<ul>
		<li class="b">one</li><li class="b"> </li><li class="b">two</li>
		<li class="c">ignored</li>
	</ul>`)

	got := AllText(doc, mustCompile(t, "items", "li.a", "li.b", "li.c"))
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestAllText_NoMatch(t *testing.T) {
	assert.Nil(t, AllText(mustDoc(t, "<p></p>"), mustCompile(t, "items", "li")))
}

func TestAttr(t *testing.T) {
	doc := mustDoc(t, `<div><a class="x" href="/company/acme/">Acme</a><a class="x" href="/other">Other</a></div>`)

	href, ok := Attr(doc, mustCompile(t, "link", "a.missing", "a.x"), "href")
	require.True(t, ok)
	assert.Equal(t, "/company/acme/", href)

	_, ok = Attr(doc, mustCompile(t, "link", "a.x"), "data-none")
	assert.False(t, ok)
}

func TestResolve_ScopedToSubtree(t *testing.T) {
	doc := mustDoc(t, `<ul>
		<li class="item"><span class="t">first</span></li>
		<li class="item"></li>
	</ul>`)

	items, err := Resolve(doc, mustCompile(t, "items", "li.item"))
	require.NoError(t, err)
	require.Equal(t, 2, items.Length())

	_, ok := Text(items.Eq(1), mustCompile(t, "t", "span.t"))
	assert.False(t, ok, "second item has no title and must not see the first item's")
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
	}{
		{"unbalanced bracket", []string{"div", "a[href"}},
		{"bad pseudo", []string{"li:nope-such-thing"}},
		{"empty", []string{"  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("field", tt.patterns...)
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrSelectorInvalid)
		})
	}
}

func TestChain_Patterns(t *testing.T) {
	c := mustCompile(t, "f", " h1 ", "h2")
	assert.Equal(t, []string{"h1", "h2"}, c.Patterns())
	assert.Equal(t, 2, c.Len())
}
