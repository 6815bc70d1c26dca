package models

import "maps"

// Meta keys used to correlate a response back to crawl context
const (
	MetaFirstJobOnPage = "first_job_on_page"
	MetaCompanyIndex   = "company_index"
	MetaProfile        = "profile"
	MetaLinkedInURL    = "linkedin_url"
	MetaKind           = "kind"
	MetaCard           = "card" // JSON of the search card a detail target was derived from
)

// Target is one crawl unit: a URL plus annotations. Treat it as immutable
type Target struct {
	URL   string
	Meta  map[string]string
	Depth int // 0 for seeds, parent depth + 1 for follow-ups
}

// NewTarget creates a seed target
func NewTarget(url string) Target {
	return Target{URL: url}
}

// WithMeta returns a copy of t carrying key=value
func (t Target) WithMeta(key, value string) Target {
	meta := make(map[string]string, len(t.Meta)+1)
	maps.Copy(meta, t.Meta)
	meta[key] = value
	t.Meta = meta
	return t
}

// Get returns a meta value, or "" when absent
func (t Target) Get(key string) string {
	return t.Meta[key]
}

// FollowUp derives a target one level deeper than t
func (t Target) FollowUp(url string) Target {
	return Target{URL: url, Depth: t.Depth + 1}
}
