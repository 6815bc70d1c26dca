// Package spiders holds the crawl tasks: what each one seeds and how its pages become
// entities and follow-up targets.
package spiders

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Sriram-PR/linkedin-scraper/pkg/crawler"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

// Task names, also used as sink file prefixes
const (
	NamePerson        = "linkedin_person"
	NamePeopleProfile = "linkedin_people_profile"
	NameCompany       = "linkedin_company"
	NameJobs          = "linkedin_jobs"
	NameJob           = "linkedin_job"
	NamePeopleSearch  = "linkedin_people_search"
)

// Values of models.MetaKind telling Parse which page type a follow-up is
const (
	kindProfile   = "profile"
	kindEmployees = "employees"
	kindJob       = "job"
)

// urlTargets turns user-supplied URLs into seeds, skipping blanks
func urlTargets(urls []string) []models.Target {
	out := make([]models.Target, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, models.NewTarget(u).WithMeta(models.MetaLinkedInURL, u))
	}
	return out
}

// sourceURL is the entity URL for a target: the seed URL recorded in meta, else the fetched URL
func sourceURL(t models.Target) string {
	if u := t.Get(models.MetaLinkedInURL); u != "" {
		return u
	}
	return t.URL
}

// detailTarget follows a search card to its detail page, keeping the card for cardFallback
func detailTarget(parent models.Target, kind, linkedinURL string, card any) models.Target {
	t := parent.FollowUp(linkedinURL).
		WithMeta(models.MetaKind, kind).
		WithMeta(models.MetaLinkedInURL, linkedinURL)
	if b, err := json.Marshal(card); err == nil {
		t = t.WithMeta(models.MetaCard, string(b))
	}
	return t
}

// cardFallback decodes the card a failed detail target carries
func cardFallback[T any](t models.Target) []any {
	raw := t.Get(models.MetaCard)
	if raw == "" {
		return nil
	}
	card := new(T)
	if err := json.Unmarshal([]byte(raw), card); err != nil {
		return nil
	}
	return []any{card}
}

func withQuery(origin, path string, q url.Values) string {
	return strings.TrimRight(origin, "/") + path + "?" + q.Encode()
}

var (
	_ crawler.Task = (*Person)(nil)
	_ crawler.Task = (*PeopleProfile)(nil)
	_ crawler.Task = (*Company)(nil)
	_ crawler.Task = (*Jobs)(nil)
	_ crawler.Task = (*Job)(nil)
	_ crawler.Task = (*PeopleSearch)(nil)

	_ crawler.Fallback = (*Jobs)(nil)
	_ crawler.Fallback = (*PeopleSearch)(nil)
)
