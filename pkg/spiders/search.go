package spiders

import (
	"net/url"

	"github.com/Sriram-PR/linkedin-scraper/pkg/crawler"
	"github.com/Sriram-PR/linkedin-scraper/pkg/extract"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

const peopleSearchPath = "/search/results/people/"

// PeopleSearchOptions configure a people search crawl
type PeopleSearchOptions struct {
	Keywords string
	Location string // sent as the geoUrn filter
	Details  int    // follow the first Details hits to their profiles, emit the rest as cards
}

// PeopleSearch crawls the signed-in people search results page
type PeopleSearch struct {
	engine *extract.Engine
	opts   PeopleSearchOptions
}

func NewPeopleSearch(engine *extract.Engine, opts PeopleSearchOptions) *PeopleSearch {
	return &PeopleSearch{engine: engine, opts: opts}
}

func (p *PeopleSearch) Name() string { return NamePeopleSearch }

func (p *PeopleSearch) Seeds() []models.Target {
	q := url.Values{}
	q.Set("keywords", p.opts.Keywords)
	if p.opts.Location != "" {
		q.Set("geoUrn", p.opts.Location)
	}
	return []models.Target{models.NewTarget(withQuery(p.engine.Origin(), peopleSearchPath, q))}
}

func (p *PeopleSearch) Parse(resp crawler.Response) ([]any, []models.Target, error) {
	if resp.Target.Get(models.MetaKind) == kindProfile {
		person, err := p.engine.ParsePerson(resp.Body, sourceURL(resp.Target))
		if err != nil {
			return nil, nil, err
		}
		return []any{person}, nil, nil
	}

	cards, err := p.engine.ParsePersonCards(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var items []any
	var follow []models.Target
	for i := range cards {
		if i < p.opts.Details && cards[i].LinkedInURL != "" {
			follow = append(follow, detailTarget(resp.Target, kindProfile, cards[i].LinkedInURL, cards[i]))
			continue
		}
		items = append(items, &cards[i])
	}
	return items, follow, nil
}

// Fallback emits the search card of a profile that could not be fetched or parsed
func (p *PeopleSearch) Fallback(target models.Target, _ error) []any {
	if target.Get(models.MetaKind) != kindProfile {
		return nil
	}
	return cardFallback[models.PersonCard](target)
}
