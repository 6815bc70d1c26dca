package spiders

import (
	"net/url"
	"strings"

	"github.com/Sriram-PR/linkedin-scraper/pkg/crawler"
	"github.com/Sriram-PR/linkedin-scraper/pkg/extract"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

// Person crawls profile pages given by URL
type Person struct {
	engine *extract.Engine
	urls   []string
}

func NewPerson(engine *extract.Engine, urls []string) *Person {
	return &Person{engine: engine, urls: urls}
}

func (p *Person) Name() string { return NamePerson }

func (p *Person) Seeds() []models.Target { return urlTargets(p.urls) }

func (p *Person) Parse(resp crawler.Response) ([]any, []models.Target, error) {
	person, err := p.engine.ParsePerson(resp.Body, sourceURL(resp.Target))
	if err != nil {
		return nil, nil, err
	}
	return []any{person}, nil, nil
}

// PeopleProfile crawls public profiles given by profile id, e.g. "jane-doe-123"
type PeopleProfile struct {
	engine *extract.Engine
	ids    []string
}

func NewPeopleProfile(engine *extract.Engine, ids []string) *PeopleProfile {
	return &PeopleProfile{engine: engine, ids: ids}
}

func (p *PeopleProfile) Name() string { return NamePeopleProfile }

func (p *PeopleProfile) Seeds() []models.Target {
	out := make([]models.Target, 0, len(p.ids))
	for _, id := range p.ids {
		id = strings.Trim(strings.TrimSpace(id), "/")
		if id == "" {
			continue
		}
		profileURL := p.engine.Origin() + "/in/" + url.PathEscape(id) + "/"
		out = append(out, models.NewTarget(profileURL).
			WithMeta(models.MetaProfile, id).
			WithMeta(models.MetaLinkedInURL, profileURL))
	}
	return out
}

func (p *PeopleProfile) Parse(resp crawler.Response) ([]any, []models.Target, error) {
	person, err := p.engine.ParsePerson(resp.Body, sourceURL(resp.Target))
	if err != nil {
		return nil, nil, err
	}
	person.Profile = resp.Target.Get(models.MetaProfile)
	return []any{person}, nil, nil
}
