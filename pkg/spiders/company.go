package spiders

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Sriram-PR/linkedin-scraper/pkg/crawler"
	"github.com/Sriram-PR/linkedin-scraper/pkg/extract"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

// Company crawls company pages and, optionally, each company's /people page
type Company struct {
	engine    *extract.Engine
	urls      []string
	employees bool
}

func NewCompany(engine *extract.Engine, urls []string, employees bool) *Company {
	return &Company{engine: engine, urls: urls, employees: employees}
}

func (c *Company) Name() string { return NameCompany }

func (c *Company) Seeds() []models.Target {
	seeds := urlTargets(c.urls)
	for i := range seeds {
		seeds[i] = seeds[i].WithMeta(models.MetaCompanyIndex, strconv.Itoa(i))
	}
	return seeds
}

func (c *Company) Parse(resp crawler.Response) ([]any, []models.Target, error) {
	companyURL := sourceURL(resp.Target)

	if resp.Target.Get(models.MetaKind) == kindEmployees {
		employees, err := c.engine.ParseEmployees(resp.Body)
		if err != nil {
			return nil, nil, err
		}
		if len(employees) == 0 {
			return nil, nil, nil
		}
		return []any{&models.CompanyEmployees{CompanyLinkedInURL: companyURL, Employees: employees}}, nil, nil
	}

	company, err := c.engine.ParseCompany(resp.Body, companyURL)
	if err != nil {
		return nil, nil, err
	}

	var follow []models.Target
	if c.employees {
		peopleURL, err := employeesURL(resp.Target.URL)
		if err != nil {
			return nil, nil, err
		}
		follow = append(follow, resp.Target.FollowUp(peopleURL).
			WithMeta(models.MetaKind, kindEmployees).
			WithMeta(models.MetaLinkedInURL, companyURL))
	}
	return []any{company}, follow, nil
}

// employeesURL is the company's /people/ page, without the query or fragment of the company URL
func employeesURL(companyURL string) (string, error) {
	u, err := url.Parse(companyURL)
	if err != nil {
		return "", utils.WrapErrorf(utils.ErrParsing, "company url %q: %v", companyURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/people/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
