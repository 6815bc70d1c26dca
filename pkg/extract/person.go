package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
)

var person = selectors.PersonTable

// ParsePerson extracts a profile page. Both the signed-in and the public layouts are handled.
func (e *Engine) ParsePerson(html, linkedinURL string) (*models.Person, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	p := &models.Person{LinkedInURL: linkedinURL}
	p.Name = e.text(doc, person, selectors.FieldName)
	p.Headline = e.text(doc, person, selectors.FieldHeadline)
	p.About = e.text(doc, person, selectors.FieldAbout)
	p.OpenToWork = selectors.Exists(doc, e.chain(person, selectors.PersonOpenToWork))

	location := e.text(doc, person, selectors.FieldLocation)
	for _, item := range e.allText(doc, person, selectors.PersonSublineItems) {
		switch {
		case strings.Contains(item, "followers"):
			p.Followers = strings.TrimSpace(strings.Replace(item, "followers", "", 1))
		case strings.Contains(item, "connections"):
			p.Connections = strings.TrimSpace(strings.Replace(item, "connections", "", 1))
		case location == "":
			location = item
		}
	}
	if !strings.Contains(location, "followers") && !strings.Contains(location, "connections") {
		p.Location = location
	}

	p.Experiences = e.experiences(doc)
	p.Educations = e.educations(doc)
	p.Interests = e.allText(doc, person, selectors.PersonInterests)
	p.Accomplishments = e.allText(doc, person, selectors.PersonAccomplishments)
	return p, nil
}

func (e *Engine) experiences(doc *goquery.Selection) []models.Experience {
	sections := e.items(doc, person, selectors.PersonExperienceList)
	if len(sections) == 0 {
		return nil
	}

	var out []models.Experience
	for _, item := range e.items(sections[0], person, selectors.PersonExperienceItems) {
		exp := models.Experience{
			Title:       e.text(item, person, selectors.FieldTitle),
			Company:     e.text(item, person, selectors.FieldCompany),
			Description: e.text(item, person, selectors.FieldDescription),
		}
		if href := e.attr(item, person, selectors.FieldCompanyLink, "href"); href != "" {
			exp.CompanyLinkedInURL = ProfileURL(e.origin, href)
		}

		if dates := e.allText(item, person, selectors.PersonExperienceDates); len(dates) > 0 {
			exp.FromDate, exp.ToDate = dateBounds(dates)
			exp.Duration = e.text(item, person, selectors.PersonExperienceSpan)
		} else if info := e.allText(item, person, selectors.PersonExperienceInfo); len(info) > 0 {
			dr := ParseDuration(info[0])
			exp.FromDate, exp.ToDate, exp.Duration = dr.From, dr.To, dr.Duration
			if len(info) > 1 {
				exp.Location = info[len(info)-1]
			}
		}
		if loc := e.text(item, person, selectors.PersonExperienceWhere); loc != "" {
			exp.Location = loc
		}

		if exp == (models.Experience{}) {
			continue
		}
		out = append(out, exp)
	}
	return out
}

func (e *Engine) educations(doc *goquery.Selection) []models.Education {
	sections := e.items(doc, person, selectors.PersonEducationList)
	if len(sections) == 0 {
		return nil
	}

	var out []models.Education
	for _, item := range e.items(sections[0], person, selectors.PersonEducationItems) {
		edu := models.Education{
			School:      e.text(item, person, selectors.PersonEducationSchool),
			Description: e.text(item, person, selectors.PersonEducationNotes),
		}
		edu.Degree, edu.FieldOfStudy = splitDegree(e.allText(item, person, selectors.PersonEducationDegree))
		if href := e.attr(item, person, selectors.PersonEducationLink, "href"); href != "" {
			edu.SchoolLinkedInURL = ProfileURL(e.origin, href)
		}

		if dates := e.allText(item, person, selectors.PersonEducationDates); len(dates) > 0 {
			edu.FromDate, edu.ToDate = dateBounds(dates)
		} else if info := e.allText(item, person, selectors.PersonEducationInfo); len(info) > 0 {
			dr := ParseDuration(info[0])
			edu.FromDate, edu.ToDate = dr.From, dr.To
		}

		if edu == (models.Education{}) {
			continue
		}
		out = append(out, edu)
	}
	return out
}

// dateBounds reads the <time> pair of the public layout; a single date means the role is current
func dateBounds(dates []string) (from, to string) {
	from = dates[0]
	if len(dates) > 1 {
		return from, dates[1]
	}
	return from, "Present"
}
