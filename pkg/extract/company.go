package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
)

var (
	company   = selectors.CompanyTable
	employees = selectors.EmployeeTable
)

// Positions of facts in the public company page's detail list
const (
	detailIndustry = 1
	detailSize     = 2
	detailFounded  = 5
)

// ParseCompany extracts a company page, including any employee cards shown on it
func (e *Engine) ParseCompany(html, linkedinURL string) (*models.Company, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	c := &models.Company{LinkedInURL: linkedinURL}
	c.Name = e.text(doc, company, selectors.FieldName)
	c.About = e.text(doc, company, selectors.FieldAbout)
	c.Website = e.attr(doc, company, selectors.CompanyWebsite, "href")
	c.Phone = e.text(doc, company, selectors.CompanyPhone)
	c.Headquarters = e.text(doc, company, selectors.CompanyHeadquarters)
	c.Industry = e.text(doc, company, selectors.CompanyIndustry)
	c.CompanyType = e.text(doc, company, selectors.CompanyType)
	c.CompanySize = e.text(doc, company, selectors.CompanySize)
	c.Specialties = e.allText(doc, company, selectors.CompanySpecialties)

	founded := e.text(doc, company, selectors.CompanyFounded)

	// Public layout only exposes an unlabeled detail list
	details := e.items(doc, company, selectors.CompanyDetails)
	if c.Industry == "" {
		c.Industry = e.detail(details, detailIndustry)
	}
	if c.CompanySize == "" {
		c.CompanySize = e.detail(details, detailSize)
	}
	if founded == "" {
		founded = e.detail(details, detailFounded)
	}
	if year, ok := FoundedYear(founded); ok {
		c.Founded = intPtr(year)
	}

	if followers := e.text(doc, company, selectors.CompanyFollowers); followers != "" {
		if n, ok := FirstNumber(followers); ok {
			c.FollowerCount = intPtr(n)
		}
	}

	c.Employees = e.employees(doc)
	return c, nil
}

// ParseEmployees extracts the people cards of a company's /people page
func (e *Engine) ParseEmployees(html string) ([]models.Employee, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return e.employees(doc), nil
}

func (e *Engine) employees(doc *goquery.Selection) []models.Employee {
	var out []models.Employee
	for _, card := range e.items(doc, employees, selectors.FieldCards) {
		name := e.text(card, employees, selectors.FieldName)
		if name == "" {
			continue
		}
		emp := models.Employee{
			Name:  name,
			Title: e.text(card, employees, selectors.FieldTitle),
		}
		if href := e.attr(card, employees, selectors.FieldLink, "href"); href != "" {
			emp.LinkedInURL = ProfileURL(e.origin, href)
		}
		out = append(out, emp)
	}
	return out
}

// detail returns the value text (second .text-md) of the idx-th detail entry
func (e *Engine) detail(details []*goquery.Selection, idx int) string {
	if idx >= len(details) {
		return ""
	}
	texts := e.allText(details[idx], company, selectors.CompanyDetailText)
	if len(texts) < 2 {
		return ""
	}
	return texts[1]
}
