package extract

import (
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
)

var (
	job          = selectors.JobTable
	jobSearch    = selectors.JobSearchTable
	personSearch = selectors.PersonSearchTable
)

// ParseJob extracts a job detail page
func (e *Engine) ParseJob(html, linkedinURL string) (*models.Job, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	j := &models.Job{LinkedInURL: linkedinURL}
	j.Title = e.text(doc, job, selectors.FieldTitle)
	j.Company = e.text(doc, job, selectors.FieldCompany)
	j.Location = e.text(doc, job, selectors.FieldLocation)
	j.Description = e.text(doc, job, selectors.FieldDescription)
	j.PostedDate = e.text(doc, job, selectors.FieldPostedDate)
	j.Benefits = e.text(doc, job, selectors.JobBenefits)
	if href := e.attr(doc, job, selectors.FieldCompanyLink, "href"); href != "" {
		j.CompanyLinkedInURL = ProfileURL(e.origin, href)
	}

	if applicants := e.text(doc, job, selectors.JobApplicantCount); applicants != "" {
		if n, ok := FirstNumber(applicants); ok {
			j.ApplicantCount = intPtr(n)
		}
	}

	insights := e.allText(doc, job, selectors.JobInsights)
	j.EmploymentType = findKeyword(insights, employmentTypes)
	j.SeniorityLevel = findKeyword(insights, seniorityLevels)
	return j, nil
}

// ParseJobCards extracts job-search cards. Cards without a job link are skipped.
func (e *Engine) ParseJobCards(html string) ([]models.Job, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var out []models.Job
	for _, card := range e.items(doc, jobSearch, selectors.FieldCards) {
		href := e.attr(card, jobSearch, selectors.FieldLink, "href")
		if href == "" {
			continue
		}
		j := models.Job{
			LinkedInURL: ProfileURL(e.origin, href),
			Title:       e.text(card, jobSearch, selectors.FieldTitle),
			Company:     e.text(card, jobSearch, selectors.FieldCompany),
			Location:    e.text(card, jobSearch, selectors.FieldLocation),
			PostedDate:  e.text(card, jobSearch, selectors.FieldPostedDate),
		}
		if link := e.attr(card, jobSearch, selectors.FieldCompanyLink, "href"); link != "" {
			j.CompanyLinkedInURL = ProfileURL(e.origin, link)
		}
		out = append(out, j)
	}
	return out, nil
}

// ParsePersonCards extracts people-search results
func (e *Engine) ParsePersonCards(html string) ([]models.PersonCard, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var out []models.PersonCard
	for _, card := range e.items(doc, personSearch, selectors.FieldCards) {
		href := e.attr(card, personSearch, selectors.FieldLink, "href")
		if href == "" {
			continue
		}
		out = append(out, models.PersonCard{
			LinkedInURL: ProfileURL(e.origin, href),
			Name:        e.text(card, personSearch, selectors.FieldName),
			Headline:    e.text(card, personSearch, selectors.FieldHeadline),
			Location:    e.text(card, personSearch, selectors.FieldLocation),
		})
	}
	return out, nil
}
