package models

import "time"

// Person is a member profile. LinkedInURL is the canonical source and is always set
type Person struct {
	LinkedInURL     string       `json:"linkedin_url"`
	Profile         string       `json:"profile,omitempty"` // Public profile id, when seeded by id
	Name            string       `json:"name,omitempty"`
	Headline        string       `json:"headline,omitempty"`
	Location        string       `json:"location,omitempty"`
	About           string       `json:"about,omitempty"`
	Followers       string       `json:"followers,omitempty"`
	Connections     string       `json:"connections,omitempty"`
	OpenToWork      bool         `json:"open_to_work"`
	Experiences     []Experience `json:"experiences,omitempty"`
	Educations      []Education  `json:"educations,omitempty"`
	Interests       []string     `json:"interests,omitempty"`
	Accomplishments []string     `json:"accomplishments,omitempty"`
}

// Experience is one position on a profile
type Experience struct {
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	CompanyLinkedInURL string `json:"company_linkedin_url,omitempty"`
	Location           string `json:"location,omitempty"`
	FromDate           string `json:"from_date,omitempty"`
	ToDate             string `json:"to_date,omitempty"`
	Duration           string `json:"duration,omitempty"`
	Description        string `json:"description,omitempty"`
}

// Education is one school entry on a profile
type Education struct {
	School            string `json:"school,omitempty"`
	SchoolLinkedInURL string `json:"school_linkedin_url,omitempty"`
	Degree            string `json:"degree,omitempty"`
	FieldOfStudy      string `json:"field_of_study,omitempty"`
	FromDate          string `json:"from_date,omitempty"`
	ToDate            string `json:"to_date,omitempty"`
	Description       string `json:"description,omitempty"`
}

// Company is an organisation page
type Company struct {
	LinkedInURL   string     `json:"linkedin_url"`
	Name          string     `json:"name,omitempty"`
	About         string     `json:"about,omitempty"`
	Website       string     `json:"website,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Headquarters  string     `json:"headquarters,omitempty"`
	Founded       *int       `json:"founded,omitempty"`
	Industry      string     `json:"industry,omitempty"`
	CompanyType   string     `json:"company_type,omitempty"`
	CompanySize   string     `json:"company_size,omitempty"`
	Specialties   []string   `json:"specialties,omitempty"`
	Employees     []Employee `json:"employees,omitempty"`
	FollowerCount *int       `json:"follower_count,omitempty"`
}

// Employee is a people card on a company page. Name is required
type Employee struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// CompanyEmployees groups the people cards scraped from a company's /people page
type CompanyEmployees struct {
	CompanyLinkedInURL string     `json:"company_linkedin_url"`
	Employees          []Employee `json:"employees"`
}

// Job is a job posting, either a full detail page or a search card
type Job struct {
	LinkedInURL        string `json:"linkedin_url"`
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	CompanyLinkedInURL string `json:"company_linkedin_url,omitempty"`
	Location           string `json:"location,omitempty"`
	PostedDate         string `json:"posted_date,omitempty"`
	ApplicantCount     *int   `json:"applicant_count,omitempty"`
	Description        string `json:"description,omitempty"`
	Benefits           string `json:"benefits,omitempty"`
	EmploymentType     string `json:"employment_type,omitempty"`
	SeniorityLevel     string `json:"seniority_level,omitempty"`
}

// PersonCard is a people-search hit
type PersonCard struct {
	LinkedInURL string `json:"linkedin_url"`
	Name        string `json:"name,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Location    string `json:"location,omitempty"`
}

// TargetDBEntry stores the outcome of a crawl target in the state database
type TargetDBEntry struct {
	URL         string            `json:"url"`
	Meta        map[string]string `json:"meta,omitempty"`
	Status      TargetStatus      `json:"status"`
	ErrorType   string            `json:"error_type,omitempty"`   // Error category (on failure)
	Items       int               `json:"items,omitempty"`        // Items produced (on success)
	ProcessedAt time.Time         `json:"processed_at,omitempty"` // Timestamp of successful processing
	LastAttempt time.Time         `json:"last_attempt"`
	Depth       int               `json:"depth"`
}
