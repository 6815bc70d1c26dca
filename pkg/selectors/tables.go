package selectors

// Table is a static field -> candidate-pattern map for one entity kind.
// Candidates are listed newest layout first, guest (logged-out) layout last.
type Table struct {
	Name   string
	Fields map[string][]string
}

// Field names shared across tables
const (
	FieldName        = "name"
	FieldHeadline    = "headline"
	FieldLocation    = "location"
	FieldAbout       = "about"
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldLink        = "link"
	FieldCompanyLink = "company_link"
	FieldDescription = "description"
	FieldPostedDate  = "posted_date"
	FieldCards       = "cards"
)

// Person profile fields
const (
	PersonSublineItems    = "subline_items"
	PersonOpenToWork      = "open_to_work"
	PersonExperienceList  = "experience_section"
	PersonExperienceItems = "experience_items"
	PersonExperienceInfo  = "experience_info"
	PersonExperienceDates = "experience_dates"
	PersonExperienceSpan  = "experience_duration"
	PersonExperienceWhere = "experience_location"
	PersonEducationList   = "education_section"
	PersonEducationItems  = "education_items"
	PersonEducationSchool = "education_school"
	PersonEducationLink   = "education_link"
	PersonEducationDegree = "education_degree"
	PersonEducationInfo   = "education_info"
	PersonEducationDates  = "education_dates"
	PersonInterests       = "interests"
	PersonAccomplishments = "accomplishments"
	PersonEducationNotes  = "education_notes"
)

// Company page fields
const (
	CompanyWebsite       = "website"
	CompanyHeadquarters  = "headquarters"
	CompanyFounded       = "founded"
	CompanySize          = "company_size"
	CompanyIndustry      = "industry"
	CompanyType          = "company_type"
	CompanyPhone         = "phone"
	CompanyFollowers     = "followers"
	CompanySpecialties   = "specialties"
	CompanyDetails       = "details"
	CompanyDetailText    = "detail_text"
	CompanyEmployeeCards = "employee_cards"
)

// Job detail fields
const (
	JobApplicantCount = "applicant_count"
	JobInsights       = "insights"
	JobBenefits       = "benefits"
)

var PersonTable = Table{
	Name: "person",
	Fields: map[string][]string{
		FieldName: {
			"h1.top-card-layout__title",
			"h1.text-heading-xlarge",
			"h1.inline.t-24",
			"section.top-card-layout h1",
		},
		FieldHeadline: {
			".top-card-layout__headline",
			".text-body-medium.break-words",
			"section.top-card-layout h2",
		},
		FieldLocation: {
			"span.top-card__subline-item--bullet",
			".pv-text-details__left-panel .t-black--light",
			"section.top-card-layout div.top-card__subline-item",
		},
		PersonSublineItems: {"section.top-card-layout span.top-card__subline-item"},
		FieldAbout: {
			"section[id='about'] div.pv-shared-text",
			"#about ~ div .pv-shared-text",
			"section.summary div.core-section-container__content p",
		},
		PersonOpenToWork: {".profile-photo-edit__preview", "img[alt*='Open to work']"},
		PersonExperienceList: {
			"section[id='experience'] ul.pvs-list",
			"#experience + section ul.pvs-list",
			"section.experience",
		},
		PersonExperienceItems: {
			"li.pvs-list__paged-list-item",
			"li.artdeco-list__item",
			"li.experience-item",
		},
		FieldTitle: {
			".t-bold span[aria-hidden='true']",
			".t-bold span",
			"h3.experience-item__title",
			"h3",
		},
		FieldCompany: {
			".t-normal span[aria-hidden='true']",
			".t-normal span",
			"h4.experience-item__subtitle",
			"h4 a",
		},
		PersonExperienceInfo: {
			".t-black--light span[aria-hidden='true']",
			".t-black--light span",
		},
		PersonExperienceDates: {"span.date-range time"},
		PersonExperienceSpan:  {"span.date-range__duration"},
		PersonExperienceWhere: {"p.experience-item__location"},
		FieldCompanyLink:      {"a[href*='/company/']", "h4 a"},
		FieldDescription: {
			"p.show-more-less-text__text--more",
			"p.show-more-less-text__text--less",
			".pvs-list__outer-container .inline-show-more-text",
		},
		PersonEducationList: {
			"section[id='education'] ul.pvs-list",
			"#education + section ul.pvs-list",
			"section.education",
		},
		PersonEducationItems: {
			"li.pvs-list__paged-list-item",
			"li.education__list-item",
		},
		PersonEducationSchool: {
			".t-bold span[aria-hidden='true']",
			".t-bold span",
			"h3",
		},
		PersonEducationLink: {"a[href*='/school/']", "a"},
		PersonEducationDegree: {
			".t-normal span[aria-hidden='true']",
			".t-normal span",
			"h4 span",
		},
		PersonEducationInfo: {
			".t-black--light span[aria-hidden='true']",
			".t-black--light span",
		},
		PersonEducationDates: {"span.date-range time"},
		PersonEducationNotes: {"div.education__item--details p"},
		PersonInterests: {
			"section[id='interests'] .t-bold span[aria-hidden='true']",
			"section.interests h3",
		},
		PersonAccomplishments: {
			"section[id='honors_and_awards'] .t-bold span[aria-hidden='true']",
			"section.awards h3",
		},
	},
}

var CompanyTable = Table{
	Name: "company",
	Fields: map[string][]string{
		FieldName: {
			"h1.org-top-card-summary__title",
			"h1.top-card-layout__title",
			".top-card-layout__entity-info h1",
		},
		FieldAbout: {
			"div.org-details__description",
			".org-about-company-module__company-description",
			"p[data-test-id='about-us__description']",
			".top-card-layout__entity-info h4 span",
		},
		CompanyWebsite: {
			"a[data-control-name='page_details_module_website_external_link']",
			".org-about-us__card-spacing a[href^='http']",
			"div[data-test-id='about-us__website'] a",
		},
		CompanyHeadquarters: {
			"dd[data-test-data-tracking-control-name='headquarters']",
			".org-location-card__content",
			"div[data-test-id='about-us__headquarters'] dd",
		},
		CompanyFounded: {
			"dd[data-test-data-tracking-control-name='founded']",
			".org-founded-card__content",
			"div[data-test-id='about-us__foundedOn'] dd",
		},
		CompanySize: {
			".org-page-details__employees-on-linkedin-count",
			".org-about-company-module__company-size-definition-text",
			"div[data-test-id='about-us__size'] dd",
		},
		CompanyIndustry: {
			"dd[data-test-data-tracking-control-name='industry']",
			".org-top-card-summary__industry",
			"div[data-test-id='about-us__industry'] dd",
		},
		CompanyType: {
			"dd[data-test-data-tracking-control-name='company_type']",
			"div[data-test-id='about-us__organizationType'] dd",
		},
		CompanyPhone: {
			"a[data-control-name='page_details_module_phone_external_link']",
			"div[data-test-id='about-us__phone'] dd",
		},
		CompanyFollowers: {
			".org-top-card-summary-info-list__info-item:last-child",
			"h3.top-card-layout__first-subline",
		},
		CompanySpecialties: {
			".org-about-company-module__specialties .org-about-company-module__specialties-item",
			".org-about-company-module__specialties-item",
		},
		CompanyDetails:    {".core-section-container__content .mb-2"},
		CompanyDetailText: {".text-md"},
		CompanyEmployeeCards: {
			".org-people-profile-card",
			".list-style-none li",
		},
	},
}

var EmployeeTable = Table{
	Name: "employee",
	Fields: map[string][]string{
		FieldCards: {
			".org-people-profile-card",
			".list-style-none li",
		},
		FieldName: {
			".org-people-profile-card__profile-title",
			".t-16 .t-black .t-bold",
			".t-bold",
		},
		FieldTitle: {
			".org-people-profile-card__profile-info",
			".t-14 .t-black--light",
			".t-black--light",
		},
		FieldLink: {"a[href*='/in/']"},
	},
}

var JobTable = Table{
	Name: "job",
	Fields: map[string][]string{
		FieldTitle: {
			"h1.job-details-jobs-unified-top-card__job-title",
			"h1.jobs-unified-top-card__job-title",
			"h1.top-card-layout__title",
			"h2.top-card-layout__title",
		},
		FieldCompany: {
			".job-details-jobs-unified-top-card__company-name",
			".jobs-unified-top-card__company-name",
			"a.topcard__org-name-link",
			".top-card-layout__second-subline span",
		},
		FieldLocation: {
			".job-details-jobs-unified-top-card__bullet",
			".jobs-unified-top-card__bullet",
			".topcard__flavor--bullet",
		},
		FieldDescription: {
			"div.jobs-description__container",
			"div.jobs-box__html-content",
			"#job-details",
			".show-more-less-html__markup",
		},
		FieldPostedDate: {
			".job-details-jobs-unified-top-card__posted-date",
			".jobs-unified-top-card__posted-date",
			".posted-time-ago__text",
		},
		JobApplicantCount: {
			".job-details-jobs-unified-top-card__applicant-count",
			".jobs-unified-top-card__applicant-count",
			".num-applicants__caption",
		},
		FieldCompanyLink: {
			".job-details-jobs-unified-top-card__company-name a",
			"a.topcard__org-name-link",
		},
		JobInsights: {
			".job-details-jobs-unified-top-card__job-insight .job-details-jobs-unified-top-card__job-insight-value-list li",
			"ul.job-details-jobs-unified-top-card__job-insight-value-list li",
			"ul.jobs-unified-top-card__job-insight li",
			".description__job-criteria-text",
		},
		JobBenefits: {
			".jobs-unified-description__salary-main-rail-card",
			".salary.compensation__salary",
		},
	},
}

var JobSearchTable = Table{
	Name: "job_search",
	Fields: map[string][]string{
		FieldCards: {
			".job-search-card",
			".jobs-search-results__list-item",
			"li",
		},
		FieldTitle: {
			"h3.base-search-card__title",
			"h3 a.job-search-card__title",
			".job-search-card__title a",
			"a.app-aware-link[href*='/jobs/view']",
			"h3",
		},
		FieldLink: {
			".base-card__full-link",
			"h3 a.job-search-card__title",
			".job-search-card__title a",
			"a.app-aware-link[href*='/jobs/view']",
			"a[href*='/jobs/view']",
		},
		FieldCompany: {
			".job-search-card__subtitle",
			".job-search-card__subtitle-link",
			"h4.base-search-card__subtitle a",
			"h4 a",
		},
		FieldLocation: {".job-search-card__location"},
		FieldPostedDate: {
			"time.job-search-card__listdate",
			"time.job-posted-date",
			"time",
		},
		FieldCompanyLink: {"a[href*='/company/']"},
	},
}

var PersonSearchTable = Table{
	Name: "person_search",
	Fields: map[string][]string{
		FieldCards: {
			".reusable-search__result-container",
			".search-results-container .entity-result",
		},
		FieldName: {
			"a.app-aware-link[href*='/in/'] span[aria-hidden='true']",
			".entity-result__title-text a",
			"a.app-aware-link[href*='/in/']",
		},
		FieldLink:     {"a.app-aware-link[href*='/in/']", "a[href*='/in/']"},
		FieldHeadline: {".entity-result__primary-subtitle"},
		FieldLocation: {".entity-result__secondary-subtitle"},
	},
}

// Tables returns every built-in table
func Tables() []Table {
	return []Table{PersonTable, CompanyTable, EmployeeTable, JobTable, JobSearchTable, PersonSearchTable}
}
