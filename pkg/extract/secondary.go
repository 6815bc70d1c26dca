package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	dateRangeRe = regexp.MustCompile(`(\w+\s+\d{4})\s*[-–]\s*(\w+\s+\d{4}|Present)`)
	digitsRe    = regexp.MustCompile(`\d[\d,]*`)
	yearRe      = regexp.MustCompile(`\b(\d{4})\b`)
)

// DateRange is the result of splitting a "Month Year - Month Year | Present · span" string
type DateRange struct {
	From     string
	To       string
	Duration string
}

// ParseDuration splits a profile date line. Without a recognisable range the whole
// text becomes the duration.
func ParseDuration(text string) DateRange {
	text = strings.TrimSpace(text)
	m := dateRangeRe.FindStringSubmatch(text)
	if m == nil {
		return DateRange{Duration: text}
	}
	dr := DateRange{From: m[1], To: m[2]}
	if _, after, found := strings.Cut(text, "·"); found {
		dr.Duration = strings.TrimSpace(after)
	}
	return dr
}

// FirstNumber parses the first run of digits in free text ("1,234 applicants" -> 1234)
func FirstNumber(text string) (int, bool) {
	run := digitsRe.FindString(text)
	if run == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(run, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FoundedYear extracts a standalone four-digit year
func FoundedYear(text string) (int, bool) {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// AbsoluteURL prefixes origin onto hrefs that carry no scheme
func AbsoluteURL(origin, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimRight(origin, "/") + href
}

// ProfileURL resolves href and drops its query and fragment, which only carry tracking state
func ProfileURL(origin, href string) string {
	abs := AbsoluteURL(origin, href)
	u, err := url.Parse(abs)
	if err != nil {
		before, _, _ := strings.Cut(abs, "?")
		return before
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// splitDegree separates the degree from the field of study. The signed-in layout renders
// "MSc, Informatics" in one span, the public layout uses one span per part.
func splitDegree(parts []string) (degree, field string) {
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		degree, field, _ = strings.Cut(parts[0], ",")
		return strings.TrimSpace(degree), strings.TrimSpace(field)
	}
	return parts[0], strings.Join(parts[1:], ", ")
}

var employmentTypes = []string{"Full-time", "Part-time", "Contract", "Temporary", "Internship"}
var seniorityLevels = []string{"Entry level", "Associate", "Mid-Senior level", "Director", "Executive"}

// findKeyword returns the first text containing any of the keywords
func findKeyword(texts []string, keywords []string) string {
	for _, text := range texts {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return text
			}
		}
	}
	return ""
}
