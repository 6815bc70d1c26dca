package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		text string
		want DateRange
	}{
		{
			name: "range with span",
			text: "Jan 2020 - Present · 4 yrs 2 mos",
			want: DateRange{From: "Jan 2020", To: "Present", Duration: "4 yrs 2 mos"},
		},
		{
			name: "en dash closed range",
			text: "Mar 2015 – Dec 2018 · 3 yrs 10 mos",
			want: DateRange{From: "Mar 2015", To: "Dec 2018", Duration: "3 yrs 10 mos"},
		},
		{
			name: "range without span",
			text: "Sep 2010 - Jun 2014",
			want: DateRange{From: "Sep 2010", To: "Jun 2014"},
		},
		{
			name: "no range keeps raw text",
			text: "  2 yrs  ",
			want: DateRange{Duration: "2 yrs"},
		},
		{
			name: "empty",
			text: "",
			want: DateRange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.text))
		})
	}
}

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"Over 200 applicants", 200, true},
		{"1,234 applicants", 1234, true},
		{"12 of 30", 12, true},
		{"Be among the first applicants", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := FirstNumber(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoundedYear(t *testing.T) {
	year, ok := FoundedYear("Founded 2003")
	assert.True(t, ok)
	assert.Equal(t, 2003, year)

	_, ok = FoundedYear("Founded 20031")
	assert.False(t, ok)

	_, ok = FoundedYear("unknown")
	assert.False(t, ok)
}

func TestAbsoluteURL(t *testing.T) {
	const origin = "https://www.linkedin.com"
	tests := []struct {
		href string
		want string
	}{
		{"/in/jane", "https://www.linkedin.com/in/jane"},
		{"in/jane", "https://www.linkedin.com/in/jane"},
		{"https://www.linkedin.com/company/acme/", "https://www.linkedin.com/company/acme/"},
		{"http://example.com", "http://example.com"},
		{"//cdn.example.com/x", "https://cdn.example.com/x"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsoluteURL(origin, tt.href))
		})
	}
}

func TestProfileURL_StripsTracking(t *testing.T) {
	got := ProfileURL("https://www.linkedin.com", "/company/acme/?trk=public_profile#x")
	assert.Equal(t, "https://www.linkedin.com/company/acme/", got)
}

func TestSplitDegree(t *testing.T) {
	tests := []struct {
		name   string
		parts  []string
		degree string
		field  string
	}{
		{"one span with comma", []string{"MSc, Informatics"}, "MSc", "Informatics"},
		{"one span degree only", []string{"Bachelor of Arts"}, "Bachelor of Arts", ""},
		{"separate spans", []string{"BSc", "Economics"}, "BSc", "Economics"},
		{"extra spans join into field", []string{"BA", "History", "Philosophy"}, "BA", "History, Philosophy"},
		{"nothing", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			degree, field := splitDegree(tt.parts)
			assert.Equal(t, tt.degree, degree)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestFindKeyword(t *testing.T) {
	insights := []string{"Remote", "Full-time · Mid-Senior level", "11-50 employees"}
	assert.Equal(t, "Full-time · Mid-Senior level", findKeyword(insights, employmentTypes))
	assert.Empty(t, findKeyword([]string{"Remote"}, seniorityLevels))
}
