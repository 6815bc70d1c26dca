package spiders

import (
	"net/url"
	"strconv"

	"github.com/Sriram-PR/linkedin-scraper/pkg/crawler"
	"github.com/Sriram-PR/linkedin-scraper/pkg/extract"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

// JobsPageSize is how far the guest API's start offset advances per page
const JobsPageSize = 25

const jobsSearchPath = "/jobs-guest/jobs/api/seeMoreJobPostings/search"

// JobsOptions configure a job search crawl
type JobsOptions struct {
	Keywords string
	Location string
	Details  int // follow the first Details cards to their detail pages, emit the rest as cards
	MaxPages int // 0 = until a page comes back empty
}

// Jobs paginates the guest job-search API
type Jobs struct {
	engine *extract.Engine
	opts   JobsOptions
}

func NewJobs(engine *extract.Engine, opts JobsOptions) *Jobs {
	return &Jobs{engine: engine, opts: opts}
}

func (j *Jobs) Name() string { return NameJobs }

func (j *Jobs) Seeds() []models.Target {
	return []models.Target{j.page(models.Target{}, 0)}
}

// PageURL returns the search URL for the page starting at start
func (j *Jobs) PageURL(start int) string {
	q := url.Values{}
	q.Set("keywords", j.opts.Keywords)
	q.Set("location", j.opts.Location)
	q.Set("start", strconv.Itoa(start))
	return withQuery(j.engine.Origin(), jobsSearchPath, q)
}

func (j *Jobs) page(parent models.Target, start int) models.Target {
	t := models.NewTarget(j.PageURL(start))
	if parent.URL != "" {
		t = parent.FollowUp(t.URL)
	}
	return t.WithMeta(models.MetaFirstJobOnPage, strconv.Itoa(start))
}

func (j *Jobs) Parse(resp crawler.Response) ([]any, []models.Target, error) {
	if resp.Target.Get(models.MetaKind) == kindJob {
		job, err := j.engine.ParseJob(resp.Body, sourceURL(resp.Target))
		if err != nil {
			return nil, nil, err
		}
		return []any{job}, nil, nil
	}

	cards, err := j.engine.ParseJobCards(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if len(cards) == 0 {
		return nil, nil, nil
	}

	start, _ := strconv.Atoi(resp.Target.Get(models.MetaFirstJobOnPage))

	var items []any
	var follow []models.Target
	for i := range cards {
		// pages hold JobsPageSize cards, so start+i is the card's rank in the whole search
		if start+i < j.opts.Details && cards[i].LinkedInURL != "" {
			follow = append(follow, detailTarget(resp.Target, kindJob, cards[i].LinkedInURL, cards[i]))
			continue
		}
		items = append(items, &cards[i])
	}

	pageNum := start/JobsPageSize + 1
	if j.opts.MaxPages <= 0 || pageNum < j.opts.MaxPages {
		follow = append(follow, j.page(resp.Target, start+JobsPageSize))
	}
	return items, follow, nil
}

// Fallback emits the search card of a job whose detail page failed
func (j *Jobs) Fallback(target models.Target, _ error) []any {
	if target.Get(models.MetaKind) != kindJob {
		return nil
	}
	return cardFallback[models.Job](target)
}

// Job crawls individual job postings given by URL
type Job struct {
	engine *extract.Engine
	urls   []string
}

func NewJob(engine *extract.Engine, urls []string) *Job {
	return &Job{engine: engine, urls: urls}
}

func (j *Job) Name() string { return NameJob }

func (j *Job) Seeds() []models.Target { return urlTargets(j.urls) }

func (j *Job) Parse(resp crawler.Response) ([]any, []models.Target, error) {
	job, err := j.engine.ParseJob(resp.Body, sourceURL(resp.Target))
	if err != nil {
		return nil, nil, err
	}
	return []any{job}, nil, nil
}
