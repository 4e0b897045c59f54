package source

import (
	"github.com/cinefeed/cinefeed/dates"
	"github.com/cinefeed/cinefeed/logger"
	"github.com/cinefeed/cinefeed/scrape"
	"github.com/cinefeed/cinefeed/story"
)

// Pipeline runs the shared three-phase process for one Site. A failed
// seed fetch yields an empty result, a failed article fetch skips
// that link, and an unparsable timestamp empties the published
// fields; none of these abort the run or propagate to the caller.
type Pipeline struct {
	site    Site
	fetcher scrape.Fetcher
	log     *logger.Logger
}

// NewPipeline wires a site's selectors into the shared pipeline.
func NewPipeline(site Site, fetcher scrape.Fetcher, log *logger.Logger) *Pipeline {
	return &Pipeline{
		site:    site,
		fetcher: fetcher,
		log:     log.With("source", site.Name()),
	}
}

// Name returns the wrapped site's name.
func (p *Pipeline) Name() string {
	return p.site.Name()
}

// Process fetches the seed listing page, follows every stub's link
// for detail, merges the two passes by URL, and normalizes the merged
// records. The returned slice is never nil.
func (p *Pipeline) Process(seedURL string) ([]story.Canonical, error) {
	p.log.Info("fetching primary content", "url", seedURL)

	doc, err := p.fetcher.Fetch(seedURL)
	if err != nil {
		p.log.Error("failed to retrieve the listing page", "url", seedURL, "error", err)
		return []story.Canonical{}, nil
	}

	p.log.Info("getting all stories")
	stubs := p.site.Listing(doc)
	p.log.Info("extracted listing stubs", "count", len(stubs))

	details := p.processChildren(stubs)

	merged := story.MergeByKey(stubs, details)
	p.log.Info("merged listing and detail passes",
		"stubs", len(stubs), "details", len(details), "merged", len(merged))

	records := make([]story.Canonical, 0, len(merged))
	capturedDate, capturedTime := dates.Captured()
	for _, rec := range merged {
		records = append(records, p.canonical(rec, capturedDate, capturedTime))
	}

	return records, nil
}

// processChildren fetches each stub's article page in listing order.
// A per-link fetch failure skips that link; the stub survives the
// merge with only its listing fields.
func (p *Pipeline) processChildren(stubs []story.Partial) []story.Partial {
	details := make([]story.Partial, 0, len(stubs))

	for _, stub := range stubs {
		key := stub.Key()
		if key == "" {
			p.log.Warn("stub has no link, skipping detail fetch")
			continue
		}

		p.log.Info("processing link", "url", key)

		doc, err := p.fetcher.Fetch(key)
		if err != nil {
			p.log.Warn("failed to retrieve article page, skipping", "url", key, "error", err)
			continue
		}

		details = append(details, p.site.Detail(doc, key))
	}

	return details
}

// canonical maps one merged record onto the canonical schema.
func (p *Pipeline) canonical(rec story.Partial, capturedDate, capturedTime string) story.Canonical {
	var publishedDate, publishedTime string
	if raw := story.Value(rec.Published); raw != "" {
		date, clock, err := p.site.PublishedAt(raw)
		if err != nil {
			p.log.Warn("unparsable published timestamp", "value", raw, "error", err)
		} else {
			publishedDate, publishedTime = date, clock
		}
	}

	content := rec.Content
	if content == nil {
		content = []string{}
	}

	var section string
	if len(rec.Categories) > 0 {
		section = rec.Categories[0]
	}

	return story.Canonical{
		Source:            p.site.Name(),
		SourceIconURL:     p.site.IconURL(),
		SourceSection:     section,
		Title:             story.Value(rec.Title),
		Content:           content,
		Author:            story.Value(rec.Author),
		URLArticle:        rec.Key(),
		URLBannerImage:    story.Value(rec.Banner),
		URLThumbnailImage: story.Value(rec.Thumbnail),
		PublishedDate:     publishedDate,
		PublishedTime:     publishedTime,
		CapturedDate:      capturedDate,
		CapturedTime:      capturedTime,
	}
}
