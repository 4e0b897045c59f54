package source

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/cinefeed/cinefeed/dates"
	"github.com/cinefeed/cinefeed/story"
)

// HollywoodReporter scrapes hollywoodreporter.com. The site prints
// Pacific wall times with a trailing timezone abbreviation, so its
// date path localizes to America/Los_Angeles and keeps the 12-hour
// display form.
type HollywoodReporter struct{}

func (hr *HollywoodReporter) Name() string    { return "hollywoodreporter" }
func (hr *HollywoodReporter) IconURL() string { return "hollywoodreporter" }

func (hr *HollywoodReporter) Listing(doc *goquery.Document) []story.Partial {
	var stubs []story.Partial

	doc.Find("div.story").Each(func(_ int, item *goquery.Selection) {
		var rec story.Partial

		titleLink := item.Find("h3.c-title a").First()
		if title := trimmed(titleLink); title != "" {
			rec.Title = story.String(title)
		}
		if href, ok := titleLink.Attr("href"); ok {
			rec.URL = story.String(href)
		}

		authorLink := item.Find("div.c-tagline a").First()
		if author := trimmed(authorLink); author != "" {
			rec.Author = story.String(author)
			if href, ok := authorLink.Attr("href"); ok {
				rec.AuthorURL = story.String(href)
			}
		}

		if stamp := trimmed(item.Find("time").First()); stamp != "" {
			rec.Published = story.String(stamp)
		}

		if category := trimmed(item.Find("span.c-span a").First()); category != "" {
			rec.Categories = []string{category}
		}

		if src, ok := item.Find("img.c-lazy-image__img").First().Attr("src"); ok {
			rec.Thumbnail = story.String(src)
		}

		stubs = append(stubs, rec)
	})

	return stubs
}

func (hr *HollywoodReporter) Detail(doc *goquery.Document, url string) story.Partial {
	rec := story.Partial{URL: story.String(url)}

	if title := trimmed(doc.Find("h1.c-title").First()); title != "" {
		rec.Title = story.String(title)
	}

	content := []string{}
	doc.Find("div.a-content p").Each(func(_ int, p *goquery.Selection) {
		content = append(content, trimmed(p))
	})
	rec.Content = content

	authorLink := doc.Find("div.c-tagline a").First()
	if author := trimmed(authorLink); author != "" {
		rec.Author = story.String(author)
		if href, ok := authorLink.Attr("href"); ok {
			rec.AuthorURL = story.String(href)
		}
	}

	if stamp := trimmed(doc.Find("div.c-tagline time").First()); stamp != "" {
		rec.Published = story.String(stamp)
	}

	if banner, ok := doc.Find("img.c-lazy-image__img").First().Attr("src"); ok {
		rec.Banner = story.String(banner)
	}

	var categories []string
	doc.Find("ol.o-nav-breadcrumblist__list a").Each(func(_ int, a *goquery.Selection) {
		categories = append(categories, trimmed(a))
	})
	if categories != nil {
		rec.Categories = categories
	}

	return rec
}

// PublishedAt parses Pacific wall-time text such as
// "January 15, 2024 3:45PM PT".
func (hr *HollywoodReporter) PublishedAt(raw string) (string, string, error) {
	return dates.FromTextPacific(raw)
}
