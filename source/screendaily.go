package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cinefeed/cinefeed/dates"
	"github.com/cinefeed/cinefeed/story"
)

// screenDailyDomain prefixes the site's relative listing links.
const screenDailyDomain = "https://www.screendaily.com"

// ScreenDaily scrapes screendaily.com. Its listing links are
// site-relative and its article pages embed an ISO-8601 timestamp, so
// the ISO date path applies.
type ScreenDaily struct{}

func (sd *ScreenDaily) Name() string    { return "screendaily" }
func (sd *ScreenDaily) IconURL() string { return "screendaily" }

func (sd *ScreenDaily) Listing(doc *goquery.Document) []story.Partial {
	var stubs []story.Partial

	doc.Find("div.spinLayout").Each(func(_ int, item *goquery.Selection) {
		var rec story.Partial

		titleLink := item.Find("h2 a").First()
		if title := trimmed(titleLink); title != "" {
			rec.Title = story.String(title)
		}
		if href, ok := titleLink.Attr("href"); ok {
			rec.URL = story.String(absoluteURL(href))
		}

		if src, ok := item.Find("img").First().Attr("src"); ok {
			rec.Thumbnail = story.String(src)
		}

		stubs = append(stubs, rec)
	})

	return stubs
}

func (sd *ScreenDaily) Detail(doc *goquery.Document, url string) story.Partial {
	rec := story.Partial{URL: story.String(url)}

	if title := trimmed(doc.Find("div.story_title h1").First()); title != "" {
		rec.Title = story.String(title)
	}

	content := []string{}
	doc.Find("div.articleContent").Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p":
			content = append(content, trimmed(child))
		}
	})
	rec.Content = content

	byline := doc.Find("p.byline.meta a").First()
	if author := trimmed(byline); author != "" {
		rec.Author = story.String(author)
		if href, ok := byline.Attr("href"); ok {
			rec.AuthorURL = story.String(href)
		}
	}

	if stamp, ok := doc.Find("span.date time").First().Attr("datetime"); ok {
		rec.Published = story.String(stamp)
	} else if text := trimmed(doc.Find("span.date").First()); text != "" {
		rec.Published = story.String(text)
	}

	if banner, ok := doc.Find("div.articleContent img").First().Attr("src"); ok {
		rec.Banner = story.String(banner)
	}

	return rec
}

// PublishedAt parses the site's ISO-8601 timestamp.
func (sd *ScreenDaily) PublishedAt(raw string) (string, string, error) {
	return dates.FromISO(raw)
}

// absoluteURL prefixes site-relative links with the ScreenDaily
// domain; absolute links pass through.
func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return screenDailyDomain + href
}
