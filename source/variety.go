package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cinefeed/cinefeed/dates"
	"github.com/cinefeed/cinefeed/story"
)

// Variety scrapes variety.com. Listing teases carry title, thumbnail,
// category and link; article pages add paragraphs, byline, breadcrumb
// categories and a free-text timestamp.
type Variety struct{}

func (v *Variety) Name() string    { return "variety" }
func (v *Variety) IconURL() string { return "variety" }

// Listing keeps only teases with all four stub fields present; the
// listing page mixes editorial teases with promo tiles that lack a
// link or thumbnail.
func (v *Variety) Listing(doc *goquery.Document) []story.Partial {
	var stubs []story.Partial

	doc.Find("li.o-tease-list__item").Each(func(_ int, item *goquery.Selection) {
		title := trimmed(item.Find("h3.c-title").First())
		thumbnail, _ := item.Find("img.c-lazy-image__img").First().Attr("src")
		category := trimmed(item.Find("a.c-span__link").First())
		articleURL, _ := item.Find("a.c-title__link").First().Attr("href")

		if title == "" || thumbnail == "" || category == "" || articleURL == "" {
			return
		}

		stubs = append(stubs, story.Partial{
			Title:      story.String(title),
			URL:        story.String(articleURL),
			Categories: []string{category},
			Thumbnail:  story.String(thumbnail),
		})
	})

	return stubs
}

func (v *Variety) Detail(doc *goquery.Document, url string) story.Partial {
	rec := story.Partial{URL: story.String(url)}

	if title := trimmed(doc.Find("h1#section-heading").First()); title != "" {
		rec.Title = story.String(title)
	}

	content := []string{}
	doc.Find("p.paragraph").Each(func(_ int, p *goquery.Selection) {
		content = append(content, trimmed(p))
	})
	rec.Content = content

	if author := v.author(doc); author != "" {
		rec.Author = story.String(author)
	}
	if link := v.authorLink(doc); link != "" {
		rec.AuthorURL = story.String(link)
	}

	if date := trimmed(doc.Find("time.c-timestamp").First()); date != "" {
		rec.Published = story.String(date)
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

// PublishedAt parses Variety's free-text timestamp.
func (v *Variety) PublishedAt(raw string) (string, string, error) {
	return dates.FromText(raw)
}

// author reads the single-byline paragraph first, then the multi-
// author tagline.
func (v *Variety) author(doc *goquery.Document) string {
	if name := trimmed(doc.Find("p.lrv-u-margin-tb-00 a.c-link").First()); name != "" {
		return name
	}

	var names []string
	doc.Find("div.c-tagline a.c-link").Each(func(_ int, a *goquery.Selection) {
		names = append(names, trimmed(a))
	})

	return strings.Join(names, ", ")
}

func (v *Variety) authorLink(doc *goquery.Document) string {
	if href, ok := doc.Find("div.c-tagline a.c-link").First().Attr("href"); ok {
		return href
	}
	if href, ok := doc.Find("p.lrv-u-margin-tb-00 a.c-link").First().Attr("href"); ok {
		return href
	}
	return ""
}

// trimmed returns the selection's text with surrounding whitespace
// removed.
func trimmed(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
