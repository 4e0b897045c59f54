package source

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/cinefeed/cinefeed/story"
)

// IndieWire scrapes indiewire.com, which marks its elements with
// data-alias attributes rather than stable class names. The site
// renders only a relative timestamp ("2 hours ago") on cards, so no
// published date path exists for it.
type IndieWire struct{}

func (iw *IndieWire) Name() string    { return "indiewire" }
func (iw *IndieWire) IconURL() string { return "indiewire" }

func (iw *IndieWire) Listing(doc *goquery.Document) []story.Partial {
	var stubs []story.Partial

	doc.Find(`div[data-alias="card__inner"]`).Each(func(_ int, card *goquery.Selection) {
		var rec story.Partial

		if category := trimmed(card.Find(`div[data-alias="card__main"] div[data-alias="card__kicker"]`).First()); category != "" {
			rec.Categories = []string{category}
		}

		titleDiv := card.Find(`div[data-alias="card__card-title"]`).First()
		if title := trimmed(titleDiv); title != "" {
			rec.Title = story.String(title)
		}
		if href, ok := titleDiv.Find("a").First().Attr("href"); ok {
			rec.URL = story.String(href)
		}

		if author := trimmed(card.Find(`div[data-alias="byline__text-wrapper"] span`).First()); author != "" {
			rec.Author = story.String(author)
		}

		if stamp := trimmed(card.Find(`time[data-alias="card_timestamp"]`).First()); stamp != "" {
			rec.Published = story.String(stamp)
		}

		rec.Thumbnail = story.String(iw.thumbnail(card))

		stubs = append(stubs, rec)
	})

	return stubs
}

// thumbnail prefers the image wrapper's src, falling back to any img
// tag's data-img-url or src. Cards without an image yield "".
func (iw *IndieWire) thumbnail(card *goquery.Selection) string {
	if src, ok := card.Find(`div[data-alias="image__inner-img"] img`).First().Attr("src"); ok && src != "" {
		return src
	}

	img := card.Find("img").First()
	if src, ok := img.Attr("data-img-url"); ok && src != "" {
		return src
	}
	src, _ := img.Attr("src")
	return src
}

func (iw *IndieWire) Detail(doc *goquery.Document, url string) story.Partial {
	rec := story.Partial{URL: story.String(url)}

	if title := trimmed(doc.Find("h1.article-header-title").First()); title != "" {
		rec.Title = story.String(title)
	}

	if banner, ok := doc.Find(`div[data-alias="image__inner-img"] img`).First().Attr("src"); ok {
		rec.Banner = story.String(banner)
	}

	content := []string{}
	doc.Find(`div[data-alias="gutenberg-content__content"]`).Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p":
			content = append(content, trimmed(child))
		}
	})
	rec.Content = content

	return rec
}

// PublishedAt always yields empty fields: the card timestamp is
// relative text with no parseable representation.
func (iw *IndieWire) PublishedAt(string) (string, string, error) {
	return "", "", nil
}
