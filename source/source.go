// Package source implements the per-site adapter contract and the
// three-phase pipeline every adapter drives: fetch and parse a listing
// page, fetch each linked article page, merge the two passes by URL,
// and normalize the result onto the canonical record schema. The
// pipeline skeleton exists exactly once; sites only supply selectors
// and a date path.
package source

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/cinefeed/cinefeed/logger"
	"github.com/cinefeed/cinefeed/scrape"
	"github.com/cinefeed/cinefeed/story"
)

// ErrUnknownSource reports a source identifier with no registered
// adapter.
var ErrUnknownSource = errors.New("unknown source identifier")

// Site is the capability set a scraped website implements. Listing
// and Detail hold the site-specific markup knowledge; PublishedAt
// selects the date path that matches how the site renders timestamps.
type Site interface {
	// Name identifies the site in canonical records and logs.
	Name() string

	// IconURL is the source icon reference carried on every record.
	IconURL() string

	// Listing extracts stub records from a listing page.
	Listing(doc *goquery.Document) []story.Partial

	// Detail extracts the richer record from one article page. The
	// article URL becomes the record's join key.
	Detail(doc *goquery.Document, url string) story.Partial

	// PublishedAt converts the site's raw timestamp text into the
	// canonical (date, time) pair.
	PublishedAt(raw string) (string, string, error)
}

// Adapter is the unit the engine runs: one source, one seed URL, one
// sequence of canonical records.
type Adapter interface {
	Name() string
	Process(seedURL string) ([]story.Canonical, error)
}

// New builds the adapter registered under identifier, wired to the
// given fetcher and logger.
func New(identifier string, fetcher scrape.Fetcher, log *logger.Logger) (Adapter, error) {
	switch identifier {
	case "variety":
		return NewPipeline(&Variety{}, fetcher, log), nil
	case "indiewire":
		return NewPipeline(&IndieWire{}, fetcher, log), nil
	case "hollywoodreporter":
		return NewPipeline(&HollywoodReporter{}, fetcher, log), nil
	case "screendaily":
		return NewPipeline(&ScreenDaily{}, fetcher, log), nil
	case "feed":
		return NewFeed(log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, identifier)
	}
}

// Identifiers lists the registered source identifiers in a stable
// order, for CLI help and config validation.
func Identifiers() []string {
	return []string{"variety", "indiewire", "hollywoodreporter", "screendaily", "feed"}
}
