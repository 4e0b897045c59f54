// Package story defines the record shapes that flow through a scrape:
// partially populated records produced by the listing and detail passes,
// the key-based merge that reconciles them, and the canonical output
// schema shared across all sources.
package story

// Partial is one partially populated story record. Both the listing
// pass and the detail pass produce Partials; a nil field means the
// pass did not extract it, which is different from an extracted empty
// value. URL is the join key used to correlate the two passes.
type Partial struct {
	Title      *string
	URL        *string
	Author     *string
	AuthorURL  *string
	Published  *string // site-native date text or an ISO-8601 string
	Categories []string
	Thumbnail  *string
	Banner     *string
	Content    []string // ordered paragraphs
}

// Key returns the record's join key, or "" if it has none.
func (p *Partial) Key() string {
	if p.URL == nil {
		return ""
	}
	return *p.URL
}

// Canonical is the stable output schema, one per merged record. All
// fields are plain strings (or a string slice for Content) so the
// record serializes the same way regardless of which source produced
// it. Content is never nil: an article with no extracted paragraphs
// carries an empty slice.
type Canonical struct {
	Source            string   `json:"source"`
	SourceIconURL     string   `json:"sourceIconURL"`
	SourceSection     string   `json:"sourceSection"`
	Title             string   `json:"title"`
	Content           []string `json:"content"`
	Author            string   `json:"author"`
	URLArticle        string   `json:"urlArticle"`
	URLBannerImage    string   `json:"urlBannerImage"`
	URLThumbnailImage string   `json:"urlThumbnailImage"`
	PublishedDate     string   `json:"publishedDate"`
	PublishedTime     string   `json:"publishedTime"`
	CapturedDate      string   `json:"capturedDate"`
	CapturedTime      string   `json:"capturedTime"`
}

// String pins s so it can be used as an optional Partial field.
func String(s string) *string {
	return &s
}

// Value dereferences an optional field, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
