// Package scrape provides the document fetch capability shared by all
// source adapters: one blocking HTTP round trip returning a parsed
// document or a failure. There are no retries and no backoff; a
// failed fetch is the caller's problem to recover from.
package scrape

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher fetches a URL and returns the parsed document. Adapters and
// the pipeline depend on this interface so tests can substitute a
// stub.
type Fetcher interface {
	Fetch(url string) (*goquery.Document, error)
}

// StatusError reports a non-200 response from a fetched page.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Client is the production Fetcher backed by net/http and goquery.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a fetch client with a 10 second timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: "cinefeed/1.0 (entertainment news aggregator)",
	}
}

// Fetch performs one blocking GET and parses the response body. A
// transport error or non-200 status yields an error and no document.
func (c *Client) Fetch(url string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}
