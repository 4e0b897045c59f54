package scrape

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClientFetch_ParsesDocument verifies a 200 response is parsed
// into a queryable document.
func TestClientFetch_ParsesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1 class="headline">Hello</h1></body></html>`))
	}))
	defer server.Close()

	doc, err := NewClient().Fetch(server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Find("h1.headline").Text())
}

// TestClientFetch_SetsUserAgent verifies the client identifies itself.
func TestClientFetch_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := NewClient().Fetch(server.URL)

	require.NoError(t, err)
	assert.Contains(t, gotUA, "cinefeed")
}

// TestClientFetch_NonOKStatus verifies a non-200 yields a StatusError
// carrying the code.
func TestClientFetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	doc, err := NewClient().Fetch(server.URL)

	assert.Nil(t, doc)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

// TestClientFetch_TransportError verifies a connection failure is
// reported as an error, not a StatusError.
func TestClientFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	doc, err := NewClient().Fetch(server.URL)

	assert.Nil(t, doc)
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
