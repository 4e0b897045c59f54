package cinefeed

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefeed/cinefeed/logger"
	"github.com/cinefeed/cinefeed/store"
	"github.com/cinefeed/cinefeed/story"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRecords() []story.Canonical {
	return []story.Canonical{
		{
			Source:       "variety",
			Title:        "A headline",
			Content:      []string{"Body."},
			URLArticle:   "https://variety.com/a",
			CapturedDate: "2024-03-06",
			CapturedTime: "09:00:00",
		},
		{
			Source:       "screendaily",
			Title:        "Another headline",
			Content:      []string{},
			URLArticle:   "https://www.screendaily.com/b",
			CapturedDate: "2024-03-06",
			CapturedTime: "09:00:00",
		},
	}
}

func newTestServer(t *testing.T, run RunFunc) (*APIServer, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := logger.NewWithWriter("error", io.Discard)

	return NewAPIServer(run, st, log), st
}

// TestHandleCreateRun verifies a successful run is persisted and
// returned.
func TestHandleCreateRun(t *testing.T) {
	server, st := newTestServer(t, func() ([]story.Canonical, error) {
		return testRecords(), nil
	})
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ArticleCount)
	require.Len(t, resp.Records, 2)
	assert.NotNil(t, resp.Records[1].Content, "content must serialize as [], not null")

	articles, err := st.ListArticles(store.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

// TestHandleCreateRun_RunFails verifies an aborted run returns 500
// and persists nothing.
func TestHandleCreateRun_RunFails(t *testing.T) {
	server, st := newTestServer(t, func() ([]story.Canonical, error) {
		return nil, errors.New("source variety: selector panic")
	})
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "run_failed")

	articles, err := st.ListArticles(store.ArticleFilter{})
	require.NoError(t, err)
	assert.Empty(t, articles, "a failed run must not persist partial output")
}

// TestHandleListArticles verifies listing with a source filter.
func TestHandleListArticles(t *testing.T) {
	server, st := newTestServer(t, nil)
	_, err := st.SaveRun(testRecords(), time.Now(), time.Now())
	require.NoError(t, err)
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles?source=variety", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListArticlesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "A headline", resp.Articles[0].Title)
}

// TestHandleListArticles_InvalidLimit verifies parameter validation.
func TestHandleListArticles_InvalidLimit(t *testing.T) {
	server, _ := newTestServer(t, nil)
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles?limit=zero", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_parameter")
}

// TestHandleListArticles_InvalidRunID verifies run_id validation.
func TestHandleListArticles_InvalidRunID(t *testing.T) {
	server, _ := newTestServer(t, nil)
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles?run_id=not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestHandleExportCSV verifies the CSV download shape.
func TestHandleExportCSV(t *testing.T) {
	server, st := newTestServer(t, nil)
	_, err := st.SaveRun(testRecords(), time.Now(), time.Now())
	require.NoError(t, err)
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles.csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "articles.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3, "header plus one row per article")
	assert.True(t, strings.HasPrefix(lines[0], "source,"))
}

// TestHandleExportCSV_AllRowsWithoutLimit verifies a download is a
// full export: more articles than the JSON listing's default page size
// still all appear in the CSV.
func TestHandleExportCSV_AllRowsWithoutLimit(t *testing.T) {
	server, st := newTestServer(t, nil)

	records := make([]story.Canonical, 60)
	for i := range records {
		records[i] = story.Canonical{
			Source:       "variety",
			Title:        "Headline " + strconv.Itoa(i),
			Content:      []string{},
			URLArticle:   "https://variety.com/" + strconv.Itoa(i),
			CapturedDate: "2024-03-06",
			CapturedTime: "09:00:00",
		}
	}
	_, err := st.SaveRun(records, time.Now(), time.Now())
	require.NoError(t, err)
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles.csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 61, "header plus every persisted article")

	// The JSON listing keeps its default page size.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListArticlesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Articles, 50)
}

// TestHandleWelcome verifies the root route responds.
func TestHandleWelcome(t *testing.T) {
	server, _ := newTestServer(t, nil)
	router := server.SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")
}
