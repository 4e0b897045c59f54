// Package cinefeed exposes the aggregator over HTTP: trigger a scrape
// run, list persisted articles, download them as CSV.
package cinefeed

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cinefeed/cinefeed/export"
	"github.com/cinefeed/cinefeed/logger"
	"github.com/cinefeed/cinefeed/store"
	"github.com/cinefeed/cinefeed/story"
)

// RunFunc performs one full engine pass. The API depends on this
// function type rather than the engine itself so tests can stub runs.
type RunFunc func() ([]story.Canonical, error)

// APIServer serves the REST front end.
type APIServer struct {
	run   RunFunc
	store *store.Store
	log   *logger.Logger
}

// NewAPIServer creates an API server over the given run function and
// article store.
func NewAPIServer(run RunFunc, st *store.Store, log *logger.Logger) *APIServer {
	return &APIServer{
		run:   run,
		store: st,
		log:   log,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/", s.HandleWelcome)

	api := router.Group("/api/v1")
	api.POST("/runs", s.HandleCreateRun)
	api.GET("/articles", s.HandleListArticles)
	api.GET("/articles.csv", s.HandleExportCSV)

	return router
}

// HandleWelcome handles GET /.
func (s *APIServer) HandleWelcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the cinefeed API"})
}

// CreateRunResponse is the response for POST /api/v1/runs.
type CreateRunResponse struct {
	RunID        uuid.UUID         `json:"run_id"`
	ArticleCount int               `json:"article_count"`
	Records      []story.Canonical `json:"records"`
}

// HandleCreateRun handles POST /api/v1/runs: one full engine pass,
// persisted on success. An adapter-level failure aborts the run and
// nothing is persisted; the client gets the error rather than a
// partial result.
func (s *APIServer) HandleCreateRun(c *gin.Context) {
	startedAt := time.Now()

	records, err := s.run()
	if err != nil {
		s.log.Error("run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "run_failed",
				"message": "Run aborted: " + err.Error(),
			},
		})
		return
	}

	runID, err := s.store.SaveRun(records, startedAt, time.Now())
	if err != nil {
		s.log.Error("failed to persist run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "internal_error",
				"message": "Failed to persist run: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, CreateRunResponse{
		RunID:        runID,
		ArticleCount: len(records),
		Records:      records,
	})
}

// ListArticlesResponse is the response for GET /api/v1/articles.
type ListArticlesResponse struct {
	Articles []story.Canonical `json:"articles"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// HandleListArticles handles GET /api/v1/articles with optional
// run_id and source filters plus limit/offset pagination.
func (s *APIServer) HandleListArticles(c *gin.Context) {
	filter, ok := s.parseFilter(c, defaultPageLimit)
	if !ok {
		return
	}

	articles, err := s.store.ListArticles(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "internal_error",
				"message": "Failed to list articles: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, ListArticlesResponse{
		Articles: articles,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// HandleExportCSV handles GET /api/v1/articles.csv, streaming the
// filtered articles as a CSV download. A download is a full export,
// so unlike the JSON listing it is unpaginated unless the client
// passes limit explicitly.
func (s *APIServer) HandleExportCSV(c *gin.Context) {
	filter, ok := s.parseFilter(c, 0)
	if !ok {
		return
	}

	articles, err := s.store.ListArticles(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "internal_error",
				"message": "Failed to list articles: " + err.Error(),
			},
		})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="articles.csv"`)
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, articles); err != nil {
		// Headers are already out; all we can do is log.
		s.log.Error("failed to stream CSV", "error", err)
	}
}

// defaultPageLimit caps the JSON article listing when the client
// passes no limit.
const defaultPageLimit = 50

// parseFilter reads the shared query parameters, starting from the
// route's default limit (0 means unlimited). On a validation failure
// it writes the 400 response and returns ok=false.
func (s *APIServer) parseFilter(c *gin.Context, defaultLimit int) (store.ArticleFilter, bool) {
	filter := store.ArticleFilter{Limit: defaultLimit}

	if runParam := c.Query("run_id"); runParam != "" {
		runID, err := uuid.Parse(runParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "invalid_parameter",
					"message": "Invalid run_id parameter: must be a UUID",
				},
			})
			return filter, false
		}
		filter.RunID = &runID
	}

	filter.Source = c.Query("source")

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "invalid_parameter",
					"message": "Invalid limit parameter: must be a positive integer",
				},
			})
			return filter, false
		}
		filter.Limit = limit
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "invalid_parameter",
					"message": "Invalid offset parameter: must be a non-negative integer",
				},
			})
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}
