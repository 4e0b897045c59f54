// Package store persists the canonical records of each engine run in
// SQLite, so the API can serve articles without re-scraping.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cinefeed/cinefeed/story"
)

// ErrRunNotFound reports a run id with no persisted run.
var ErrRunNotFound = errors.New("run not found")

// Store manages runs and articles using SQLite.
type Store struct {
	db *sql.DB
}

// Run describes one persisted engine pass.
type Run struct {
	RunID        uuid.UUID `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	ArticleCount int       `json:"article_count"`
}

// ArticleFilter narrows and pages ListArticles results.
type ArticleFilter struct {
	RunID  *uuid.UUID
	Source string
	Limit  int
	Offset int
}

// New opens (creating if necessary) the store at the given database
// path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs and articles tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		article_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		source TEXT NOT NULL,
		source_icon_url TEXT NOT NULL,
		source_section TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		author TEXT NOT NULL,
		url_article TEXT NOT NULL,
		url_banner_image TEXT NOT NULL,
		url_thumbnail_image TEXT NOT NULL,
		published_date TEXT NOT NULL,
		published_time TEXT NOT NULL,
		captured_date TEXT NOT NULL,
		captured_time TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one engine pass and its records atomically,
// returning the new run id. Record order within the run is preserved.
func (s *Store) SaveRun(records []story.Canonical, startedAt, finishedAt time.Time) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (run_id, started_at, finished_at, article_count) VALUES (?, ?, ?, ?)",
		runID.String(),
		startedAt.Format(time.RFC3339),
		finishedAt.Format(time.RFC3339),
		len(records),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}

	insert := `
	INSERT INTO articles (
		article_id, run_id, position,
		source, source_icon_url, source_section,
		title, content, author,
		url_article, url_banner_image, url_thumbnail_image,
		published_date, published_time, captured_date, captured_time
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, rec := range records {
		// Content is a JSON array column so the paragraph list
		// round-trips without a separator convention.
		contentJSON, err := json.Marshal(rec.Content)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal content: %w", err)
		}

		_, err = tx.Exec(insert,
			uuid.New().String(), runID.String(), i,
			rec.Source, rec.SourceIconURL, rec.SourceSection,
			rec.Title, string(contentJSON), rec.Author,
			rec.URLArticle, rec.URLBannerImage, rec.URLThumbnailImage,
			rec.PublishedDate, rec.PublishedTime, rec.CapturedDate, rec.CapturedTime,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// LatestRun returns the most recently finished run, or ErrRunNotFound
// if nothing has been persisted yet.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(
		"SELECT run_id, started_at, finished_at, article_count FROM runs ORDER BY finished_at DESC LIMIT 1")

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	return run, nil
}

// ListArticles returns persisted articles matching the filter, in run
// insertion order. A zero Limit means no limit.
func (s *Store) ListArticles(filter ArticleFilter) ([]story.Canonical, error) {
	query := `
	SELECT source, source_icon_url, source_section,
	       title, content, author,
	       url_article, url_banner_image, url_thumbnail_image,
	       published_date, published_time, captured_date, captured_time
	FROM articles
	`

	var conditions []string
	var args []any

	if filter.RunID != nil {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filter.RunID.String())
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY run_id, position"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []story.Canonical{}
	for rows.Next() {
		var rec story.Canonical
		var contentJSON string

		err := rows.Scan(
			&rec.Source, &rec.SourceIconURL, &rec.SourceSection,
			&rec.Title, &contentJSON, &rec.Author,
			&rec.URLArticle, &rec.URLBannerImage, &rec.URLThumbnailImage,
			&rec.PublishedDate, &rec.PublishedTime, &rec.CapturedDate, &rec.CapturedTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		if err := json.Unmarshal([]byte(contentJSON), &rec.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content: %w", err)
		}
		if rec.Content == nil {
			rec.Content = []string{}
		}

		articles = append(articles, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}

	return articles, nil
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var runID, startedAt, finishedAt string

	if err := row.Scan(&runID, &startedAt, &finishedAt, &run.ArticleCount); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("corrupt run id: %w", err)
	}
	run.RunID = id

	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("corrupt started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return nil, fmt.Errorf("corrupt finished_at: %w", err)
	}

	return &run, nil
}
