// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite record of every extraction run so past
// results can be listed, fetched by id, and used to skip URLs that were
// already extracted.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	defaultListLimit = 50

	// timeLayout is fixed-width so created_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("extraction not found")

// Entry summarizes one recorded extraction. Result is only populated by Get.
type Entry struct {
	ID               string                 `json:"id" yaml:"id"`
	URL              string                 `json:"url" yaml:"url"`
	ResourceType     string                 `json:"resourceType" yaml:"resource_type"`
	Title            string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Success          bool                   `json:"success" yaml:"success"`
	Error            string                 `json:"error,omitempty" yaml:"error,omitempty"`
	ArticleDir       string                 `json:"articleDir" yaml:"article_dir"`
	Resources        int                    `json:"resources" yaml:"resources"`
	ResourceFailures int                    `json:"resourceFailures" yaml:"resource_failures"`
	Hooks            int                    `json:"hooks" yaml:"hooks"`
	HookFailures     int                    `json:"hookFailures" yaml:"hook_failures"`
	CreatedAt        time.Time              `json:"createdAt" yaml:"created_at"`
	Result           *types.AggregateResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// ListOptions filters List. Zero values mean no filter.
type ListOptions struct {
	Limit      int
	URL        string
	FailedOnly bool
}

// Store is the extraction ledger. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extractions (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			title TEXT,
			success INTEGER NOT NULL,
			error TEXT,
			article_dir TEXT NOT NULL,
			resources INTEGER NOT NULL,
			resource_failures INTEGER NOT NULL,
			hooks INTEGER NOT NULL,
			hook_failures INTEGER NOT NULL,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_url ON extractions(url)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_created ON extractions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores agg. It satisfies extractor.Recorder.
func (s *Store) Record(ctx context.Context, agg types.AggregateResult) error {
	_, err := s.Add(ctx, agg)
	return err
}

// Add stores agg and returns the new entry.
func (s *Store) Add(ctx context.Context, agg types.AggregateResult) (Entry, error) {
	raw, err := json.Marshal(agg)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding result: %w", err)
	}
	e := entryFor(agg)
	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, url, resource_type, title, success, error, article_dir,
			resources, resource_failures, hooks, hook_failures, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.URL, e.ResourceType, e.Title, e.Success, e.Error, e.ArticleDir,
		e.Resources, e.ResourceFailures, e.Hooks, e.HookFailures, string(raw),
		e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording %s: %w", agg.URL, err)
	}
	return e, nil
}

func entryFor(agg types.AggregateResult) Entry {
	title, _ := agg.Primary.Metadata["title"].(string)
	return Entry{
		URL:              agg.URL,
		ResourceType:     agg.Primary.ResourceType,
		Title:            title,
		Success:          agg.Success,
		Error:            agg.Primary.Error,
		ArticleDir:       agg.ArticleDir,
		Resources:        len(agg.Resources),
		ResourceFailures: agg.ResourceFailures(),
		Hooks:            len(agg.Hooks),
		HookFailures:     agg.HookFailures(),
	}
}

const entryColumns = `id, url, resource_type, title, success, error, article_dir,
	resources, resource_failures, hooks, hook_failures, created_at`

// List returns recorded extractions, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if opts.URL != "" {
		where = append(where, "url = ?")
		args = append(args, opts.URL)
	}
	if opts.FailedOnly {
		where = append(where, "success = 0")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := "SELECT " + entryColumns + " FROM extractions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing extractions: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry with the given id, including the full result.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+", result FROM extractions WHERE id = ?", id)

	var raw string
	e, err := scanEntry(row, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Entry{}, err
	}
	var agg types.AggregateResult
	if err := json.Unmarshal([]byte(raw), &agg); err != nil {
		return Entry{}, fmt.Errorf("decoding result %s: %w", id, err)
	}
	e.Result = &agg
	return e, nil
}

// Seen reports whether url has a successful extraction on record.
func (s *Store) Seen(ctx context.Context, url string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM extractions WHERE url = ? AND success = 1`, url,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", url, err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner, extra ...any) (Entry, error) {
	var (
		e       Entry
		title   sql.NullString
		errMsg  sql.NullString
		created string
	)
	dest := append([]any{
		&e.ID, &e.URL, &e.ResourceType, &title, &e.Success, &errMsg, &e.ArticleDir,
		&e.Resources, &e.ResourceFailures, &e.Hooks, &e.HookFailures, &created,
	}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return Entry{}, err
	}
	e.Title = title.String
	e.Error = errMsg.String
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	e.CreatedAt = t
	return e, nil
}
