// Package postgres provides a frontier store backed by PostgreSQL.
//
// It allows several linkspider processes to share one frontier. Selection
// relies on row locks: PickOneAndLock locks the pending set in a single
// UPDATE, and Claim skips rows already locked by a concurrent claim.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/model"
)

// Compile-time check that Store implements frontier.Store.
var _ frontier.Store = (*Store)(nil)

// pingTimeout bounds the connectivity check performed by Open.
const pingTimeout = 5 * time.Second

const pageColumns = "id, url, title, description, state, admin_disabled, created_at, updated_at, indexed_at"

var (
	schemaQuery = `
	CREATE TABLE IF NOT EXISTS pages (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL,
		url_key TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT 'pending',
		admin_disabled BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		indexed_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages (url_key);
	CREATE INDEX IF NOT EXISTS idx_pages_state ON pages (state, admin_disabled, id);
	`

	insertPageQuery = `
	INSERT INTO pages (url, url_key, title, description, state, admin_disabled, created_at, updated_at, indexed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8)
	RETURNING id
	`
	updatePageQuery = `
	UPDATE pages
	SET url = $1, url_key = $2, title = $3, description = $4, state = $5, admin_disabled = $6, updated_at = $7, indexed_at = $8
	WHERE id = $9
	RETURNING created_at
	`
	existsQuery = `
	SELECT EXISTS(
		SELECT 1 FROM pages
		WHERE url_key = $1 AND NOT admin_disabled AND state <> 'locked'
	)
	`
	pendingBatchQuery = `
	SELECT ` + pageColumns + ` FROM pages
	WHERE state = 'pending' AND NOT admin_disabled
	ORDER BY id
	LIMIT $1
	`
	lockAllPendingQuery = `
	UPDATE pages SET state = 'locked', updated_at = $1
	WHERE state = 'pending' AND NOT admin_disabled
	RETURNING ` + pageColumns
	claimQuery = `
	UPDATE pages SET state = 'locked', updated_at = $1
	WHERE id = (
		SELECT id FROM pages
		WHERE state = 'pending' AND NOT admin_disabled
		ORDER BY id
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	)
	RETURNING ` + pageColumns
	getPageQuery       = "SELECT " + pageColumns + " FROM pages WHERE id = $1"
	setDisabledQuery   = "UPDATE pages SET admin_disabled = $1, updated_at = $2 WHERE id = $3"
	lockPageByIDQuery  = "SELECT state FROM pages WHERE id = $1 FOR UPDATE"
	releaseQuery       = "UPDATE pages SET state = 'pending', updated_at = $1 WHERE id = $2 AND state = 'locked'"
	unlockAllQuery     = "UPDATE pages SET state = 'pending', updated_at = $1 WHERE state = 'locked'"
	searchQuery        = "SELECT " + pageColumns + " FROM pages WHERE state = 'indexed' AND NOT admin_disabled AND strpos(lower(description), lower($1)) > 0 ORDER BY id"
	statsQuery         = "SELECT state, COUNT(*) FROM pages GROUP BY state"
	disabledCountQuery = "SELECT COUNT(*) FROM pages WHERE admin_disabled"
)

// Store is a frontier store persisted in PostgreSQL.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the database at dsn, verifies the connection and
// creates the schema when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close terminates the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists implements frontier.Frontier.
func (s *Store) Exists(ctx context.Context, url string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, existsQuery, frontier.URLKey(url)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check url: %w", err)
	}
	return exists, nil
}

// Save implements frontier.Frontier.
func (s *Store) Save(ctx context.Context, page *model.Page) error {
	if err := frontier.ValidatePage(page); err != nil {
		return err
	}

	now := s.now()
	if page.ID == 0 {
		err := s.db.QueryRowContext(ctx, insertPageQuery,
			page.URL, frontier.URLKey(page.URL), page.Title, page.Description, page.State.String(), page.AdminDisabled,
			now, nullTime(page.IndexedAt),
		).Scan(&page.ID)
		if err != nil {
			return fmt.Errorf("failed to insert page: %w", err)
		}
		page.CreatedAt = now
		page.UpdatedAt = now
		return nil
	}

	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, updatePageQuery,
		page.URL, frontier.URLKey(page.URL), page.Title, page.Description, page.State.String(), page.AdminDisabled,
		now, nullTime(page.IndexedAt), page.ID,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return frontier.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	page.CreatedAt = createdAt
	page.UpdatedAt = now
	return nil
}

// PendingBatch implements frontier.Frontier.
func (s *Store) PendingBatch(ctx context.Context, limit int) ([]*model.Page, error) {
	if limit <= 0 {
		return nil, frontier.ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx, pendingBatchQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending pages: %w", err)
	}
	return scanPages(rows)
}

// PickOneAndLock implements frontier.Frontier. A concurrent caller blocks
// on the row locks and then finds no pending rows left.
func (s *Store) PickOneAndLock(ctx context.Context) (*model.Page, error) {
	rows, err := s.db.QueryContext(ctx, lockAllPendingQuery, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending pages: %w", err)
	}
	locked, err := scanPages(rows)
	if err != nil {
		return nil, err
	}

	var chosen *model.Page
	for _, p := range locked {
		if chosen == nil || p.ID < chosen.ID {
			chosen = p
		}
	}
	return chosen, nil
}

// Claim implements frontier.Frontier.
func (s *Store) Claim(ctx context.Context) (*model.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, claimQuery, s.now()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim page: %w", err)
	}
	return p, nil
}

// Get implements frontier.Store.
func (s *Store) Get(ctx context.Context, id int64) (*model.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, getPageQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, frontier.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return p, nil
}

// SetAdminDisabled implements frontier.Store.
func (s *Store) SetAdminDisabled(ctx context.Context, id int64, disabled bool) error {
	result, err := s.db.ExecContext(ctx, setDisabledQuery, disabled, s.now(), id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return frontier.ErrNotFound
	}
	return nil
}

// Release implements frontier.Store.
func (s *Store) Release(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var state string
	err = tx.QueryRowContext(ctx, lockPageByIDQuery, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return frontier.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up page: %w", err)
	}
	if _, err := tx.ExecContext(ctx, releaseQuery, s.now(), id); err != nil {
		return fmt.Errorf("failed to release page: %w", err)
	}
	return tx.Commit()
}

// UnlockAll implements frontier.Store.
func (s *Store) UnlockAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, unlockAllQuery, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to unlock pages: %w", err)
	}
	return result.RowsAffected()
}

// Search implements frontier.Store.
func (s *Store) Search(ctx context.Context, text string, limit int) ([]*model.Page, error) {
	if text == "" {
		return nil, nil
	}
	query := searchQuery
	args := []any{text}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}
	return scanPages(rows)
}

// List implements frontier.Store.
func (s *Store) List(ctx context.Context, filter frontier.ListFilter) ([]*model.Page, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString("SELECT " + pageColumns + " FROM pages")
	if filter.State != nil {
		args = append(args, filter.State.String())
		b.WriteString(" WHERE state = $" + strconv.Itoa(len(args)))
	}
	if filter.Newest {
		b.WriteString(" ORDER BY id DESC")
	} else {
		b.WriteString(" ORDER BY id")
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return scanPages(rows)
}

// Stats implements frontier.Store.
func (s *Store) Stats(ctx context.Context) (model.FrontierStats, error) {
	var stats model.FrontierStats

	rows, err := s.db.QueryContext(ctx, statsQuery)
	if err != nil {
		return stats, fmt.Errorf("failed to count pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			state string
			count int
		)
		if err := rows.Scan(&state, &count); err != nil {
			return stats, fmt.Errorf("failed to scan count: %w", err)
		}
		switch state {
		case model.StatePending.String():
			stats.Pending = count
		case model.StateLocked.String():
			stats.Locked = count
		case model.StateIndexed.String():
			stats.Indexed = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate counts: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, disabledCountQuery).Scan(&stats.Disabled); err != nil {
		return stats, fmt.Errorf("failed to count disabled pages: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*model.Page, error) {
	var (
		p         model.Page
		state     string
		indexedAt sql.NullTime
	)
	if err := row.Scan(
		&p.ID,
		&p.URL,
		&p.Title,
		&p.Description,
		&state,
		&p.AdminDisabled,
		&p.CreatedAt,
		&p.UpdatedAt,
		&indexedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := model.ParseCrawlState(state)
	if err != nil {
		return nil, err
	}
	p.State = parsed
	if indexedAt.Valid {
		p.IndexedAt = indexedAt.Time
	}
	return &p, nil
}

func scanPages(rows *sql.Rows) ([]*model.Page, error) {
	defer rows.Close()

	var pages []*model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pages: %w", err)
	}
	return pages, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
