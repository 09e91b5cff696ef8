// Package sqlite provides a frontier store backed by a single SQLite file.
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the binary
// cross-compiles without a C toolchain. All access goes through one
// connection: SQLite has a single writer anyway, and the selection
// operations rely on that serialization together with transactions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "linkspider.db"

// Compile-time check that Store implements frontier.Store.
var _ frontier.Store = (*Store)(nil)

const pageColumns = "id, url, title, description, state, admin_disabled, created_at, updated_at, indexed_at"

const (
	insertPageQuery = `
	INSERT INTO pages (url, url_key, title, description, state, admin_disabled, created_at, updated_at, indexed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	updatePageQuery = `
	UPDATE pages
	SET url = ?, url_key = ?, title = ?, description = ?, state = ?, admin_disabled = ?, updated_at = ?, indexed_at = ?
	WHERE id = ?
	`
	existsQuery = `
	SELECT EXISTS(
		SELECT 1 FROM pages
		WHERE url_key = ? AND admin_disabled = 0 AND state <> 'locked'
	)
	`
	pendingBatchQuery = `
	SELECT ` + pageColumns + ` FROM pages
	WHERE state = 'pending' AND admin_disabled = 0
	ORDER BY id
	LIMIT ?
	`
	lockAllPendingQuery = `
	UPDATE pages SET state = 'locked', updated_at = ?
	WHERE state = 'pending' AND admin_disabled = 0
	RETURNING ` + pageColumns
	claimQuery = `
	UPDATE pages SET state = 'locked', updated_at = ?
	WHERE id = (
		SELECT id FROM pages
		WHERE state = 'pending' AND admin_disabled = 0
		ORDER BY id
		LIMIT 1
	)
	RETURNING ` + pageColumns
	getPageQuery      = `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`
	setDisabledQuery  = `UPDATE pages SET admin_disabled = ?, updated_at = ? WHERE id = ?`
	releaseQuery      = `UPDATE pages SET state = 'pending', updated_at = ? WHERE id = ? AND state = 'locked'`
	unlockAllQuery    = `UPDATE pages SET state = 'pending', updated_at = ? WHERE state = 'locked'`
	pageIDExistsQuery = `SELECT EXISTS(SELECT 1 FROM pages WHERE id = ?)`
	searchQuery       = `
	SELECT ` + pageColumns + ` FROM pages
	WHERE state = 'indexed' AND admin_disabled = 0 AND instr(lower(description), lower(?)) > 0
	ORDER BY id
	`
	statsQuery    = `SELECT state, COUNT(*) FROM pages GROUP BY state`
	disabledQuery = `SELECT COUNT(*) FROM pages WHERE admin_disabled = 1`
)

// Store is a frontier store persisted in SQLite.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	now func() time.Time
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the frontier database inside dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has one writer, and transactions below rely
	// on callers queueing for the connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
		now:    func() time.Time { return time.Now().UTC() },
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
// url is deliberately not UNIQUE: duplicates from concurrent discovery are
// tolerated and uniqueness is only checked through Exists.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		url_key TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT 'pending',
		admin_disabled INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		indexed_at TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url_key);
	CREATE INDEX IF NOT EXISTS idx_pages_state ON pages(state, admin_disabled, id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
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
		result, err := s.db.ExecContext(ctx, insertPageQuery,
			page.URL, frontier.URLKey(page.URL), page.Title, page.Description, page.State.String(), page.AdminDisabled,
			formatTime(now), formatTime(now), formatTime(page.IndexedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert page: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read page id: %w", err)
		}
		page.ID = id
		page.CreatedAt = now
		page.UpdatedAt = now
		return nil
	}

	result, err := s.db.ExecContext(ctx, updatePageQuery,
		page.URL, frontier.URLKey(page.URL), page.Title, page.Description, page.State.String(), page.AdminDisabled,
		formatTime(now), formatTime(page.IndexedAt), page.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}
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

// PickOneAndLock implements frontier.Frontier. The whole pending set is
// locked by one statement and the lowest ID among the locked rows is
// returned.
func (s *Store) PickOneAndLock(ctx context.Context) (*model.Page, error) {
	rows, err := s.db.QueryContext(ctx, lockAllPendingQuery, formatTime(s.now()))
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
	p, err := scanPage(s.db.QueryRowContext(ctx, claimQuery, formatTime(s.now())))
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
	result, err := s.db.ExecContext(ctx, setDisabledQuery, disabled, formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	return requireAffected(result)
}

// Release implements frontier.Store.
func (s *Store) Release(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, pageIDExistsQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up page: %w", err)
	}
	if !exists {
		return frontier.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, releaseQuery, formatTime(s.now()), id); err != nil {
		return fmt.Errorf("failed to release page: %w", err)
	}
	return tx.Commit()
}

// UnlockAll implements frontier.Store.
func (s *Store) UnlockAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, unlockAllQuery, formatTime(s.now()))
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
		query += " LIMIT ?"
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
		b.WriteString(" WHERE state = ?")
		args = append(args, filter.State.String())
	}
	if filter.Newest {
		b.WriteString(" ORDER BY id DESC")
	} else {
		b.WriteString(" ORDER BY id")
	}
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
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

	if err := s.db.QueryRowContext(ctx, disabledQuery).Scan(&stats.Disabled); err != nil {
		return stats, fmt.Errorf("failed to count disabled pages: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*model.Page, error) {
	var (
		p                               model.Page
		state                           string
		createdAt, updatedAt, indexedAt string
	)
	if err := row.Scan(
		&p.ID,
		&p.URL,
		&p.Title,
		&p.Description,
		&state,
		&p.AdminDisabled,
		&createdAt,
		&updatedAt,
		&indexedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := model.ParseCrawlState(state)
	if err != nil {
		return nil, err
	}
	p.State = parsed
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	p.IndexedAt = parseTimestamp(indexedAt)
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

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return frontier.ErrNotFound
	}
	return nil
}

// timestampFormats are the layouts tried when reading timestamps back.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
}

// formatTime renders t for storage. The zero time is stored as "".
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
