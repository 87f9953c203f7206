package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quill-editor/quill/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "quill.db"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.quill/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quill", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer; a single connection keeps batch
	// transactions from failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PostStore returns a PostStore interface backed by this store.
func (s *Store) PostStore() driven.PostStore {
	return &postStore{store: s}
}

// SiteStore returns a SiteStore interface backed by this store.
func (s *Store) SiteStore() driven.SiteStore {
	return &siteStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate runs all pending migrations. Each migration and its version
// record are applied in one transaction.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Post Store ====================

// postStore implements driven.PostStore.
type postStore struct {
	store *Store
}

var _ driven.PostStore = (*postStore)(nil)

const postColumns = `id, site_id, remote_id, title, content, excerpt, slug, status, sync_status,
	created_at, modified_at, published_at, last_remote_modified_at,
	last_synced_modified_at, last_synced_hash, remote_status`

const upsertPost = `
	INSERT INTO posts (` + postColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		site_id = excluded.site_id,
		remote_id = excluded.remote_id,
		title = excluded.title,
		content = excluded.content,
		excerpt = excluded.excerpt,
		slug = excluded.slug,
		status = excluded.status,
		sync_status = excluded.sync_status,
		created_at = excluded.created_at,
		modified_at = excluded.modified_at,
		published_at = excluded.published_at,
		last_remote_modified_at = excluded.last_remote_modified_at,
		last_synced_modified_at = excluded.last_synced_modified_at,
		last_synced_hash = excluded.last_synced_hash,
		remote_status = excluded.remote_status
`

func postArgs(p *domain.Post) []any {
	var remoteID any
	if p.RemoteID != nil {
		remoteID = *p.RemoteID
	}
	return []any{
		p.ID, p.SiteID, remoteID, p.Title, p.Content, p.Excerpt, p.Slug,
		string(p.Status), string(p.SyncStatus),
		p.CreatedAt.UTC(), p.ModifiedAt.UTC(),
		nullTime(p.PublishedAt), nullTime(p.LastRemoteModifiedAt),
		nullTime(p.LastSyncedModifiedAt), p.LastSyncedHash, p.RemoteStatus,
	}
}

// Save stores or updates a post.
func (s *postStore) Save(ctx context.Context, post *domain.Post) error {
	if _, err := s.store.db.ExecContext(ctx, upsertPost, postArgs(post)...); err != nil {
		return fmt.Errorf("saving post: %w", err)
	}
	return nil
}

// SaveBatch stores or updates all posts in one transaction.
func (s *postStore) SaveBatch(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertPost)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, post := range posts {
		if _, err := stmt.ExecContext(ctx, postArgs(post)...); err != nil {
			return fmt.Errorf("saving post %s: %w", post.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a post by local ID.
func (s *postStore) Get(ctx context.Context, id string) (*domain.Post, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	return scanPost(row)
}

// GetByRemoteID retrieves the post mirrored from a remote post.
func (s *postStore) GetByRemoteID(ctx context.Context, siteID string, remoteID int64) (*domain.Post, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE site_id = ? AND remote_id = ?", siteID, remoteID)
	return scanPost(row)
}

// List returns posts matching the filter, most recently modified first.
func (s *postStore) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	var (
		where []string
		args  []any
	)
	if filter.SiteID != "" {
		where = append(where, "site_id = ?")
		args = append(args, filter.SiteID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.SyncStatus != "" {
		where = append(where, "sync_status = ?")
		args = append(args, string(filter.SyncStatus))
	}
	if filter.OnlyUnsynced {
		where = append(where, "remote_id IS NULL")
	}

	query := "SELECT " + postColumns + " FROM posts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY modified_at DESC, id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// Delete removes a post by local ID.
func (s *postStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// DeleteAll removes every post.
func (s *postStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM posts")
	if err != nil {
		return 0, fmt.Errorf("deleting posts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted posts: %w", err)
	}
	return int(n), nil
}

// ==================== Site Store ====================

// siteStore implements driven.SiteStore.
type siteStore struct {
	store *Store
}

var _ driven.SiteStore = (*siteStore)(nil)

// Save stores or updates a site configuration.
func (s *siteStore) Save(ctx context.Context, site *domain.SiteConfiguration) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sites (id, site_url, username, is_wordpress_com, created_at, last_sync_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			site_url = excluded.site_url,
			username = excluded.username,
			is_wordpress_com = excluded.is_wordpress_com,
			last_sync_at = excluded.last_sync_at
	`, site.ID, site.SiteURL, site.Username, site.IsWordPressCom,
		site.CreatedAt.UTC(), nullTime(site.LastSyncAt))

	if err != nil {
		return fmt.Errorf("saving site: %w", err)
	}
	return nil
}

// Get retrieves a site configuration by ID.
func (s *siteStore) Get(ctx context.Context, id string) (*domain.SiteConfiguration, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, site_url, username, is_wordpress_com, created_at, last_sync_at
		FROM sites WHERE id = ?
	`, id)
	return scanSite(row)
}

// List returns all site configurations, oldest first.
func (s *siteStore) List(ctx context.Context) ([]*domain.SiteConfiguration, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, site_url, username, is_wordpress_com, created_at, last_sync_at
		FROM sites ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	defer rows.Close()

	var sites []*domain.SiteConfiguration
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}
	return sites, nil
}

// Delete removes a site configuration.
func (s *siteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sites WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
// Sessions are keyed by the calendar day in the location of Date.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

const dayLayout = "2006-01-02"

// Save stores a session, replacing any session for the same day and context.
func (s *sessionStore) Save(ctx context.Context, session domain.WritingSession) error {
	day := domain.StartOfDay(session.Date)
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO writing_sessions (day, context, date_unix, words_written)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(day, context) DO UPDATE SET
			date_unix = excluded.date_unix,
			words_written = excluded.words_written
	`, day.Format(dayLayout), session.Context, day.Unix(), session.WordsWritten)

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Get retrieves the session for a day and context.
func (s *sessionStore) Get(ctx context.Context, day time.Time, sessionContext string) (*domain.WritingSession, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT context, date_unix, words_written
		FROM writing_sessions WHERE day = ? AND context = ?
	`, domain.StartOfDay(day).Format(dayLayout), sessionContext)

	session, err := scanSession(row, day.Location())
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListRange returns sessions with from <= Date < to, oldest first.
func (s *sessionStore) ListRange(ctx context.Context, from, to time.Time) ([]domain.WritingSession, error) {
	return s.list(ctx, from.Location(), `
		SELECT context, date_unix, words_written FROM writing_sessions
		WHERE date_unix >= ? AND date_unix < ?
		ORDER BY date_unix, context
	`, from.Unix(), to.Unix())
}

// ListAll returns every session, oldest first, in local time.
func (s *sessionStore) ListAll(ctx context.Context) ([]domain.WritingSession, error) {
	return s.list(ctx, time.Local, `
		SELECT context, date_unix, words_written FROM writing_sessions
		ORDER BY date_unix, context
	`)
}

func (s *sessionStore) list(ctx context.Context, loc *time.Location, query string, args ...any) ([]domain.WritingSession, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.WritingSession
	for rows.Next() {
		session, err := scanSession(rows, loc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*domain.Post, error) {
	var (
		post                                  domain.Post
		status, syncStatus                    string
		remoteID                              sql.NullInt64
		published, remoteModified, syncedTime sql.NullTime
	)
	err := row.Scan(&post.ID, &post.SiteID, &remoteID, &post.Title, &post.Content, &post.Excerpt,
		&post.Slug, &status, &syncStatus, &post.CreatedAt, &post.ModifiedAt,
		&published, &remoteModified, &syncedTime, &post.LastSyncedHash, &post.RemoteStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	post.Status = domain.PostStatus(status)
	post.SyncStatus = domain.SyncStatus(syncStatus)
	if remoteID.Valid {
		id := remoteID.Int64
		post.RemoteID = &id
	}
	post.PublishedAt = timePtr(published)
	post.LastRemoteModifiedAt = timePtr(remoteModified)
	post.LastSyncedModifiedAt = timePtr(syncedTime)
	return &post, nil
}

func scanSite(row scanner) (*domain.SiteConfiguration, error) {
	var (
		site     domain.SiteConfiguration
		lastSync sql.NullTime
	)
	err := row.Scan(&site.ID, &site.SiteURL, &site.Username, &site.IsWordPressCom, &site.CreatedAt, &lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	site.LastSyncAt = timePtr(lastSync)
	return &site, nil
}

func scanSession(row scanner, loc *time.Location) (domain.WritingSession, error) {
	var (
		session  domain.WritingSession
		dateUnix int64
	)
	err := row.Scan(&session.Context, &dateUnix, &session.WordsWritten)
	if errors.Is(err, sql.ErrNoRows) {
		return session, domain.ErrNotFound
	}
	if err != nil {
		return session, fmt.Errorf("scanning session: %w", err)
	}
	session.Date = time.Unix(dateUnix, 0).In(loc)
	return session, nil
}

// nullTime converts an optional time for storage.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
