package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
)

// DefaultHistoryLimit is the number of visited locations kept on disk.
const DefaultHistoryLimit = 500

// Store is a unified SQLite-based storage that provides access to
// the session, history and bookmark stores through wrapper types.
type Store struct {
	db           *sql.DB
	path         string
	historyLimit int
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.medmart/data/medmart.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".medmart", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "medmart.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:           db,
		path:         dbPath,
		historyLimit: DefaultHistoryLimit,
	}

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

// SetHistoryLimit changes how many locations RecordLocation keeps.
// Values below one disable pruning.
func (s *Store) SetHistoryLimit(n int) {
	s.historyLimit = n
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// LocationStore returns a LocationStore interface backed by this store.
func (s *Store) LocationStore() driven.LocationStore {
	return &locationStore{store: s}
}

// BookmarkStore returns a BookmarkStore interface backed by this store.
func (s *Store) BookmarkStore() driven.BookmarkStore {
	return &bookmarkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

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
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// LoadSession returns the stored session.
func (s *sessionStore) LoadSession(ctx context.Context) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT token, expires_at, user_id, user_name, user_email, user_role
		FROM sessions WHERE id = 1
	`)

	var session domain.Session
	var expiresAt sql.NullTime
	var role int
	if err := row.Scan(&session.Token, &expiresAt, &session.User.ID,
		&session.User.Name, &session.User.Email, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	session.User.Role = domain.Role(role)
	if expiresAt.Valid {
		session.ExpiresAt = expiresAt.Time
	}
	return &session, nil
}

// SaveSession replaces the stored session.
func (s *sessionStore) SaveSession(ctx context.Context, session domain.Session) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, expires_at, user_id, user_name, user_email, user_role, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			expires_at = excluded.expires_at,
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			user_role = excluded.user_role,
			saved_at = excluded.saved_at
	`, session.Token, nullTime(session.ExpiresAt), session.User.ID,
		session.User.Name, session.User.Email, int(session.User.Role), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// ClearSession removes the stored session.
func (s *sessionStore) ClearSession(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// ==================== Location Store ====================

// locationStore implements driven.LocationStore.
type locationStore struct {
	store *Store
}

var _ driven.LocationStore = (*locationStore)(nil)

// RecordLocation appends a location and prunes history beyond the limit.
func (s *locationStore) RecordLocation(ctx context.Context, loc domain.Location) error {
	if loc.VisitedAt.IsZero() {
		loc.VisitedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx,
		"INSERT INTO locations (query, visited_at) VALUES (?, ?)",
		loc.Query.Encode(), loc.VisitedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording location: %w", err)
	}

	if s.store.historyLimit > 0 {
		_, err = s.store.db.ExecContext(ctx, `
			DELETE FROM locations WHERE seq NOT IN (
				SELECT seq FROM locations ORDER BY seq DESC LIMIT ?
			)
		`, s.store.historyLimit)
		if err != nil {
			return fmt.Errorf("pruning locations: %w", err)
		}
	}
	return nil
}

// RecentLocations returns up to limit locations, newest first.
func (s *locationStore) RecentLocations(ctx context.Context, limit int) ([]domain.Location, error) {
	if limit <= 0 {
		return []domain.Location{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT query, visited_at FROM locations ORDER BY seq DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0, limit)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}

	return locations, nil
}

// LatestLocation returns the most recent location.
func (s *locationStore) LatestLocation(ctx context.Context) (*domain.Location, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT query, visited_at FROM locations ORDER BY seq DESC LIMIT 1")

	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return loc, err
}

// ==================== Bookmark Store ====================

// bookmarkStore implements driven.BookmarkStore.
type bookmarkStore struct {
	store *Store
}

var _ driven.BookmarkStore = (*bookmarkStore)(nil)

// SaveBookmark stores a bookmark, replacing any bookmark with the same name.
func (s *bookmarkStore) SaveBookmark(ctx context.Context, b domain.Bookmark) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, name, query, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			query = excluded.query,
			created_at = excluded.created_at
	`, b.ID, b.Name, b.Query.Encode(), b.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}
	return nil
}

// GetBookmark returns a bookmark by name.
func (s *bookmarkStore) GetBookmark(ctx context.Context, name string) (*domain.Bookmark, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT id, name, query, created_at FROM bookmarks WHERE name = ?", name)

	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

// ListBookmarks returns all bookmarks sorted by name.
func (s *bookmarkStore) ListBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id, name, query, created_at FROM bookmarks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []domain.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

// DeleteBookmark removes a bookmark by name.
func (s *bookmarkStore) DeleteBookmark(ctx context.Context, name string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (*domain.Location, error) {
	var query string
	var visitedAt time.Time
	if err := row.Scan(&query, &visitedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	return &domain.Location{
		Query:     domain.ParseQueryString(query),
		VisitedAt: visitedAt,
	}, nil
}

func scanBookmark(row scanner) (*domain.Bookmark, error) {
	var b domain.Bookmark
	var query string
	if err := row.Scan(&b.ID, &b.Name, &query, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning bookmark: %w", err)
	}
	b.Query = domain.ParseQueryString(query)
	return &b, nil
}

// nullTime stores the zero time as NULL.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
