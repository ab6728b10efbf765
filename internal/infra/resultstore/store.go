// Package resultstore persists run history in a local SQLite database.
package resultstore

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dbFile = "daylight.db"

type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the run database under the runs directory and
// applies pending migrations.
func Open(root, runsDir string) (*Store, error) {
	dir := filepath.Join(root, runsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.OpError{
			Op:   "resultstore.open",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	path := filepath.Join(dir, dbFile)
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "resultstore.open",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &domain.OpError{
			Op:   "resultstore.open",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return &domain.OpError{
			Op:   "resultstore.migrate",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return &domain.OpError{
			Op:   "resultstore.migrate",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
