package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Document is the persisted row shape for a document, mirroring the
// teacher's (referenced but unshipped) database.Document.
type Document struct {
	ID        string    `db:"id"`
	Content   string    `db:"content"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store wraps a sqlx connection to Postgres, providing the document
// persistence operations cmd/jupiter-server calls on an autosave timer.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres at the given DSN and brings the schema up to
// date against the SQL files in migrationsPath before handing back a
// Store, mirroring apex-build-platform's migrate-then-serve startup
// order (a dedicated *sql.DB drives the migration, since golang-migrate's
// postgres driver closes whatever connection it's handed on Close — the
// app's own pooled connection must stay open).
func Open(host, port, user, pass, name, migrationsPath string) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, name)

	migrationDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open for migration: %w", err)
	}
	runner, err := NewMigrationRunner(migrationDB, migrationsPath)
	if err != nil {
		migrationDB.Close()
		return nil, err
	}
	if err := runner.Up(); err != nil {
		runner.Close()
		return nil, err
	}
	if err := runner.Close(); err != nil {
		return nil, fmt.Errorf("store: closing migration runner: %w", err)
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDocument loads a document by id, or sql.ErrNoRows via sqlx if absent.
func (s *Store) GetDocument(id string) (*Document, error) {
	var doc Document
	err := s.db.Get(&doc, `SELECT id, content, version, created_at, updated_at FROM documents WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument inserts a new document row.
func (s *Store) CreateDocument(id, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO documents (id, content, version) VALUES ($1, $2, 1)`,
		id, content,
	)
	return err
}

// UpdateDocument persists a document's current content and version.
func (s *Store) UpdateDocument(id, content string, version int) error {
	_, err := s.db.Exec(
		`UPDATE documents SET content = $2, version = $3, updated_at = now() WHERE id = $1`,
		id, content, version,
	)
	return err
}

// SaveDocumentHistory appends an entry to the document's append-only
// history log.
func (s *Store) SaveDocumentHistory(id, content, author string, version int) error {
	_, err := s.db.Exec(
		`INSERT INTO document_history (document_id, content, author, version) VALUES ($1, $2, $3, $4)`,
		id, content, author, version,
	)
	return err
}
