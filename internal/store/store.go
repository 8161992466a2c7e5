package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store couche de persistance SQLite (historique des traitements)
type Store struct {
	db *sql.DB
}

// New crée une instance de Store
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("création du répertoire de données: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ouverture de la base: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connexion à la base: %w", err)
	}

	// SQLite: une seule connexion
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialisation du schéma: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("lecture de schema.sql: %w", err)
	}

	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("exécution du schéma: %w", err)
	}

	return nil
}

// Close ferme la connexion
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
