package store

import (
	"database/sql"
	"fmt"
)

// Run un traitement enregistré dans l'historique
type Run struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Filename      string `json:"filename"`
	OutputPath    string `json:"outputPath"`
	LectureRows   int    `json:"lectureRows"`
	InterimRows   int    `json:"interimRows"`
	BadakanRows   int    `json:"badakanRows"`
	SkippedCells  int    `json:"skippedCells"`
	UnmatchedDays int    `json:"unmatchedDays"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	CreatedAt     string `json:"createdAt"`
	CompletedAt   string `json:"completedAt,omitempty"`
}

// CreateRun enregistre un traitement en cours
func (s *Store) CreateRun(id, kind, filename string) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, kind, filename, status)
		VALUES (?, ?, ?, 'processing')
	`, id, kind, filename)
	if err != nil {
		return fmt.Errorf("enregistrement du traitement: %w", err)
	}
	return nil
}

// FinishRun clôt un traitement avec ses compteurs, ou son message d'erreur
func (s *Store) FinishRun(id string, run Run) error {
	status := "done"
	if run.ErrorMessage != "" {
		status = "error"
	}
	_, err := s.db.Exec(`
		UPDATE runs SET
			output_path = ?,
			lecture_rows = ?,
			interim_rows = ?,
			badakan_rows = ?,
			skipped_cells = ?,
			unmatched_days = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, run.OutputPath, run.LectureRows, run.InterimRows, run.BadakanRows,
		run.SkippedCells, run.UnmatchedDays, status, run.ErrorMessage, id)
	if err != nil {
		return fmt.Errorf("clôture du traitement: %w", err)
	}
	return nil
}

// ListRuns retourne les traitements les plus récents
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, kind, filename, output_path,
			lecture_rows, interim_rows, badakan_rows,
			skipped_cells, unmatched_days,
			status, error_message,
			created_at, IFNULL(completed_at, '')
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("lecture de l'historique: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Filename, &r.OutputPath,
			&r.LectureRows, &r.InterimRows, &r.BadakanRows,
			&r.SkippedCells, &r.UnmatchedDays,
			&r.Status, &r.ErrorMessage,
			&r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountRuns nombre total de traitements enregistrés
func (s *Store) CountRuns() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return n, nil
}
