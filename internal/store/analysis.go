package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Analysis represents a stored analysis result. Document holds the full
// scored result as JSON; the other fields mirror its headline values so
// listings never need to parse documents.
type Analysis struct {
	ID           string
	Exercise     string
	OverallScore int
	Confidence   float64
	Source       string
	Document     []byte
	CreatedAt    time.Time
}

// AnalysisRepository provides CRUD operations for stored analyses.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts a new analysis into the database.
func (r *AnalysisRepository) Create(a *Analysis) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO analyses (id, exercise, overall_score, confidence, source, document, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Exercise, a.OverallScore, a.Confidence, a.Source, string(a.Document), a.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an analysis by its ID.
func (r *AnalysisRepository) GetByID(id string) (*Analysis, error) {
	a := &Analysis{}
	var document string

	err := r.db.QueryRow(
		`SELECT id, exercise, overall_score, confidence, source, document, created_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Exercise, &a.OverallScore, &a.Confidence, &a.Source, &document, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Document = []byte(document)
	return a, nil
}

// List retrieves analyses ordered newest first. An empty exercise means
// all exercises; a limit of 0 means no limit.
func (r *AnalysisRepository) List(exercise string, limit int) ([]*Analysis, error) {
	query := `SELECT id, exercise, overall_score, confidence, source, document, created_at
	          FROM analyses`
	var args []any

	if exercise != "" {
		query += ` WHERE exercise = ?`
		args = append(args, exercise)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a := &Analysis{}
		var document string

		err := rows.Scan(&a.ID, &a.Exercise, &a.OverallScore, &a.Confidence, &a.Source, &document, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		a.Document = []byte(document)
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}

// Delete removes an analysis from the database by its ID.
func (r *AnalysisRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
