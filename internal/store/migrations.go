package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Analyses table - one row per completed analysis. The scored
		// document (phases, angles, errors, suggestions) is kept as JSON
		// in full; the scalar columns exist for listing and filtering.
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			exercise TEXT NOT NULL,
			overall_score INTEGER NOT NULL,
			confidence REAL NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			document TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_analyses_exercise ON analyses(exercise)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
