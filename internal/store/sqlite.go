package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS missions (
	id          TEXT PRIMARY KEY,
	festival    TEXT NOT NULL,
	type        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	from_cache  INTEGER NOT NULL DEFAULT 0,
	rows        INTEGER NOT NULL DEFAULT 0,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_missions_status ON missions(status);
CREATE INDEX IF NOT EXISTS idx_missions_festival ON missions(festival);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateMission(ctx context.Context, festival, eventType string) (*Mission, error) {
	m := &Mission{
		ID:        uuid.New().String(),
		Festival:  festival,
		Type:      eventType,
		Status:    MissionRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (id, festival, type, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Festival, m.Type, string(m.Status), m.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert mission")
	}
	return m, nil
}

func (s *SQLiteStore) CompleteMission(ctx context.Context, id string, status MissionStatus, fromCache bool, rows int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE missions SET status = ?, from_cache = ?, rows = ?, finished_at = ? WHERE id = ?`,
		string(status), boolToInt(fromCache), rows, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete mission %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: mission %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) ListMissions(ctx context.Context, limit int) ([]Mission, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, festival, type, status, from_cache, rows, started_at, finished_at
		 FROM missions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list missions")
	}
	defer rows.Close() //nolint:errcheck

	var missions []Mission
	for rows.Next() {
		var m Mission
		var fromCache int
		var finished sql.NullTime
		if err := rows.Scan(&m.ID, &m.Festival, &m.Type, &m.Status, &fromCache, &m.Rows, &m.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan mission")
		}
		m.FromCache = fromCache != 0
		if finished.Valid {
			t := finished.Time
			m.FinishedAt = &t
		}
		missions = append(missions, m)
	}
	return missions, eris.Wrap(rows.Err(), "sqlite: iterate missions")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
