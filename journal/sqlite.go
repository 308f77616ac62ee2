package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores records in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and
// applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) RecordStep(r StepRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO steps (
			episode_id, step, time, instrument, proposed, final,
			allowed, multiplier, session_mult, news_mult,
			correlation_mult, unified_mult, crossmarket_mult,
			principles_mult, scenario_mult, blocks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EpisodeID, r.Step, r.Time.UTC().Format(time.RFC3339), r.Instrument,
		r.Proposed, r.Final, boolInt(r.Allowed), r.Multiplier,
		r.SessionMult, r.NewsMult, r.CorrelationMult, r.UnifiedMult,
		r.CrossMarketMult, r.PrinciplesMult, r.ScenarioMult, r.Blocks)
	if err != nil {
		return fmt.Errorf("journal: insert step: %w", err)
	}
	return nil
}

func (s *SQLite) RecordEpisode(r EpisodeRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO episodes (id, instrument, start_time, end_time, steps, blocked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Instrument,
		r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339),
		r.Steps, r.Blocked, r.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("journal: insert episode: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// StepsByEpisode loads an episode's steps in order.
func (s *SQLite) StepsByEpisode(episodeID string) ([]StepRecord, error) {
	rows, err := s.db.Query(`
		SELECT episode_id, step, time, instrument, proposed, final,
		       allowed, multiplier, session_mult, news_mult,
		       correlation_mult, unified_mult, crossmarket_mult,
		       principles_mult, scenario_mult, blocks
		FROM steps WHERE episode_id = ? ORDER BY step`, episodeID)
	if err != nil {
		return nil, fmt.Errorf("journal: query steps: %w", err)
	}
	defer rows.Close()
	return scanSteps(rows)
}

// BlockedSteps loads every vetoed step across all episodes, oldest
// first.
func (s *SQLite) BlockedSteps() ([]StepRecord, error) {
	rows, err := s.db.Query(`
		SELECT episode_id, step, time, instrument, proposed, final,
		       allowed, multiplier, session_mult, news_mult,
		       correlation_mult, unified_mult, crossmarket_mult,
		       principles_mult, scenario_mult, blocks
		FROM steps WHERE allowed = 0 ORDER BY time`)
	if err != nil {
		return nil, fmt.Errorf("journal: query blocked: %w", err)
	}
	defer rows.Close()
	return scanSteps(rows)
}

// Episodes lists completed episodes, newest first.
func (s *SQLite) Episodes() ([]EpisodeRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, instrument, start_time, end_time, steps, blocked, created_at
		FROM episodes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("journal: query episodes: %w", err)
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		var r EpisodeRecord
		var start, end, created string
		if err := rows.Scan(&r.ID, &r.Instrument, &start, &end, &r.Steps, &r.Blocked, &created); err != nil {
			return nil, err
		}
		if r.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, err
		}
		if r.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanSteps(rows *sql.Rows) ([]StepRecord, error) {
	var out []StepRecord
	for rows.Next() {
		var r StepRecord
		var ts string
		var allowed int
		err := rows.Scan(&r.EpisodeID, &r.Step, &ts, &r.Instrument,
			&r.Proposed, &r.Final, &allowed, &r.Multiplier,
			&r.SessionMult, &r.NewsMult, &r.CorrelationMult,
			&r.UnifiedMult, &r.CrossMarketMult, &r.PrinciplesMult,
			&r.ScenarioMult, &r.Blocks)
		if err != nil {
			return nil, err
		}
		if r.Time, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, err
		}
		r.Allowed = allowed != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
