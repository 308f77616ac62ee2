package journal

const schema = `
CREATE TABLE IF NOT EXISTS steps (
	episode_id       TEXT    NOT NULL,
	step             INTEGER NOT NULL,
	time             TEXT    NOT NULL,
	instrument       TEXT    NOT NULL,
	proposed         REAL    NOT NULL,
	final            REAL    NOT NULL,
	allowed          INTEGER NOT NULL,
	multiplier       REAL    NOT NULL,
	session_mult     REAL    NOT NULL,
	news_mult        REAL    NOT NULL,
	correlation_mult REAL    NOT NULL,
	unified_mult     REAL    NOT NULL,
	crossmarket_mult REAL    NOT NULL,
	principles_mult  REAL    NOT NULL,
	scenario_mult    REAL    NOT NULL,
	blocks           TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (episode_id, step)
);

CREATE TABLE IF NOT EXISTS episodes (
	id         TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	steps      INTEGER NOT NULL,
	blocked    INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_steps_time ON steps (time);
`
