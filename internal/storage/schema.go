package storage

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  grade TEXT NOT NULL,
  credit_hours DOUBLE PRECISION NOT NULL,
  semester TEXT NOT NULL,
  year INTEGER NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS courses_user_idx ON courses (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS gpa_history (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  gpa DOUBLE PRECISION NOT NULL,
  cumulative_gpa DOUBLE PRECISION NOT NULL,
  semester TEXT NOT NULL,
  year INTEGER NOT NULL,
  calculated_at TIMESTAMPTZ NOT NULL,
  UNIQUE (user_id, semester, year)
);

CREATE TABLE IF NOT EXISTS mood_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  mood TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  activities TEXT[] NOT NULL DEFAULT '{}',
  created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS mood_entries_user_idx ON mood_entries (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS journal_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  tags TEXT[] NOT NULL DEFAULT '{}',
  mood_before TEXT NOT NULL DEFAULT '',
  mood_after TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quiz_questions (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES quiz_categories(id) ON DELETE CASCADE,
  question TEXT NOT NULL,
  options TEXT[] NOT NULL,
  correct_answer INTEGER NOT NULL,
  explanation TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quiz_results (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  answers INTEGER[] NOT NULL,
  time_taken INTEGER NOT NULL,
  completed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS colleges (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  gpa_requirement DOUBLE PRECISION,
  sat_requirement INTEGER,
  majors TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS saved_colleges (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  college_id TEXT NOT NULL REFERENCES colleges(id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL,
  UNIQUE (user_id, college_id)
);

CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  due_date TIMESTAMPTZ,
  priority TEXT NOT NULL,
  status TEXT NOT NULL,
  completed_at TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL
);
`

// SQLite keeps times as unix nanoseconds and lists as JSON text.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  grade TEXT NOT NULL,
  credit_hours REAL NOT NULL,
  semester TEXT NOT NULL,
  year INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS courses_user_idx ON courses (user_id, created_at);

CREATE TABLE IF NOT EXISTS gpa_history (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  gpa REAL NOT NULL,
  cumulative_gpa REAL NOT NULL,
  semester TEXT NOT NULL,
  year INTEGER NOT NULL,
  calculated_at INTEGER NOT NULL,
  UNIQUE (user_id, semester, year)
);

CREATE TABLE IF NOT EXISTS mood_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  mood TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  activities_json TEXT NOT NULL DEFAULT '[]',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS mood_entries_user_idx ON mood_entries (user_id, created_at);

CREATE TABLE IF NOT EXISTS journal_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  tags_json TEXT NOT NULL DEFAULT '[]',
  mood_before TEXT NOT NULL DEFAULT '',
  mood_after TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quiz_questions (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  question TEXT NOT NULL,
  options_json TEXT NOT NULL,
  correct_answer INTEGER NOT NULL,
  explanation TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quiz_results (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  answers_json TEXT NOT NULL,
  time_taken INTEGER NOT NULL,
  completed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS colleges (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  gpa_requirement REAL,
  sat_requirement INTEGER,
  majors_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS saved_colleges (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  college_id TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE (user_id, college_id)
);

CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  due_date INTEGER,
  priority TEXT NOT NULL,
  status TEXT NOT NULL,
  completed_at INTEGER,
  created_at INTEGER NOT NULL
);
`

type execer func(ctx context.Context, stmt string) error

// applySchema runs each statement of schema in order. Statements are split on
// semicolons, which is enough for the plain DDL above.
func applySchema(ctx context.Context, schema string, exec execer) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "storage: schema statement %q", firstLine(stmt))
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
