package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, errors.Wrap(err, "storage: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, errors.Wrap(err, "storage: ping postgres")
	}
	err = applySchema(ctx, schemaPostgres, func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
	if err != nil {
		pool.Close()
		logger.Errorf("failed to apply postgres schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// exec runs a write and turns "no rows touched" into ErrNotFound when mustHit is set.
func (p *PostgresStorage) exec(ctx context.Context, what string, mustHit bool, sql string, args ...any) error {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to write %s: %v", what, err)
		return errors.Wrapf(err, "storage: write %s", what)
	}
	if mustHit && tag.RowsAffected() == 0 {
		return errors.Wrapf(internal.ErrNotFound, "storage: %s", what)
	}
	return nil
}

func noRows(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(what, id)
	}
	return errors.Wrapf(err, "storage: read %s %s", what, id)
}

// limitArg maps limit <= 0 to NULL, which Postgres treats as no limit.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// --- CourseRepository ---
func (p *PostgresStorage) SaveCourse(ctx context.Context, c *internal.Course) error {
	return p.exec(ctx, "course", false,
		`INSERT INTO courses (id, user_id, name, grade, credit_hours, semester, year, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.UserID, c.Name, c.Grade, c.CreditHours, c.Semester, c.Year, c.CreatedAt)
}

func (p *PostgresStorage) ListCourses(ctx context.Context, userID string) ([]internal.Course, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, name, grade, credit_hours, semester, year, created_at
		 FROM courses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query courses: %v", err)
		return nil, errors.Wrap(err, "storage: query courses")
	}
	defer rows.Close()

	courses := []internal.Course{}
	for rows.Next() {
		var c internal.Course
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Grade, &c.CreditHours, &c.Semester, &c.Year, &c.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan course: %v", err)
			return nil, errors.Wrap(err, "storage: scan course")
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (p *PostgresStorage) DeleteCourse(ctx context.Context, userID, id string) error {
	return p.exec(ctx, "course "+id, true, `DELETE FROM courses WHERE id = $1 AND user_id = $2`, id, userID)
}

// --- GPARepository ---
func (p *PostgresStorage) InsertGPASnapshotIfAbsent(ctx context.Context, s *internal.GPASnapshot) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO gpa_history (id, user_id, gpa, cumulative_gpa, semester, year, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, semester, year) DO NOTHING`,
		s.ID, s.UserID, s.GPA, s.CumulativeGPA, s.Semester, s.Year, s.CalculatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert gpa snapshot: %v", err)
		return false, errors.Wrap(err, "storage: insert gpa snapshot")
	}
	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStorage) ListGPASnapshots(ctx context.Context, userID string) ([]internal.GPASnapshot, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, gpa, cumulative_gpa, semester, year, calculated_at
		 FROM gpa_history WHERE user_id = $1 ORDER BY calculated_at ASC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query gpa history: %v", err)
		return nil, errors.Wrap(err, "storage: query gpa history")
	}
	defer rows.Close()

	out := []internal.GPASnapshot{}
	for rows.Next() {
		var s internal.GPASnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.GPA, &s.CumulativeGPA, &s.Semester, &s.Year, &s.CalculatedAt); err != nil {
			return nil, errors.Wrap(err, "storage: scan gpa snapshot")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// --- MoodRepository ---
func (p *PostgresStorage) SaveMoodEntry(ctx context.Context, e *internal.MoodEntry) error {
	return p.exec(ctx, "mood entry", false,
		`INSERT INTO mood_entries (id, user_id, mood, note, activities, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Mood, e.Note, nonNil(e.Activities), e.CreatedAt)
}

func (p *PostgresStorage) ListMoodEntries(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, mood, note, activities, created_at
		 FROM mood_entries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limitArg(limit))
	if err != nil {
		p.logger.Errorf("failed to query mood entries: %v", err)
		return nil, errors.Wrap(err, "storage: query mood entries")
	}
	defer rows.Close()

	out := []internal.MoodEntry{}
	for rows.Next() {
		var e internal.MoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.Note, &e.Activities, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "storage: scan mood entry")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- JournalRepository ---
func (p *PostgresStorage) SaveJournalEntry(ctx context.Context, e *internal.JournalEntry) error {
	return p.exec(ctx, "journal entry", false,
		`INSERT INTO journal_entries (id, user_id, title, content, tags, mood_before, mood_after, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, e.Title, e.Content, nonNil(e.Tags), e.MoodBefore, e.MoodAfter, e.CreatedAt, e.UpdatedAt)
}

func (p *PostgresStorage) UpdateJournalEntry(ctx context.Context, e *internal.JournalEntry) error {
	return p.exec(ctx, "journal entry "+e.ID, true,
		`UPDATE journal_entries SET title = $3, content = $4, tags = $5, mood_before = $6, mood_after = $7, updated_at = $8
		 WHERE id = $1 AND user_id = $2`,
		e.ID, e.UserID, e.Title, e.Content, nonNil(e.Tags), e.MoodBefore, e.MoodAfter, e.UpdatedAt)
}

const journalColumns = `id, user_id, title, content, tags, mood_before, mood_after, created_at, updated_at`

func scanJournal(row pgx.Row, e *internal.JournalEntry) error {
	return row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Tags, &e.MoodBefore, &e.MoodAfter, &e.CreatedAt, &e.UpdatedAt)
}

func (p *PostgresStorage) GetJournalEntry(ctx context.Context, userID, id string) (*internal.JournalEntry, error) {
	var e internal.JournalEntry
	row := p.pool.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err := scanJournal(row, &e); err != nil {
		return nil, noRows(err, "journal entry", id)
	}
	return &e, nil
}

func (p *PostgresStorage) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	return p.exec(ctx, "journal entry "+id, true, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
}

func (p *PostgresStorage) ListJournalEntries(ctx context.Context, userID string, limit int) ([]internal.JournalEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limitArg(limit))
	if err != nil {
		p.logger.Errorf("failed to query journal entries: %v", err)
		return nil, errors.Wrap(err, "storage: query journal entries")
	}
	defer rows.Close()

	out := []internal.JournalEntry{}
	for rows.Next() {
		var e internal.JournalEntry
		if err := scanJournal(rows, &e); err != nil {
			return nil, errors.Wrap(err, "storage: scan journal entry")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- QuizRepository ---
func (p *PostgresStorage) SaveQuizCategory(ctx context.Context, c *internal.QuizCategory) error {
	return p.exec(ctx, "quiz category", false,
		`INSERT INTO quiz_categories (id, name, description) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`,
		c.ID, c.Name, c.Description)
}

func (p *PostgresStorage) ListQuizCategories(ctx context.Context) ([]internal.QuizCategory, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, description FROM quiz_categories ORDER BY name`)
	if err != nil {
		p.logger.Errorf("failed to query quiz categories: %v", err)
		return nil, errors.Wrap(err, "storage: query quiz categories")
	}
	defer rows.Close()

	out := []internal.QuizCategory{}
	for rows.Next() {
		var c internal.QuizCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, errors.Wrap(err, "storage: scan quiz category")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) SaveQuizQuestion(ctx context.Context, q *internal.QuizQuestion) error {
	return p.exec(ctx, "quiz question", false,
		`INSERT INTO quiz_questions (id, category_id, question, options, correct_answer, explanation)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET category_id = EXCLUDED.category_id, question = EXCLUDED.question,
		   options = EXCLUDED.options, correct_answer = EXCLUDED.correct_answer, explanation = EXCLUDED.explanation`,
		q.ID, q.CategoryID, q.Question, nonNil(q.Options), q.CorrectAnswer, q.Explanation)
}

func (p *PostgresStorage) GetQuizQuestions(ctx context.Context, categoryID string, limit int) ([]internal.QuizQuestion, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, category_id, question, options, correct_answer, explanation
		 FROM quiz_questions WHERE category_id = $1 ORDER BY id LIMIT $2`, categoryID, limitArg(limit))
	if err != nil {
		p.logger.Errorf("failed to query quiz questions: %v", err)
		return nil, errors.Wrap(err, "storage: query quiz questions")
	}
	defer rows.Close()

	out := []internal.QuizQuestion{}
	for rows.Next() {
		var q internal.QuizQuestion
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Question, &q.Options, &q.CorrectAnswer, &q.Explanation); err != nil {
			return nil, errors.Wrap(err, "storage: scan quiz question")
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) InsertQuizResult(ctx context.Context, a *internal.QuizAttempt) error {
	return p.exec(ctx, "quiz result", false,
		`INSERT INTO quiz_results (id, user_id, category_id, score, total_questions, answers, time_taken, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.CategoryID, a.Score, a.TotalQuestions, nonNilInts(a.Answers), a.TimeTaken, a.CompletedAt)
}

func (p *PostgresStorage) ListQuizResults(ctx context.Context, userID string, limit int) ([]internal.QuizAttempt, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, category_id, score, total_questions, answers, time_taken, completed_at
		 FROM quiz_results WHERE user_id = $1 ORDER BY completed_at DESC LIMIT $2`, userID, limitArg(limit))
	if err != nil {
		p.logger.Errorf("failed to query quiz results: %v", err)
		return nil, errors.Wrap(err, "storage: query quiz results")
	}
	defer rows.Close()

	out := []internal.QuizAttempt{}
	for rows.Next() {
		var a internal.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Score, &a.TotalQuestions, &a.Answers, &a.TimeTaken, &a.CompletedAt); err != nil {
			return nil, errors.Wrap(err, "storage: scan quiz result")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- CollegeRepository ---
const collegeColumns = `id, name, location, state, gpa_requirement, sat_requirement, majors`

func scanCollege(row pgx.Row, c *internal.College) error {
	return row.Scan(&c.ID, &c.Name, &c.Location, &c.State, &c.GPARequirement, &c.SATRequirement, &c.Majors)
}

func (p *PostgresStorage) SaveCollege(ctx context.Context, c *internal.College) error {
	return p.exec(ctx, "college", false,
		`INSERT INTO colleges (`+collegeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location, state = EXCLUDED.state,
		   gpa_requirement = EXCLUDED.gpa_requirement, sat_requirement = EXCLUDED.sat_requirement, majors = EXCLUDED.majors`,
		c.ID, c.Name, c.Location, c.State, c.GPARequirement, c.SATRequirement, nonNil(c.Majors))
}

func (p *PostgresStorage) ListColleges(ctx context.Context) ([]internal.College, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+collegeColumns+` FROM colleges ORDER BY name`)
	if err != nil {
		p.logger.Errorf("failed to query colleges: %v", err)
		return nil, errors.Wrap(err, "storage: query colleges")
	}
	defer rows.Close()

	out := []internal.College{}
	for rows.Next() {
		var c internal.College
		if err := scanCollege(rows, &c); err != nil {
			return nil, errors.Wrap(err, "storage: scan college")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) GetCollege(ctx context.Context, id string) (*internal.College, error) {
	var c internal.College
	if err := scanCollege(p.pool.QueryRow(ctx, `SELECT `+collegeColumns+` FROM colleges WHERE id = $1`, id), &c); err != nil {
		return nil, noRows(err, "college", id)
	}
	return &c, nil
}

func (p *PostgresStorage) SaveCollegeForUser(ctx context.Context, s *internal.SavedCollege) error {
	if _, err := p.GetCollege(ctx, s.CollegeID); err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO saved_colleges (id, user_id, college_id, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, college_id) DO NOTHING`,
		s.ID, s.UserID, s.CollegeID, s.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert saved college: %v", err)
		return errors.Wrap(err, "storage: insert saved college")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(internal.ErrConflict, "storage: college %s already saved", s.CollegeID)
	}
	return nil
}

func (p *PostgresStorage) RemoveSavedCollege(ctx context.Context, userID, id string) error {
	return p.exec(ctx, "saved college "+id, true, `DELETE FROM saved_colleges WHERE id = $1 AND user_id = $2`, id, userID)
}

func (p *PostgresStorage) ListSavedColleges(ctx context.Context, userID string) ([]internal.SavedCollege, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT s.id, s.user_id, s.college_id, s.created_at,
		        c.id, c.name, c.location, c.state, c.gpa_requirement, c.sat_requirement, c.majors
		 FROM saved_colleges s JOIN colleges c ON c.id = s.college_id
		 WHERE s.user_id = $1 ORDER BY s.created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query saved colleges: %v", err)
		return nil, errors.Wrap(err, "storage: query saved colleges")
	}
	defer rows.Close()

	out := []internal.SavedCollege{}
	for rows.Next() {
		var s internal.SavedCollege
		c := &internal.College{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.CollegeID, &s.CreatedAt,
			&c.ID, &c.Name, &c.Location, &c.State, &c.GPARequirement, &c.SATRequirement, &c.Majors); err != nil {
			return nil, errors.Wrap(err, "storage: scan saved college")
		}
		s.College = c
		out = append(out, s)
	}
	return out, rows.Err()
}

// --- TaskRepository ---
const taskColumns = `id, user_id, title, description, due_date, priority, status, completed_at, created_at`

func scanTask(row pgx.Row, t *internal.Task) error {
	return row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status, &t.CompletedAt, &t.CreatedAt)
}

func (p *PostgresStorage) SaveTask(ctx context.Context, t *internal.Task) error {
	return p.exec(ctx, "task", false,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.CompletedAt, t.CreatedAt)
}

func (p *PostgresStorage) UpdateTask(ctx context.Context, t *internal.Task) error {
	return p.exec(ctx, "task "+t.ID, true,
		`UPDATE tasks SET title = $3, description = $4, due_date = $5, priority = $6, status = $7, completed_at = $8
		 WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.CompletedAt)
}

func (p *PostgresStorage) GetTask(ctx context.Context, userID, id string) (*internal.Task, error) {
	var t internal.Task
	row := p.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err := scanTask(row, &t); err != nil {
		return nil, noRows(err, "task", id)
	}
	return &t, nil
}

func (p *PostgresStorage) DeleteTask(ctx context.Context, userID, id string) error {
	return p.exec(ctx, "task "+id, true, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
}

func (p *PostgresStorage) ListTasks(ctx context.Context, userID string) ([]internal.Task, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query tasks: %v", err)
		return nil, errors.Wrap(err, "storage: query tasks")
	}
	defer rows.Close()

	out := []internal.Task{}
	for rows.Next() {
		var t internal.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, errors.Wrap(err, "storage: scan task")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
