package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/nextgen-hub/studenthub/internal"
)

// SQLiteStorage is the single-file SQL backend. Times are stored as unix
// nanoseconds and string or int lists as JSON text.
type SQLiteStorage struct {
	db     *sqlx.DB
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, dsn string, logger internal.Logger) (*SQLiteStorage, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		logger.Errorf("failed to open sqlite: %v", err)
		return nil, errors.Wrap(err, "storage: open sqlite")
	}
	// One writer at a time; avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Errorf("failed to ping sqlite: %v", err)
		return nil, errors.Wrap(err, "storage: ping sqlite")
	}
	err = applySchema(ctx, schemaSQLite, func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
	if err != nil {
		db.Close()
		logger.Errorf("failed to apply sqlite schema: %v", err)
		return nil, err
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- row types ---

type courseRow struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	Name        string  `db:"name"`
	Grade       string  `db:"grade"`
	CreditHours float64 `db:"credit_hours"`
	Semester    string  `db:"semester"`
	Year        int     `db:"year"`
	CreatedAt   int64   `db:"created_at"`
}

func (r courseRow) model() internal.Course {
	return internal.Course{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Grade: r.Grade, CreditHours: r.CreditHours,
		Semester: r.Semester, Year: r.Year, CreatedAt: fromUnix(r.CreatedAt),
	}
}

type snapshotRow struct {
	ID            string  `db:"id"`
	UserID        string  `db:"user_id"`
	GPA           float64 `db:"gpa"`
	CumulativeGPA float64 `db:"cumulative_gpa"`
	Semester      string  `db:"semester"`
	Year          int     `db:"year"`
	CalculatedAt  int64   `db:"calculated_at"`
}

type moodRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Mood       string `db:"mood"`
	Note       string `db:"note"`
	Activities string `db:"activities_json"`
	CreatedAt  int64  `db:"created_at"`
}

type journalRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Title      string `db:"title"`
	Content    string `db:"content"`
	Tags       string `db:"tags_json"`
	MoodBefore string `db:"mood_before"`
	MoodAfter  string `db:"mood_after"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}

func (r journalRow) model() (internal.JournalEntry, error) {
	e := internal.JournalEntry{
		ID: r.ID, UserID: r.UserID, Title: r.Title, Content: r.Content,
		MoodBefore: r.MoodBefore, MoodAfter: r.MoodAfter,
		CreatedAt: fromUnix(r.CreatedAt), UpdatedAt: fromUnix(r.UpdatedAt),
	}
	return e, fromJSON(r.Tags, &e.Tags)
}

type questionRow struct {
	ID            string `db:"id"`
	CategoryID    string `db:"category_id"`
	Question      string `db:"question"`
	Options       string `db:"options_json"`
	CorrectAnswer int    `db:"correct_answer"`
	Explanation   string `db:"explanation"`
}

type resultRow struct {
	ID             string `db:"id"`
	UserID         string `db:"user_id"`
	CategoryID     string `db:"category_id"`
	Score          int    `db:"score"`
	TotalQuestions int    `db:"total_questions"`
	Answers        string `db:"answers_json"`
	TimeTaken      int    `db:"time_taken"`
	CompletedAt    int64  `db:"completed_at"`
}

type collegeRow struct {
	ID             string          `db:"id"`
	Name           string          `db:"name"`
	Location       string          `db:"location"`
	State          string          `db:"state"`
	GPARequirement sql.NullFloat64 `db:"gpa_requirement"`
	SATRequirement sql.NullInt64   `db:"sat_requirement"`
	Majors         string          `db:"majors_json"`
}

func newCollegeRow(c *internal.College) (collegeRow, error) {
	r := collegeRow{ID: c.ID, Name: c.Name, Location: c.Location, State: c.State}
	if c.GPARequirement != nil {
		r.GPARequirement = sql.NullFloat64{Float64: *c.GPARequirement, Valid: true}
	}
	if c.SATRequirement != nil {
		r.SATRequirement = sql.NullInt64{Int64: int64(*c.SATRequirement), Valid: true}
	}
	var err error
	r.Majors, err = toJSON(c.Majors)
	return r, err
}

func (r collegeRow) model() (internal.College, error) {
	c := internal.College{ID: r.ID, Name: r.Name, Location: r.Location, State: r.State}
	if r.GPARequirement.Valid {
		v := r.GPARequirement.Float64
		c.GPARequirement = &v
	}
	if r.SATRequirement.Valid {
		v := int(r.SATRequirement.Int64)
		c.SATRequirement = &v
	}
	return c, fromJSON(r.Majors, &c.Majors)
}

type savedCollegeRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	CollegeID string `db:"college_id"`
	CreatedAt int64  `db:"created_at"`
}

type taskRow struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	DueDate     sql.NullInt64 `db:"due_date"`
	Priority    string        `db:"priority"`
	Status      string        `db:"status"`
	CompletedAt sql.NullInt64 `db:"completed_at"`
	CreatedAt   int64         `db:"created_at"`
}

func newTaskRow(t *internal.Task) taskRow {
	return taskRow{
		ID: t.ID, UserID: t.UserID, Title: t.Title, Description: t.Description,
		DueDate: nullUnix(t.DueDate), Priority: t.Priority, Status: t.Status,
		CompletedAt: nullUnix(t.CompletedAt), CreatedAt: t.CreatedAt.UnixNano(),
	}
}

func (r taskRow) model() internal.Task {
	return internal.Task{
		ID: r.ID, UserID: r.UserID, Title: r.Title, Description: r.Description,
		DueDate: fromNullUnix(r.DueDate), Priority: r.Priority, Status: r.Status,
		CompletedAt: fromNullUnix(r.CompletedAt), CreatedAt: fromUnix(r.CreatedAt),
	}
}

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

func nullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNullUnix(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromUnix(n.Int64)
	return &t
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "storage: encode list")
	}
	return string(b), nil
}

func fromJSON(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(s), v), "storage: decode list")
}

// sqliteLimit maps limit <= 0 to -1, which SQLite treats as no limit.
func sqliteLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (s *SQLiteStorage) namedExec(ctx context.Context, what string, query string, arg any) (int64, error) {
	res, err := s.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		s.logger.Errorf("failed to write %s: %v", what, err)
		return 0, errors.Wrapf(err, "storage: write %s", what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "storage: write %s", what)
	}
	return n, nil
}

func (s *SQLiteStorage) deleteOwned(ctx context.Context, table, what, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		s.logger.Errorf("failed to delete %s: %v", what, err)
		return errors.Wrapf(err, "storage: delete %s", what)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(what, id)
	}
	return nil
}

func sqlNotFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(what, id)
	}
	return errors.Wrapf(err, "storage: read %s %s", what, id)
}

// --- CourseRepository ---
func (s *SQLiteStorage) SaveCourse(ctx context.Context, c *internal.Course) error {
	row := courseRow{
		ID: c.ID, UserID: c.UserID, Name: c.Name, Grade: c.Grade, CreditHours: c.CreditHours,
		Semester: c.Semester, Year: c.Year, CreatedAt: c.CreatedAt.UnixNano(),
	}
	_, err := s.namedExec(ctx, "course",
		`INSERT INTO courses (id, user_id, name, grade, credit_hours, semester, year, created_at)
		 VALUES (:id, :user_id, :name, :grade, :credit_hours, :semester, :year, :created_at)`, row)
	return err
}

func (s *SQLiteStorage) ListCourses(ctx context.Context, userID string) ([]internal.Course, error) {
	var rows []courseRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM courses WHERE user_id = ? ORDER BY created_at DESC`, userID); err != nil {
		s.logger.Errorf("failed to query courses: %v", err)
		return nil, errors.Wrap(err, "storage: query courses")
	}
	out := make([]internal.Course, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

func (s *SQLiteStorage) DeleteCourse(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, "courses", "course", userID, id)
}

// --- GPARepository ---
func (s *SQLiteStorage) InsertGPASnapshotIfAbsent(ctx context.Context, g *internal.GPASnapshot) (bool, error) {
	row := snapshotRow{
		ID: g.ID, UserID: g.UserID, GPA: g.GPA, CumulativeGPA: g.CumulativeGPA,
		Semester: g.Semester, Year: g.Year, CalculatedAt: g.CalculatedAt.UnixNano(),
	}
	n, err := s.namedExec(ctx, "gpa snapshot",
		`INSERT OR IGNORE INTO gpa_history (id, user_id, gpa, cumulative_gpa, semester, year, calculated_at)
		 VALUES (:id, :user_id, :gpa, :cumulative_gpa, :semester, :year, :calculated_at)`, row)
	return n > 0, err
}

func (s *SQLiteStorage) ListGPASnapshots(ctx context.Context, userID string) ([]internal.GPASnapshot, error) {
	var rows []snapshotRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM gpa_history WHERE user_id = ? ORDER BY calculated_at ASC`, userID); err != nil {
		s.logger.Errorf("failed to query gpa history: %v", err)
		return nil, errors.Wrap(err, "storage: query gpa history")
	}
	out := make([]internal.GPASnapshot, len(rows))
	for i, r := range rows {
		out[i] = internal.GPASnapshot{
			ID: r.ID, UserID: r.UserID, GPA: r.GPA, CumulativeGPA: r.CumulativeGPA,
			Semester: r.Semester, Year: r.Year, CalculatedAt: fromUnix(r.CalculatedAt),
		}
	}
	return out, nil
}

// --- MoodRepository ---
func (s *SQLiteStorage) SaveMoodEntry(ctx context.Context, e *internal.MoodEntry) error {
	activities, err := toJSON(nonNil(e.Activities))
	if err != nil {
		return err
	}
	row := moodRow{ID: e.ID, UserID: e.UserID, Mood: e.Mood, Note: e.Note, Activities: activities, CreatedAt: e.CreatedAt.UnixNano()}
	_, err = s.namedExec(ctx, "mood entry",
		`INSERT INTO mood_entries (id, user_id, mood, note, activities_json, created_at)
		 VALUES (:id, :user_id, :mood, :note, :activities_json, :created_at)`, row)
	return err
}

func (s *SQLiteStorage) ListMoodEntries(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error) {
	var rows []moodRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM mood_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, sqliteLimit(limit)); err != nil {
		s.logger.Errorf("failed to query mood entries: %v", err)
		return nil, errors.Wrap(err, "storage: query mood entries")
	}
	out := make([]internal.MoodEntry, len(rows))
	for i, r := range rows {
		out[i] = internal.MoodEntry{ID: r.ID, UserID: r.UserID, Mood: r.Mood, Note: r.Note, CreatedAt: fromUnix(r.CreatedAt)}
		if err := fromJSON(r.Activities, &out[i].Activities); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- JournalRepository ---
func newJournalRow(e *internal.JournalEntry) (journalRow, error) {
	tags, err := toJSON(nonNil(e.Tags))
	return journalRow{
		ID: e.ID, UserID: e.UserID, Title: e.Title, Content: e.Content, Tags: tags,
		MoodBefore: e.MoodBefore, MoodAfter: e.MoodAfter,
		CreatedAt: e.CreatedAt.UnixNano(), UpdatedAt: e.UpdatedAt.UnixNano(),
	}, err
}

func (s *SQLiteStorage) SaveJournalEntry(ctx context.Context, e *internal.JournalEntry) error {
	row, err := newJournalRow(e)
	if err != nil {
		return err
	}
	_, err = s.namedExec(ctx, "journal entry",
		`INSERT INTO journal_entries (id, user_id, title, content, tags_json, mood_before, mood_after, created_at, updated_at)
		 VALUES (:id, :user_id, :title, :content, :tags_json, :mood_before, :mood_after, :created_at, :updated_at)`, row)
	return err
}

func (s *SQLiteStorage) UpdateJournalEntry(ctx context.Context, e *internal.JournalEntry) error {
	row, err := newJournalRow(e)
	if err != nil {
		return err
	}
	n, err := s.namedExec(ctx, "journal entry",
		`UPDATE journal_entries SET title = :title, content = :content, tags_json = :tags_json,
		   mood_before = :mood_before, mood_after = :mood_after, updated_at = :updated_at
		 WHERE id = :id AND user_id = :user_id`, row)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("journal entry", e.ID)
	}
	return nil
}

func (s *SQLiteStorage) GetJournalEntry(ctx context.Context, userID, id string) (*internal.JournalEntry, error) {
	var row journalRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return nil, sqlNotFound(err, "journal entry", id)
	}
	e, err := row.model()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStorage) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, "journal_entries", "journal entry", userID, id)
}

func (s *SQLiteStorage) ListJournalEntries(ctx context.Context, userID string, limit int) ([]internal.JournalEntry, error) {
	var rows []journalRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM journal_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, sqliteLimit(limit)); err != nil {
		s.logger.Errorf("failed to query journal entries: %v", err)
		return nil, errors.Wrap(err, "storage: query journal entries")
	}
	out := make([]internal.JournalEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- QuizRepository ---
func (s *SQLiteStorage) SaveQuizCategory(ctx context.Context, c *internal.QuizCategory) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO quiz_categories (id, name, description) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Description)
	if err != nil {
		s.logger.Errorf("failed to write quiz category: %v", err)
		return errors.Wrap(err, "storage: write quiz category")
	}
	return nil
}

func (s *SQLiteStorage) ListQuizCategories(ctx context.Context) ([]internal.QuizCategory, error) {
	out := []internal.QuizCategory{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name, description FROM quiz_categories ORDER BY name`); err != nil {
		s.logger.Errorf("failed to query quiz categories: %v", err)
		return nil, errors.Wrap(err, "storage: query quiz categories")
	}
	return out, nil
}

func (s *SQLiteStorage) SaveQuizQuestion(ctx context.Context, q *internal.QuizQuestion) error {
	options, err := toJSON(nonNil(q.Options))
	if err != nil {
		return err
	}
	row := questionRow{ID: q.ID, CategoryID: q.CategoryID, Question: q.Question, Options: options, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation}
	_, err = s.namedExec(ctx, "quiz question",
		`INSERT OR REPLACE INTO quiz_questions (id, category_id, question, options_json, correct_answer, explanation)
		 VALUES (:id, :category_id, :question, :options_json, :correct_answer, :explanation)`, row)
	return err
}

func (s *SQLiteStorage) GetQuizQuestions(ctx context.Context, categoryID string, limit int) ([]internal.QuizQuestion, error) {
	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM quiz_questions WHERE category_id = ? ORDER BY id LIMIT ?`, categoryID, sqliteLimit(limit)); err != nil {
		s.logger.Errorf("failed to query quiz questions: %v", err)
		return nil, errors.Wrap(err, "storage: query quiz questions")
	}
	out := make([]internal.QuizQuestion, len(rows))
	for i, r := range rows {
		out[i] = internal.QuizQuestion{ID: r.ID, CategoryID: r.CategoryID, Question: r.Question, CorrectAnswer: r.CorrectAnswer, Explanation: r.Explanation}
		if err := fromJSON(r.Options, &out[i].Options); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStorage) InsertQuizResult(ctx context.Context, a *internal.QuizAttempt) error {
	answers, err := toJSON(nonNilInts(a.Answers))
	if err != nil {
		return err
	}
	row := resultRow{
		ID: a.ID, UserID: a.UserID, CategoryID: a.CategoryID, Score: a.Score, TotalQuestions: a.TotalQuestions,
		Answers: answers, TimeTaken: a.TimeTaken, CompletedAt: a.CompletedAt.UnixNano(),
	}
	_, err = s.namedExec(ctx, "quiz result",
		`INSERT INTO quiz_results (id, user_id, category_id, score, total_questions, answers_json, time_taken, completed_at)
		 VALUES (:id, :user_id, :category_id, :score, :total_questions, :answers_json, :time_taken, :completed_at)`, row)
	return err
}

func (s *SQLiteStorage) ListQuizResults(ctx context.Context, userID string, limit int) ([]internal.QuizAttempt, error) {
	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM quiz_results WHERE user_id = ? ORDER BY completed_at DESC LIMIT ?`, userID, sqliteLimit(limit)); err != nil {
		s.logger.Errorf("failed to query quiz results: %v", err)
		return nil, errors.Wrap(err, "storage: query quiz results")
	}
	out := make([]internal.QuizAttempt, len(rows))
	for i, r := range rows {
		out[i] = internal.QuizAttempt{
			ID: r.ID, UserID: r.UserID, CategoryID: r.CategoryID, Score: r.Score, TotalQuestions: r.TotalQuestions,
			TimeTaken: r.TimeTaken, CompletedAt: fromUnix(r.CompletedAt),
		}
		if err := fromJSON(r.Answers, &out[i].Answers); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- CollegeRepository ---
func (s *SQLiteStorage) SaveCollege(ctx context.Context, c *internal.College) error {
	row, err := newCollegeRow(c)
	if err != nil {
		return err
	}
	_, err = s.namedExec(ctx, "college",
		`INSERT OR REPLACE INTO colleges (id, name, location, state, gpa_requirement, sat_requirement, majors_json)
		 VALUES (:id, :name, :location, :state, :gpa_requirement, :sat_requirement, :majors_json)`, row)
	return err
}

func (s *SQLiteStorage) ListColleges(ctx context.Context) ([]internal.College, error) {
	var rows []collegeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM colleges ORDER BY name`); err != nil {
		s.logger.Errorf("failed to query colleges: %v", err)
		return nil, errors.Wrap(err, "storage: query colleges")
	}
	out := make([]internal.College, 0, len(rows))
	for _, r := range rows {
		c, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SQLiteStorage) GetCollege(ctx context.Context, id string) (*internal.College, error) {
	var row collegeRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM colleges WHERE id = ?`, id); err != nil {
		return nil, sqlNotFound(err, "college", id)
	}
	c, err := row.model()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStorage) SaveCollegeForUser(ctx context.Context, saved *internal.SavedCollege) error {
	if _, err := s.GetCollege(ctx, saved.CollegeID); err != nil {
		return err
	}
	row := savedCollegeRow{ID: saved.ID, UserID: saved.UserID, CollegeID: saved.CollegeID, CreatedAt: saved.CreatedAt.UnixNano()}
	n, err := s.namedExec(ctx, "saved college",
		`INSERT OR IGNORE INTO saved_colleges (id, user_id, college_id, created_at)
		 VALUES (:id, :user_id, :college_id, :created_at)`, row)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(internal.ErrConflict, "storage: college %s already saved", saved.CollegeID)
	}
	return nil
}

func (s *SQLiteStorage) RemoveSavedCollege(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, "saved_colleges", "saved college", userID, id)
}

func (s *SQLiteStorage) ListSavedColleges(ctx context.Context, userID string) ([]internal.SavedCollege, error) {
	var rows []savedCollegeRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM saved_colleges WHERE user_id = ? ORDER BY created_at DESC`, userID); err != nil {
		s.logger.Errorf("failed to query saved colleges: %v", err)
		return nil, errors.Wrap(err, "storage: query saved colleges")
	}
	out := make([]internal.SavedCollege, 0, len(rows))
	for _, r := range rows {
		saved := internal.SavedCollege{ID: r.ID, UserID: r.UserID, CollegeID: r.CollegeID, CreatedAt: fromUnix(r.CreatedAt)}
		c, err := s.GetCollege(ctx, r.CollegeID)
		switch {
		case err == nil:
			saved.College = c
		case !errors.Is(err, internal.ErrNotFound):
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// --- TaskRepository ---
func (s *SQLiteStorage) SaveTask(ctx context.Context, t *internal.Task) error {
	_, err := s.namedExec(ctx, "task",
		`INSERT INTO tasks (id, user_id, title, description, due_date, priority, status, completed_at, created_at)
		 VALUES (:id, :user_id, :title, :description, :due_date, :priority, :status, :completed_at, :created_at)`, newTaskRow(t))
	return err
}

func (s *SQLiteStorage) UpdateTask(ctx context.Context, t *internal.Task) error {
	n, err := s.namedExec(ctx, "task",
		`UPDATE tasks SET title = :title, description = :description, due_date = :due_date,
		   priority = :priority, status = :status, completed_at = :completed_at
		 WHERE id = :id AND user_id = :user_id`, newTaskRow(t))
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("task", t.ID)
	}
	return nil
}

func (s *SQLiteStorage) GetTask(ctx context.Context, userID, id string) (*internal.Task, error) {
	var row taskRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM tasks WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return nil, sqlNotFound(err, "task", id)
	}
	t := row.model()
	return &t, nil
}

func (s *SQLiteStorage) DeleteTask(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, "tasks", "task", userID, id)
}

func (s *SQLiteStorage) ListTasks(ctx context.Context, userID string) ([]internal.Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM tasks WHERE user_id = ? ORDER BY created_at DESC`, userID); err != nil {
		s.logger.Errorf("failed to query tasks: %v", err)
		return nil, errors.Wrap(err, "storage: query tasks")
	}
	out := make([]internal.Task, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// --- Compile-time assertions ---
var _ Store = (*SQLiteStorage)(nil)
