package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

type recorder struct {
	mu      sync.Mutex
	changes []notify.Change
}

func (r *recorder) Publish(ch notify.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, ch)
}

func (r *recorder) tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Table
	}
	return out
}

var testUser = &internal.User{ID: "u1", Name: "Test User"}

func setupStore(t *testing.T) *storage.FileStorage {
	s, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestValidateCourseRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    CourseRequest
		wantErr bool
	}{
		{"valid", CourseRequest{Name: "Calc", Grade: "A-", CreditHours: 4, Semester: "Fall", Year: 2024}, false},
		{"unknown grade", CourseRequest{Name: "Calc", Grade: "E", CreditHours: 4, Semester: "Fall", Year: 2024}, true},
		{"unknown semester", CourseRequest{Name: "Calc", Grade: "A", CreditHours: 4, Semester: "Autumn", Year: 2024}, true},
		{"negative credits", CourseRequest{Name: "Calc", Grade: "A", CreditHours: -1, Semester: "Fall", Year: 2024}, true},
		{"zero credits", CourseRequest{Name: "Calc", Grade: "A", CreditHours: 0, Semester: "Fall", Year: 2024}, true},
		{"missing credits", CourseRequest{Name: "Calc", Grade: "A", Semester: "Fall", Year: 2024}, true},
		{"missing name", CourseRequest{Grade: "A", CreditHours: 3, Semester: "Fall", Year: 2024}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCourseRequest(&tt.body)
			if tt.wantErr {
				assert.True(t, errors.Is(err, internal.ErrInvalid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateCourse_RecordsSnapshotOncePerTerm(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	pub := &recorder{}

	c1, err := CreateCourse(ctx, s, pub, testUser, &CourseRequest{Name: "Calc", Grade: "A", CreditHours: 4, Semester: "Fall", Year: 2024})
	require.NoError(t, err)
	snap, inserted, err := RecordGPASnapshot(ctx, s, pub, testUser, c1.Semester, c1.Year)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 4.0, snap.GPA)

	c2, err := CreateCourse(ctx, s, pub, testUser, &CourseRequest{Name: "Bio", Grade: "C", CreditHours: 4, Semester: "Fall", Year: 2024})
	require.NoError(t, err)
	_, inserted, err = RecordGPASnapshot(ctx, s, pub, testUser, c2.Semester, c2.Year)
	require.NoError(t, err)
	assert.False(t, inserted)

	history, err := s.ListGPASnapshots(ctx, testUser.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 4.0, history[0].GPA, "first snapshot is never overwritten")

	courses, err := s.ListCourses(ctx, testUser.ID)
	require.NoError(t, err)
	summary := SummarizeCourses(courses)
	assert.Equal(t, 3.0, summary.GPA)
	assert.Equal(t, "3.00", summary.Display)
	assert.Equal(t, 8.0, summary.TotalCredits)

	assert.Equal(t, []string{TableCourses, TableGPAHistory, TableCourses}, pub.tables())
}

func TestDeleteCourse_NotOwned(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	c, err := CreateCourse(ctx, s, nil, testUser, &CourseRequest{Name: "Calc", Grade: "A", CreditHours: 4, Semester: "Fall", Year: 2024})
	require.NoError(t, err)

	err = DeleteCourse(ctx, s, nil, &internal.User{ID: "u2"}, c.ID)
	assert.True(t, errors.Is(err, internal.ErrNotFound))
	assert.NoError(t, DeleteCourse(ctx, s, nil, testUser, c.ID))
}

func TestLogMoodAndStats(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	assert.Error(t, ValidateMoodRequest(&MoodRequest{Mood: "ecstatic"}))

	for _, m := range []string{internal.MoodGood, internal.MoodAmazing, internal.MoodGood} {
		_, err := LogMood(ctx, s, nil, testUser, &MoodRequest{Mood: m})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	entries, err := s.ListMoodEntries(ctx, testUser.ID, 30)
	require.NoError(t, err)

	stats := CalculateMoodStats(entries, time.Now())
	assert.Equal(t, metrics.TrendUp, stats.Trend)
	assert.Equal(t, 3, stats.EntriesThisWeek)
	assert.Equal(t, 3, stats.Total)
}

func TestJournalLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	pub := &recorder{}

	e, err := CreateJournalEntry(ctx, s, pub, testUser, &JournalRequest{Title: "Day 1", Content: "hello"})
	require.NoError(t, err)

	updated, err := UpdateJournalEntry(ctx, s, pub, testUser, e.ID, &JournalRequest{Title: "Day 1 (edited)", Content: "hi", MoodAfter: "good"})
	require.NoError(t, err)
	assert.Equal(t, "Day 1 (edited)", updated.Title)
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(e.UpdatedAt))

	_, err = UpdateJournalEntry(ctx, s, pub, &internal.User{ID: "u2"}, e.ID, &JournalRequest{Title: "x", Content: "y"})
	assert.True(t, errors.Is(err, internal.ErrNotFound))

	require.NoError(t, DeleteJournalEntry(ctx, s, pub, testUser, e.ID))
	assert.Equal(t, []string{TableJournalEntries, TableJournalEntries, TableJournalEntries}, pub.tables())
}

func seedQuiz(t *testing.T, s storage.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveQuizCategory(ctx, &internal.QuizCategory{ID: "math", Name: "Math"}))
	questions := []internal.QuizQuestion{
		{ID: "q1", CategoryID: "math", Question: "2+2", Options: []string{"3", "4"}, CorrectAnswer: 1},
		{ID: "q2", CategoryID: "math", Question: "3+3", Options: []string{"6", "7"}, CorrectAnswer: 0},
		{ID: "q3", CategoryID: "math", Question: "5+5", Options: []string{"9", "10"}, CorrectAnswer: 1},
	}
	for i := range questions {
		require.NoError(t, s.SaveQuizQuestion(ctx, &questions[i]))
	}
}

func TestStripAnswers(t *testing.T) {
	public := StripAnswers([]internal.QuizQuestion{{ID: "q1", Question: "?", Options: []string{"a"}, CorrectAnswer: 0, Explanation: "because"}})
	require.Len(t, public, 1)
	assert.Equal(t, "q1", public[0].ID)
	assert.Equal(t, []string{"a"}, public[0].Options)
}

func TestSubmitQuiz(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	seedQuiz(t, s)

	// Order of question_ids decides which answer applies to which question.
	out, err := SubmitQuiz(ctx, s, nil, testUser, "math", &QuizSubmission{
		QuestionIDs: []string{"q3", "q1", "q2"},
		Answers:     []int{1, 0},
		TimeTaken:   42,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Result.Score)
	assert.Equal(t, 3, out.Result.TotalQuestions)
	assert.Equal(t, 33, out.Result.Percentage)
	assert.Equal(t, []int{1, 0, -1}, out.Attempt.Answers)
	assert.Equal(t, 42, out.Attempt.TimeTaken)

	results, err := s.ListQuizResults(ctx, testUser.ID, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSubmitQuiz_Rejects(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	seedQuiz(t, s)

	_, err := SubmitQuiz(ctx, s, nil, testUser, "math", &QuizSubmission{QuestionIDs: []string{"q1", "zz"}, Answers: []int{1, 1}})
	assert.True(t, errors.Is(err, internal.ErrInvalid))

	_, err = SubmitQuiz(ctx, s, nil, testUser, "math", &QuizSubmission{QuestionIDs: []string{"q1", "q1"}, Answers: []int{1, 1}})
	assert.True(t, errors.Is(err, internal.ErrInvalid))

	_, err = SubmitQuiz(ctx, s, nil, testUser, "history", &QuizSubmission{QuestionIDs: []string{"q1"}})
	assert.True(t, errors.Is(err, internal.ErrNotFound))

	assert.Error(t, ValidateQuizSubmission(&QuizSubmission{}))
}

func TestParseCollegeFilter(t *testing.T) {
	f, err := ParseCollegeFilter(" tech ", "CA", "3.5")
	require.NoError(t, err)
	assert.Equal(t, "tech", f.Search)
	require.NotNil(t, f.MinGPA)
	assert.Equal(t, 3.5, *f.MinGPA)

	f, err = ParseCollegeFilter("", "", "")
	require.NoError(t, err)
	assert.Nil(t, f.MinGPA)

	_, err = ParseCollegeFilter("", "", "abc")
	assert.True(t, errors.Is(err, internal.ErrInvalid))
	_, err = ParseCollegeFilter("", "", "5")
	assert.True(t, errors.Is(err, internal.ErrInvalid))
}

func TestSearchAndSaveColleges(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	req := func(v float64) *float64 { return &v }
	require.NoError(t, s.SaveCollege(ctx, &internal.College{ID: "a", Name: "Alpha Tech", State: "CA", GPARequirement: req(3.8)}))
	require.NoError(t, s.SaveCollege(ctx, &internal.College{ID: "b", Name: "Beta College", State: "CA", GPARequirement: req(3.0)}))
	require.NoError(t, s.SaveCollege(ctx, &internal.College{ID: "c", Name: "Gamma Institute", State: "NY"}))

	gpa, err := StudentGPA(ctx, s, testUser)
	require.NoError(t, err)
	assert.Nil(t, gpa)

	f, err := ParseCollegeFilter("", "", "3.5")
	require.NoError(t, err)
	matches, err := SearchColleges(ctx, s, f, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	assert.Nil(t, matches[0].MeetsGPA)

	student := 3.2
	matches, err = SearchColleges(ctx, s, metrics.CollegeFilter{State: "CA"}, &student)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.False(t, *matches[0].MeetsGPA)
	assert.True(t, *matches[1].MeetsGPA)

	saved, err := SaveCollege(ctx, s, nil, testUser, &SaveCollegeRequest{CollegeID: "b"})
	require.NoError(t, err)
	assert.Equal(t, "Beta College", saved.College.Name)

	_, err = SaveCollege(ctx, s, nil, testUser, &SaveCollegeRequest{CollegeID: "b"})
	assert.True(t, errors.Is(err, internal.ErrConflict))
	_, err = SaveCollege(ctx, s, nil, testUser, &SaveCollegeRequest{CollegeID: "zz"})
	assert.True(t, errors.Is(err, internal.ErrNotFound))

	require.NoError(t, RemoveSavedCollege(ctx, s, nil, testUser, saved.ID))
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(48 * time.Hour)

	overdue, err := CreateTask(ctx, s, nil, testUser, &TaskRequest{Title: "Essay draft", DueDate: &past, Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, internal.TaskPending, overdue.Status)

	later, err := CreateTask(ctx, s, nil, testUser, &TaskRequest{Title: "Lab report", Description: "chemistry", DueDate: &future, Priority: "low"})
	require.NoError(t, err)

	done, err := UpdateTask(ctx, s, nil, testUser, later.ID, &TaskRequest{Title: "Lab report", DueDate: &future, Priority: "low", Status: internal.TaskCompleted})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	reopened, err := UpdateTask(ctx, s, nil, testUser, later.ID, &TaskRequest{Title: "Lab report", DueDate: &future, Priority: "medium", Status: internal.TaskInProgress})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	tasks, err := ListTasks(ctx, s, testUser, TaskQuery{Status: internal.TaskOverdue}, now)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, overdue.ID, tasks[0].ID)
	assert.Equal(t, internal.TaskOverdue, tasks[0].Status)

	tasks, err = ListTasks(ctx, s, testUser, TaskQuery{Sort: "priority"}, now)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "high", tasks[0].Priority)

	assert.Error(t, ValidateTaskQuery(&TaskQuery{Sort: "title"}))
	assert.Error(t, ValidateTaskRequest(&TaskRequest{Title: "x", Priority: "urgent"}))

	require.NoError(t, DeleteTask(ctx, s, nil, testUser, overdue.ID))
	_, err = UpdateTask(ctx, s, nil, testUser, overdue.ID, &TaskRequest{Title: "x", Priority: "low"})
	assert.True(t, errors.Is(err, internal.ErrNotFound))
}
