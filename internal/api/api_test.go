package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/auth"
	"github.com/nextgen-hub/studenthub/internal/config"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

const token = "MOCK-TOKEN"

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *storage.FileStorage) {
	gin.SetMode(gin.TestMode)
	cfg, err := config.New(viper.New())
	require.NoError(t, err)
	store, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	app := NewServer(cfg, internal.NopLogger(), store, notify.NewHub())
	provider := auth.NewLocalAuthProvider(cfg.AuthToken, internal.NopLogger())
	return NewRouter(app, provider), store
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealthzAndRequestID(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnauthorized(t *testing.T) {
	r, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCourses(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/courses", `{"name":"Calculus","grade":"A","credit_hours":4,"semester":"Fall","year":2024}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, env.Meta["snapshot_recorded"])
	course := decode[internal.Course](t, env)

	w, _ = do(t, r, http.MethodPost, "/api/courses", `{"name":"Biology","grade":"B","credit_hours":4,"semester":"Fall","year":2024}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/courses", `{"name":"Art","grade":"Z","credit_hours":3,"semester":"Fall","year":2024}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, 400, env.Error.Code)

	for _, body := range []string{
		`{"name":"Art","grade":"A","credit_hours":0,"semester":"Fall","year":2024}`,
		`{"name":"Art","grade":"A","semester":"Fall","year":2024}`,
	} {
		w, _ = do(t, r, http.MethodPost, "/api/courses", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w, _ = do(t, r, http.MethodPost, "/api/courses", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/courses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]internal.Course](t, env), 2)
	assert.Equal(t, 3.5, env.Meta["gpa"])
	assert.Equal(t, "3.50", env.Meta["gpa_display"])
	assert.Equal(t, 8.0, env.Meta["total_credits"])

	w, env = do(t, r, http.MethodGet, "/api/gpa/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]internal.GPASnapshot](t, env)
	require.Len(t, history, 1)
	assert.Equal(t, 4.0, history[0].GPA)

	w, _ = do(t, r, http.MethodDelete, "/api/courses/"+course.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/api/courses/"+course.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMood(t *testing.T) {
	r, _ := setupRouter(t)

	for _, m := range []string{"bad", "terrible"} {
		w, _ := do(t, r, http.MethodPost, "/api/mood", `{"mood":"`+m+`","activities":["exam"]}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := do(t, r, http.MethodPost, "/api/mood", `{"mood":"meh"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, r, http.MethodGet, "/api/mood", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]internal.MoodEntry](t, env), 2)

	w, env = do(t, r, http.MethodGet, "/api/mood/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "down", env.Meta["trend"])
	assert.Equal(t, 2.0, env.Meta["entries_this_week"])
	assert.Equal(t, 2.0, env.Meta["total"])
}

func TestJournal(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/journal", `{"title":"Monday","content":"Long day","tags":["school"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	entry := decode[internal.JournalEntry](t, env)

	w, env = do(t, r, http.MethodPut, "/api/journal/"+entry.ID, `{"title":"Monday!","content":"Better","mood_after":"good"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Monday!", decode[internal.JournalEntry](t, env).Title)

	w, _ = do(t, r, http.MethodPut, "/api/journal/missing", `{"title":"x","content":"y"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/journal", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/journal", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]internal.JournalEntry](t, env), 1)

	w, _ = do(t, r, http.MethodDelete, "/api/journal/"+entry.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func seedReference(t *testing.T, s storage.Store) {
	gpa := func(v float64) *float64 { return &v }
	require.NoError(t, storage.ApplySeed(context.Background(), s, &storage.Seed{
		Colleges: []internal.College{
			{ID: "a", Name: "Alpha University", State: "CA", GPARequirement: gpa(3.8)},
			{ID: "b", Name: "Beta College", State: "CA", GPARequirement: gpa(3.0)},
			{ID: "c", Name: "Gamma Institute", State: "NY"},
		},
		QuizCategories: []internal.QuizCategory{{ID: "math", Name: "Math"}},
		QuizQuestions: []internal.QuizQuestion{
			{ID: "q1", CategoryID: "math", Question: "2+2", Options: []string{"3", "4"}, CorrectAnswer: 1},
			{ID: "q2", CategoryID: "math", Question: "3+3", Options: []string{"6", "7"}, CorrectAnswer: 0},
		},
	}))
}

func TestQuizzes(t *testing.T) {
	r, store := setupRouter(t)
	seedReference(t, store)

	w, env := do(t, r, http.MethodGet, "/api/quizzes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]internal.QuizCategory](t, env), 1)

	w, _ = do(t, r, http.MethodGet, "/api/quizzes/math/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correct_answer")

	w, _ = do(t, r, http.MethodGet, "/api/quizzes/history/questions", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/quizzes/math/results", `{"question_ids":["q1","q2"],"answers":[1,1],"time_taken":30}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 50.0, env.Meta["percentage"])
	attempt := decode[internal.QuizAttempt](t, env)
	assert.Equal(t, 1, attempt.Score)

	w, _ = do(t, r, http.MethodPost, "/api/quizzes/math/results", `{"question_ids":["q9"],"answers":[0],"time_taken":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/quizzes/math/results", `{"question_ids":["q1","q2"],"answers":[1,0],"time_taken":12}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/quizzes/results", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]internal.QuizAttempt](t, env), 2)
	assert.Equal(t, 75.0, env.Meta["average_percentage"])
}

func TestColleges(t *testing.T) {
	r, store := setupRouter(t)
	seedReference(t, store)

	w, env := do(t, r, http.MethodGet, "/api/colleges?min_gpa=3.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	matches := decode[[]struct {
		ID       string `json:"id"`
		MeetsGPA *bool  `json:"meets_gpa"`
	}](t, env)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	assert.Nil(t, matches[0].MeetsGPA)

	w, _ = do(t, r, http.MethodPost, "/api/courses", `{"name":"Calc","grade":"B+","credit_hours":3,"semester":"Fall","year":2024}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/colleges?state=CA&search=beta", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.3, env.Meta["student_gpa"])
	assert.Contains(t, string(env.Data), `"meets_gpa":true`)

	w, _ = do(t, r, http.MethodGet, "/api/colleges?min_gpa=high", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/colleges/saved", `{"college_id":"b"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	saved := decode[internal.SavedCollege](t, env)

	w, _ = do(t, r, http.MethodPost, "/api/colleges/saved", `{"college_id":"b"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/colleges/saved", `{"college_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/colleges/saved", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]internal.SavedCollege](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "Beta College", list[0].College.Name)

	w, _ = do(t, r, http.MethodDelete, "/api/colleges/saved/"+saved.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTasks(t *testing.T) {
	r, _ := setupRouter(t)
	past := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339)

	w, env := do(t, r, http.MethodPost, "/api/tasks", `{"title":"Read chapter 4","priority":"high","due_date":"`+past+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[internal.Task](t, env)
	assert.Equal(t, internal.TaskPending, task.Status)

	w, _ = do(t, r, http.MethodPost, "/api/tasks", `{"title":"Group project","priority":"low"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/tasks", `{"title":"Bad","priority":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/tasks?status=overdue", "")
	require.Equal(t, http.StatusOK, w.Code)
	overdue := decode[[]internal.Task](t, env)
	require.Len(t, overdue, 1)
	assert.Equal(t, internal.TaskOverdue, overdue[0].Status)

	w, _ = do(t, r, http.MethodGet, "/api/tasks?sort=title", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodPut, "/api/tasks/"+task.ID, `{"title":"Read chapter 4","priority":"high","status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[internal.Task](t, env).CompletedAt)

	w, _ = do(t, r, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPut, "/api/tasks/"+task.ID, `{"title":"x","priority":"low"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvents(t *testing.T) {
	r, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	readUntil := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q", prefix)
		return ""
	}
	readUntil("event:ready")

	post, err := http.NewRequest(http.MethodPost, srv.URL+"/api/mood", strings.NewReader(`{"mood":"good"}`))
	require.NoError(t, err)
	post.Header.Set("Authorization", "Bearer "+token)
	post.Header.Set("Content-Type", "application/json")
	postResp, err := http.DefaultClient.Do(post)
	require.NoError(t, err)
	postResp.Body.Close()
	require.Equal(t, http.StatusCreated, postResp.StatusCode)

	readUntil("event:change")
	data := readUntil("data:")
	var ch notify.Change
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data:")), &ch))
	assert.Equal(t, "mood_entries", ch.Table)
	assert.Equal(t, notify.OpInsert, ch.Op)
	assert.Equal(t, "u1", ch.UserID)
}
