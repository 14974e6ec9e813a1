package storage

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
)

// collection is one JSON file worth of records, keyed by id. All access goes
// through FileStorage.mu.
type collection[T any] struct {
	name   string
	path   string
	items  map[string]*T
	saveCh chan struct{}
}

func newCollection[T any](dir, name string) *collection[T] {
	return &collection[T]{
		name:   name,
		path:   filepath.Join(dir, name+".json"),
		items:  make(map[string]*T),
		saveCh: make(chan struct{}, 1),
	}
}

func (c *collection[T]) load(idOf func(*T) string) error {
	file, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var records []*T
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	for _, r := range records {
		c.items[idOf(r)] = r
	}
	return nil
}

// signal asks the save worker to flush soon without blocking the writer.
func (c *collection[T]) signal() {
	select {
	case c.saveCh <- struct{}{}:
	default:
	}
}

// find returns copies of the records matching keep, sorted by less and cut to
// limit when limit > 0.
func (c *collection[T]) find(keep func(*T) bool, less func(a, b *T) bool, limit int) []T {
	matched := make([]*T, 0)
	for _, r := range c.items {
		if keep == nil || keep(r) {
			matched = append(matched, r)
		}
	}
	if less != nil {
		sort.Slice(matched, func(i, j int) bool { return less(matched[i], matched[j]) })
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]T, len(matched))
	for i, r := range matched {
		out[i] = *r
	}
	return out
}

type flusher interface {
	flush(mu *sync.RWMutex) error
	pending() <-chan struct{}
	label() string
}

func (c *collection[T]) flush(mu *sync.RWMutex) error {
	mu.RLock()
	records := make([]*T, 0, len(c.items))
	for _, r := range c.items {
		records = append(records, r)
	}
	mu.RUnlock()
	return atomicWriteFileJSON(c.path, records)
}

func (c *collection[T]) pending() <-chan struct{} { return c.saveCh }
func (c *collection[T]) label() string            { return c.name }

// FileStorage keeps every record in memory and mirrors each table to a JSON file
// in dir. Writes are batched by one save worker per table.
type FileStorage struct {
	mu sync.RWMutex

	courses   *collection[internal.Course]
	snapshots *collection[internal.GPASnapshot]
	moods     *collection[internal.MoodEntry]
	journal   *collection[internal.JournalEntry]
	cats      *collection[internal.QuizCategory]
	questions *collection[internal.QuizQuestion]
	results   *collection[internal.QuizAttempt]
	colleges  *collection[internal.College]
	saved     *collection[internal.SavedCollege]
	tasks     *collection[internal.Task]

	flushers     []flusher
	saveDelay    time.Duration
	shutdownChan chan struct{}
	workers      sync.WaitGroup
	closeOnce    sync.Once
	logger       internal.Logger
}

func NewFileStorage(dir string, logger internal.Logger) (*FileStorage, error) {
	return newFileStorage(dir, 500*time.Millisecond, logger)
}

func newFileStorage(dir string, saveDelay time.Duration, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Errorf("storage: failed to create data dir: %v", err)
		return nil, errors.Wrap(err, "storage: create data dir")
	}

	s := &FileStorage{
		courses:      newCollection[internal.Course](dir, "courses"),
		snapshots:    newCollection[internal.GPASnapshot](dir, "gpa_history"),
		moods:        newCollection[internal.MoodEntry](dir, "mood_entries"),
		journal:      newCollection[internal.JournalEntry](dir, "journal_entries"),
		cats:         newCollection[internal.QuizCategory](dir, "quiz_categories"),
		questions:    newCollection[internal.QuizQuestion](dir, "quiz_questions"),
		results:      newCollection[internal.QuizAttempt](dir, "quiz_results"),
		colleges:     newCollection[internal.College](dir, "colleges"),
		saved:        newCollection[internal.SavedCollege](dir, "saved_colleges"),
		tasks:        newCollection[internal.Task](dir, "tasks"),
		saveDelay:    saveDelay,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	loads := []struct {
		name string
		fn   func() error
	}{
		{"courses", func() error { return s.courses.load(func(r *internal.Course) string { return r.ID }) }},
		{"gpa history", func() error { return s.snapshots.load(func(r *internal.GPASnapshot) string { return r.ID }) }},
		{"mood entries", func() error { return s.moods.load(func(r *internal.MoodEntry) string { return r.ID }) }},
		{"journal entries", func() error { return s.journal.load(func(r *internal.JournalEntry) string { return r.ID }) }},
		{"quiz categories", func() error { return s.cats.load(func(r *internal.QuizCategory) string { return r.ID }) }},
		{"quiz questions", func() error { return s.questions.load(func(r *internal.QuizQuestion) string { return r.ID }) }},
		{"quiz results", func() error { return s.results.load(func(r *internal.QuizAttempt) string { return r.ID }) }},
		{"colleges", func() error { return s.colleges.load(func(r *internal.College) string { return r.ID }) }},
		{"saved colleges", func() error { return s.saved.load(func(r *internal.SavedCollege) string { return r.ID }) }},
		{"tasks", func() error { return s.tasks.load(func(r *internal.Task) string { return r.ID }) }},
	}
	for _, l := range loads {
		if err := l.fn(); err != nil {
			logger.Errorf("storage: failed to load %s: %v", l.name, err)
			return nil, errors.Wrapf(err, "storage: load %s", l.name)
		}
	}

	s.flushers = []flusher{
		s.courses, s.snapshots, s.moods, s.journal, s.cats,
		s.questions, s.results, s.colleges, s.saved, s.tasks,
	}
	for _, f := range s.flushers {
		s.workers.Add(1)
		go s.saveWorker(f)
	}
	return s, nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveWorker(f flusher) {
	defer s.workers.Done()
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-f.pending():
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := f.flush(&s.mu); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", f.label(), err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

// Close stops the save workers and writes every table synchronously.
func (s *FileStorage) Close() error {
	var firstErr error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		for _, f := range s.flushers {
			if err := f.flush(&s.mu); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, "storage: save %s", f.label())
			}
		}
	})
	return firstErr
}

func notFound(what, id string) error {
	return errors.Wrapf(internal.ErrNotFound, "storage: %s %s", what, id)
}

func newestFirst(a, b time.Time) bool { return a.After(b) }

// --- CourseRepository ---
func (s *FileStorage) SaveCourse(ctx context.Context, course *internal.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *course
	s.courses.items[c.ID] = &c
	s.courses.signal()
	return nil
}

func (s *FileStorage) ListCourses(ctx context.Context, userID string) ([]internal.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses.find(
		func(c *internal.Course) bool { return c.UserID == userID },
		func(a, b *internal.Course) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		0,
	), nil
}

func (s *FileStorage) DeleteCourse(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses.items[id]
	if !ok || c.UserID != userID {
		return notFound("course", id)
	}
	delete(s.courses.items, id)
	s.courses.signal()
	return nil
}

// --- GPARepository ---
func (s *FileStorage) InsertGPASnapshotIfAbsent(ctx context.Context, snap *internal.GPASnapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.snapshots.items {
		if existing.UserID == snap.UserID && existing.Semester == snap.Semester && existing.Year == snap.Year {
			return false, nil
		}
	}
	v := *snap
	s.snapshots.items[v.ID] = &v
	s.snapshots.signal()
	return true, nil
}

func (s *FileStorage) ListGPASnapshots(ctx context.Context, userID string) ([]internal.GPASnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots.find(
		func(g *internal.GPASnapshot) bool { return g.UserID == userID },
		func(a, b *internal.GPASnapshot) bool { return a.CalculatedAt.Before(b.CalculatedAt) },
		0,
	), nil
}

// --- MoodRepository ---
func (s *FileStorage) SaveMoodEntry(ctx context.Context, entry *internal.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	s.moods.items[e.ID] = &e
	s.moods.signal()
	return nil
}

func (s *FileStorage) ListMoodEntries(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moods.find(
		func(e *internal.MoodEntry) bool { return e.UserID == userID },
		func(a, b *internal.MoodEntry) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		limit,
	), nil
}

// --- JournalRepository ---
func (s *FileStorage) SaveJournalEntry(ctx context.Context, entry *internal.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	s.journal.items[e.ID] = &e
	s.journal.signal()
	return nil
}

func (s *FileStorage) UpdateJournalEntry(ctx context.Context, entry *internal.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.journal.items[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return notFound("journal entry", entry.ID)
	}
	e := *entry
	s.journal.items[e.ID] = &e
	s.journal.signal()
	return nil
}

func (s *FileStorage) GetJournalEntry(ctx context.Context, userID, id string) (*internal.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.journal.items[id]
	if !ok || e.UserID != userID {
		return nil, notFound("journal entry", id)
	}
	out := *e
	return &out, nil
}

func (s *FileStorage) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.journal.items[id]
	if !ok || e.UserID != userID {
		return notFound("journal entry", id)
	}
	delete(s.journal.items, id)
	s.journal.signal()
	return nil
}

func (s *FileStorage) ListJournalEntries(ctx context.Context, userID string, limit int) ([]internal.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.journal.find(
		func(e *internal.JournalEntry) bool { return e.UserID == userID },
		func(a, b *internal.JournalEntry) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		limit,
	), nil
}

// --- QuizRepository ---
func (s *FileStorage) SaveQuizCategory(ctx context.Context, cat *internal.QuizCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cat
	s.cats.items[c.ID] = &c
	s.cats.signal()
	return nil
}

func (s *FileStorage) ListQuizCategories(ctx context.Context) ([]internal.QuizCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cats.find(nil, func(a, b *internal.QuizCategory) bool { return a.Name < b.Name }, 0), nil
}

func (s *FileStorage) SaveQuizQuestion(ctx context.Context, q *internal.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *q
	s.questions.items[v.ID] = &v
	s.questions.signal()
	return nil
}

func (s *FileStorage) GetQuizQuestions(ctx context.Context, categoryID string, limit int) ([]internal.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions.find(
		func(q *internal.QuizQuestion) bool { return q.CategoryID == categoryID },
		func(a, b *internal.QuizQuestion) bool { return a.ID < b.ID },
		limit,
	), nil
}

func (s *FileStorage) InsertQuizResult(ctx context.Context, attempt *internal.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results.items[attempt.ID]; ok {
		return errors.Wrapf(internal.ErrConflict, "storage: quiz result %s", attempt.ID)
	}
	a := *attempt
	s.results.items[a.ID] = &a
	s.results.signal()
	return nil
}

func (s *FileStorage) ListQuizResults(ctx context.Context, userID string, limit int) ([]internal.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.find(
		func(a *internal.QuizAttempt) bool { return a.UserID == userID },
		func(a, b *internal.QuizAttempt) bool { return newestFirst(a.CompletedAt, b.CompletedAt) },
		limit,
	), nil
}

// --- CollegeRepository ---
func (s *FileStorage) SaveCollege(ctx context.Context, c *internal.College) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *c
	s.colleges.items[v.ID] = &v
	s.colleges.signal()
	return nil
}

func (s *FileStorage) ListColleges(ctx context.Context) ([]internal.College, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colleges.find(nil, func(a, b *internal.College) bool { return a.Name < b.Name }, 0), nil
}

func (s *FileStorage) GetCollege(ctx context.Context, id string) (*internal.College, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.colleges.items[id]
	if !ok {
		return nil, notFound("college", id)
	}
	out := *c
	return &out, nil
}

func (s *FileStorage) SaveCollegeForUser(ctx context.Context, saved *internal.SavedCollege) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colleges.items[saved.CollegeID]; !ok {
		return notFound("college", saved.CollegeID)
	}
	for _, existing := range s.saved.items {
		if existing.UserID == saved.UserID && existing.CollegeID == saved.CollegeID {
			return errors.Wrapf(internal.ErrConflict, "storage: college %s already saved", saved.CollegeID)
		}
	}
	v := *saved
	v.College = nil
	s.saved.items[v.ID] = &v
	s.saved.signal()
	return nil
}

func (s *FileStorage) RemoveSavedCollege(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.saved.items[id]
	if !ok || v.UserID != userID {
		return notFound("saved college", id)
	}
	delete(s.saved.items, id)
	s.saved.signal()
	return nil
}

func (s *FileStorage) ListSavedColleges(ctx context.Context, userID string) ([]internal.SavedCollege, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.saved.find(
		func(v *internal.SavedCollege) bool { return v.UserID == userID },
		func(a, b *internal.SavedCollege) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		0,
	)
	for i := range out {
		if c, ok := s.colleges.items[out[i].CollegeID]; ok {
			college := *c
			out[i].College = &college
		}
	}
	return out, nil
}

// --- TaskRepository ---
func (s *FileStorage) SaveTask(ctx context.Context, task *internal.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *task
	s.tasks.items[t.ID] = &t
	s.tasks.signal()
	return nil
}

func (s *FileStorage) UpdateTask(ctx context.Context, task *internal.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks.items[task.ID]
	if !ok || existing.UserID != task.UserID {
		return notFound("task", task.ID)
	}
	t := *task
	s.tasks.items[t.ID] = &t
	s.tasks.signal()
	return nil
}

func (s *FileStorage) GetTask(ctx context.Context, userID, id string) (*internal.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks.items[id]
	if !ok || t.UserID != userID {
		return nil, notFound("task", id)
	}
	out := *t
	return &out, nil
}

func (s *FileStorage) DeleteTask(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks.items[id]
	if !ok || t.UserID != userID {
		return notFound("task", id)
	}
	delete(s.tasks.items, id)
	s.tasks.signal()
	return nil
}

func (s *FileStorage) ListTasks(ctx context.Context, userID string) ([]internal.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.find(
		func(t *internal.Task) bool { return t.UserID == userID },
		func(a, b *internal.Task) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		0,
	), nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
