package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/wooauto/internal/database"
	"github.com/mrlokans/wooauto/internal/locale"
	"github.com/mrlokans/wooauto/internal/preferences"
	"github.com/mrlokans/wooauto/internal/woocommerce"
)

type fakeScheduler struct {
	mu          sync.Mutex
	running     bool
	reschedules int
	runs        int
	err         error
}

func (s *fakeScheduler) Reschedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reschedules++
	return s.err
}

func (s *fakeScheduler) RunNow(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if s.err != nil {
		return "", s.err
	}
	return "task-42", nil
}

func (s *fakeScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *fakeScheduler) NextRun() *time.Time {
	if !s.IsRunning() {
		return nil
	}
	next := time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC)
	return &next
}

type fakeTester struct {
	status *woocommerce.SystemStatus
	err    error
	got    woocommerce.Config
}

func (f *fakeTester) factory(cfg woocommerce.Config) ConnectionTester {
	f.got = cfg
	return f
}

func (f *fakeTester) TestConnection(context.Context) (*woocommerce.SystemStatus, error) {
	return f.status, f.err
}

type testEnv struct {
	db        *database.Database
	store     *preferences.Store
	scheduler *fakeScheduler
	tester    *fakeTester
	router    *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "api.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:        db,
		store:     preferences.New(db.Settings()),
		scheduler: &fakeScheduler{},
		tester:    &fakeTester{status: &woocommerce.SystemStatus{}},
	}
	env.router = NewRouter(RouterConfig{
		Database:            db,
		Preferences:         env.store,
		Languages:           locale.NewManager(env.store, func(string) string { return "" }),
		NewConnectionTester: env.tester.factory,
		Scheduler:           env.scheduler,
		Version:             "test",
	})
	return env
}

// do sends a request with an optional JSON body and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
