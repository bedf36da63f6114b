package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio/internal/database"
	"portfolio/internal/inbox"
	"portfolio/internal/seed"
	"portfolio/internal/store"
)

const testAdminSecret = "s3cret"

type fakeNotifier struct {
	mu   sync.Mutex
	sent []database.ContactMessage
	err  error
}

func (f *fakeNotifier) NotifyContactMessage(_ context.Context, msg database.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []inbox.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event inbox.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fakeSigner struct {
	err error
}

func (f *fakeSigner) SignURL(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://media.example.com/portfolio-media/" + key + "?X-Amz-Signature=abc", nil
}

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	store     *store.Store
	notifier  *fakeNotifier
	publisher *fakePublisher
}

type envOption func(*Dependencies)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T, seeded bool, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	if seeded {
		_, err := seed.New(db, nil, discardLogger()).Run(context.Background())
		require.NoError(t, err)
	}

	env := &testEnv{
		db:        db,
		store:     store.New(db),
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	deps := Dependencies{
		Store:       env.store,
		Media:       NewMediaResolver(nil, ""),
		Notifier:    env.notifier,
		Publisher:   env.publisher,
		AdminSecret: testAdminSecret,
		Logger:      discardLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	env.router = NewRouter(discardLogger(), sqlDB)
	RegisterRoutes(env.router, "/api", deps)
	return env
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

var errBoom = errors.New("boom")
