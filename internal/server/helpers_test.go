package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-app/internal/auth"
	"github.com/Tomlord1122/todo-app/internal/database"
	"github.com/Tomlord1122/todo-app/internal/domain"
	"github.com/Tomlord1122/todo-app/internal/service"
	"github.com/Tomlord1122/todo-app/internal/view"
)

var testSecret = []byte("server-test-secret")

type mockTodoService struct {
	mock.Mock
}

func (m *mockTodoService) ListTodos(ctx context.Context, ownerID uint) ([]domain.Todo, error) {
	args := m.Called(ctx, ownerID)
	todos, _ := args.Get(0).([]domain.Todo)
	return todos, args.Error(1)
}

func (m *mockTodoService) GetTodo(ctx context.Context, id, userID uint) (*domain.Todo, error) {
	args := m.Called(ctx, id, userID)
	todo, _ := args.Get(0).(*domain.Todo)
	return todo, args.Error(1)
}

func (m *mockTodoService) CreateTodo(ctx context.Context, ownerID uint, form service.TodoForm) (*domain.Todo, error) {
	args := m.Called(ctx, ownerID, form)
	todo, _ := args.Get(0).(*domain.Todo)
	return todo, args.Error(1)
}

func (m *mockTodoService) UpdateTodo(ctx context.Context, id, userID uint, form service.TodoForm) error {
	args := m.Called(ctx, id, userID, form)
	return args.Error(0)
}

func (m *mockTodoService) DeleteTodo(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *mockTodoService) ToggleComplete(ctx context.Context, id, userID uint) (*domain.Todo, error) {
	args := m.Called(ctx, id, userID)
	todo, _ := args.Get(0).(*domain.Todo)
	return todo, args.Error(1)
}

type fakeDB struct {
	stats map[string]string
}

func (f fakeDB) Health() map[string]string { return f.stats }
func (f fakeDB) Close() error              { return nil }
func (f fakeDB) GetDB() *gorm.DB           { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, svc service.TodoService, db database.Service) *http.Server {
	t.Helper()
	authenticator, err := auth.NewAuthenticator(auth.Config{SecretKey: testSecret}, testLogger())
	require.NoError(t, err)
	views, err := view.New()
	require.NoError(t, err)
	return NewServer(Config{}, svc, db, authenticator, views, testLogger())
}

func sessionCookie(t *testing.T, userID uint, username string) *http.Cookie {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.DefaultCookieName, Value: token}
}

func get(h http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postMultipart(t *testing.T, h http.Handler, path string, fields map[string]string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
