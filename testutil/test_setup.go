package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"luy-todo/backend/internal/logging"
	"luy-todo/backend/internal/mockserver"
	"luy-todo/backend/internal/models"
	"luy-todo/backend/internal/repositories"
	"luy-todo/backend/internal/routes"
	"luy-todo/backend/internal/services"
	"luy-todo/backend/internal/storage"
)

// FixedNow はシードデータの3件目に使うテスト用の日時です。
var FixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// TestEnv はテスト用に組み立てた依存関係です。
type TestEnv struct {
	Storage     *storage.MemoryStorage
	TodoRepo    *repositories.TodoRepository
	TodoService *services.TodoService
	Dispatcher  *mockserver.Dispatcher
}

// SetupTestDispatcher はメモリストレージ上にシードデータを投入したディスパッチャーを作成します。
// テストごとに独立したインスタンスになります。
func SetupTestDispatcher(t *testing.T) *TestEnv {
	t.Helper()
	env := setupEmpty(t)
	require.NoError(t, env.TodoRepo.Initialize())
	return env
}

// SetupTestDispatcherWith は与えられたリストを保存した状態のディスパッチャーを作成します。
func SetupTestDispatcherWith(t *testing.T, todos []models.Todo) *TestEnv {
	t.Helper()
	env := setupEmpty(t)
	require.NoError(t, env.TodoRepo.Save(todos))
	return env
}

func setupEmpty(t *testing.T) *TestEnv {
	t.Helper()
	mem := storage.NewMemoryStorage()
	repo := repositories.NewTodoRepository(mem, repositories.DefaultTodoListKey)
	repo.Now = func() time.Time { return FixedNow }
	svc := services.NewTodoService(repo)
	return &TestEnv{
		Storage:     mem,
		TodoRepo:    repo,
		TodoService: svc,
		Dispatcher:  mockserver.NewTodoDispatcher(svc, mockserver.ExactPath("/todo"), logging.Discard()),
	}
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, env *TestEnv, jwtService *services.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(env.Dispatcher, env.Storage, env.TodoRepo.Key, routes.Options{
		AllowOrigins: []string{"http://localhost:4200"},
		JWTService:   jwtService,
		Logger:       logging.Discard(),
	})
}

// Dispatch は URL とボディからリクエストを作成してディスパッチします。
func Dispatch(t *testing.T, d *mockserver.Dispatcher, method, rawURL string, body []byte) mockserver.Response {
	t.Helper()
	req, err := mockserver.NewRequest(method, rawURL, body)
	require.NoError(t, err)
	return d.Dispatch(req)
}

// TodoPayload は POST /todo 用の JSON ボディを作成します。
func TodoPayload(t *testing.T, title, description string, addedOn time.Time) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"title":       title,
		"description": description,
		"addedOn":     addedOn.UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)
	return body
}

// CreateTestTodo はディスパッチャー経由でTODOを作成し、保存されたTODOを返します。
func CreateTestTodo(t *testing.T, d *mockserver.Dispatcher, title, description string) models.Todo {
	t.Helper()
	resp := Dispatch(t, d, http.MethodPost, "/todo", TodoPayload(t, title, description, FixedNow))
	require.Equal(t, http.StatusOK, resp.Status, "TODO作成に失敗しました: %v", resp.Err)

	created, ok := resp.Body.(*models.Todo)
	require.True(t, ok, "unexpected body type %T", resp.Body)
	return *created
}

// IDs はTODOのIDを順番に返します。
func IDs(todos []models.Todo) []int {
	ids := make([]int, 0, len(todos))
	for _, t := range todos {
		ids = append(ids, t.ID)
	}
	return ids
}

// ServeJSON はルーターにリクエストを送り、レコーダーを返します。
func ServeJSON(t *testing.T, router http.Handler, method, target string, body []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}
