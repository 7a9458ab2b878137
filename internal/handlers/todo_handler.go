package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"luy-todo/backend/internal/mockserver"
	"luy-todo/backend/internal/models"
)

// StatusTextHeader はディスパッチャーのステータステキストを返すヘッダーです。
const StatusTextHeader = "X-Status-Text"

// MaxBodyBytes はディスパッチャーに渡すリクエストボディの上限です。
const MaxBodyBytes = 1 << 20

// TodoHandler は HTTP リクエストをディスパッチャーに渡すハンドラーです。
type TodoHandler struct {
	dispatcher *mockserver.Dispatcher
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(dispatcher *mockserver.Dispatcher) *TodoHandler {
	return &TodoHandler{dispatcher: dispatcher}
}

// DispatchHandler はリクエストを mockserver.Request に変換してディスパッチし、結果をそのまま書き出します。
func (h *TodoHandler) DispatchHandler(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorBody{Error: "invalid_body", Details: err.Error()})
			return
		}
		body = b
	}

	resp := h.dispatcher.Dispatch(mockserver.Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Params: c.Request.URL.Query(),
		Body:   body,
	})
	if resp.Err != nil {
		_ = c.Error(resp.Err)
	}

	if resp.StatusText != "" {
		c.Header(StatusTextHeader, resp.StatusText)
	}
	if resp.Body == nil {
		c.Status(resp.Status)
		return
	}
	c.JSON(resp.Status, resp.Body)
}
