package mockserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"luy-todo/backend/internal/services"
	"luy-todo/backend/internal/validation"
)

var (
	ErrMissingID = errors.New("missing id parameter")
	ErrInvalidID = errors.New("id parameter is not a number")
)

// TodoHandlers は /todo エンドポイントのハンドラーです。
type TodoHandlers struct {
	todoService *services.TodoService
	logger      *log.Logger
}

// NewTodoHandlers は新しいTodoHandlersを作成します。
func NewTodoHandlers(todoService *services.TodoService, logger *log.Logger) *TodoHandlers {
	if logger == nil {
		logger = log.Default()
	}
	return &TodoHandlers{todoService: todoService, logger: logger}
}

// TodoRules は GET, POST, DELETE の順に並んだルール表を返します。
func TodoRules(h *TodoHandlers, path PathMatcher) []Rule {
	return []Rule{
		{Method: http.MethodGet, Path: path, Handler: h.List},
		{Method: http.MethodPost, Path: path, Handler: h.Create},
		{Method: http.MethodDelete, Path: path, Handler: h.Delete},
	}
}

// List は全てのTodoを返します。
func (h *TodoHandlers) List(_ Request) Response {
	todos, err := h.todoService.GetTodos()
	if err != nil {
		return h.storageError("[GET]", err)
	}
	h.logger.Info("[GET] To-do item list fetched successfully.", "count", len(todos))
	return Response{Status: http.StatusOK, StatusText: http.StatusText(http.StatusOK), Body: todos}
}

// Create はボディを検証してTodoを追加します。
func (h *TodoHandlers) Create(req Request) Response {
	payload, err := validation.ParseTodo(req.Body)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrIDAlreadyAssigned):
			h.logger.Error("[POST] The given todo item already has an ID.", "body", string(req.Body))
			return errorResponse(http.StatusConflict, "id_already_assigned", "The given todo item already has an ID.", err)
		case errors.Is(err, validation.ErrInvalidPayload):
			h.logger.Error("[POST] The given payload is not a todo item.", "err", err, "body", string(req.Body))
			return errorResponse(http.StatusBadRequest, "invalid_payload", "The given payload is not a todo item.", err)
		default:
			h.logger.Error("[POST] Could not validate payload.", "err", err)
			return errorResponse(http.StatusInternalServerError, "validation_error", "Could not validate payload.", err)
		}
	}

	created, err := h.todoService.CreateTodo(payload)
	if err != nil {
		if errors.Is(err, validation.ErrIDAlreadyAssigned) {
			return errorResponse(http.StatusConflict, "id_already_assigned", "The given todo item already has an ID.", err)
		}
		return h.storageError("[POST]", err)
	}

	h.logger.Info("[POST] New to-do item added successfully", "id", created.ID, "title", created.Title)
	return Response{Status: http.StatusOK, StatusText: http.StatusText(http.StatusOK), Body: created}
}

// Delete はクエリパラメータ id のTodoを削除します。存在しないIDでも 200 を返します。
func (h *TodoHandlers) Delete(req Request) Response {
	if !req.Params.Has("id") {
		h.logger.Error("[DELETE] Missing id parameter")
		return errorResponse(http.StatusBadRequest, "missing_id", "Missing id parameter.", ErrMissingID)
	}

	id, err := strconv.Atoi(req.Params.Get("id"))
	if err != nil {
		h.logger.Error("[DELETE] Id parameter is not a number", "id", req.Params.Get("id"))
		return errorResponse(http.StatusBadRequest, "invalid_id", "Id parameter is not a number.", ErrInvalidID)
	}

	removed, err := h.todoService.DeleteTodo(id)
	if err != nil {
		return h.storageError("[DELETE]", err)
	}

	h.logger.Info("[DELETE] Deleted to-do item", "id", id, "removed", removed)
	return Response{Status: http.StatusOK, StatusText: http.StatusText(http.StatusOK)}
}

func (h *TodoHandlers) storageError(tag string, err error) Response {
	h.logger.Error(tag+" Storage operation failed", "err", err)
	return errorResponse(http.StatusInternalServerError, "storage_error", err.Error(), err)
}

// NewTodoDispatcher は /todo の3ルールだけを持つDispatcherを作成します。
func NewTodoDispatcher(todoService *services.TodoService, path PathMatcher, logger *log.Logger) *Dispatcher {
	h := NewTodoHandlers(todoService, logger)
	return NewDispatcher(Config{Rules: TodoRules(h, path), Logger: logger})
}
