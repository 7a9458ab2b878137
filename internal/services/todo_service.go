package services

import (
	"strings"

	"luy-todo/backend/internal/models"
	"luy-todo/backend/internal/repositories"
	"luy-todo/backend/internal/validation"
)

// TodoService はTodo関連のビジネスロジックを扱います。
// 各操作はリスト全体の読み込み、変更、書き戻しを1回で行います。
type TodoService struct {
	todoRepo *repositories.TodoRepository
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// GetTodos は保存されている全てのTodoを返します。
func (s *TodoService) GetTodos() ([]models.Todo, error) {
	return s.todoRepo.Load()
}

// CreateTodo は次のIDを採番してTodoを追加し、保存したTodoを返します。
// すでにIDを持つTodoは受け付けません。
func (s *TodoService) CreateTodo(todo *models.Todo) (*models.Todo, error) {
	if todo.ID != 0 {
		return nil, validation.ErrIDAlreadyAssigned
	}

	todos, err := s.todoRepo.Load()
	if err != nil {
		return nil, err
	}

	saved := *todo
	saved.ID = NextID(todos)
	todos = append(todos, saved)
	if err := s.todoRepo.Save(todos); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteTodo は指定IDのTodoを全て削除します。存在しないIDでもエラーにはなりません。
// 削除した件数を返します。
func (s *TodoService) DeleteTodo(id int) (int, error) {
	todos, err := s.todoRepo.Load()
	if err != nil {
		return 0, err
	}

	kept := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if err := s.todoRepo.Save(kept); err != nil {
		return 0, err
	}
	return len(todos) - len(kept), nil
}

// Initialize はリストが未作成ならシードデータを書き込みます。
func (s *TodoService) Initialize() error {
	return s.todoRepo.Initialize()
}

// Clear はリストを削除します。
func (s *TodoService) Clear() error {
	return s.todoRepo.Clear()
}

// Reset はリストを削除してシードデータで初期化し直します。壊れたデータの復旧用です。
func (s *TodoService) Reset() error {
	if err := s.todoRepo.Clear(); err != nil {
		return err
	}
	return s.todoRepo.Initialize()
}

// NextID は既存IDの最大値+1を返します。リストが空なら1です。
func NextID(todos []models.Todo) int {
	maxID := 0
	for _, t := range todos {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// FilterTodos はタイトルか説明に query を含むTodoだけを返します。大文字小文字は区別しません。
// query が空なら全件を返します。
func FilterTodos(todos []models.Todo, query string) []models.Todo {
	q := strings.ToLower(query)
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}
