// Package repositories はストレージ上のデータ操作を行うリポジトリを提供します。
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"luy-todo/backend/internal/models"
	"luy-todo/backend/internal/storage"
)

// DefaultTodoListKey は ToDo リストを保存するストレージキーです。
const DefaultTodoListKey = "luy_todo_list"

// ErrCorruptTodoList は保存されている値が ToDo リストとして読めない場合のエラーです。
var ErrCorruptTodoList = errors.New("stored todo list is corrupt")

// TodoRepository は ToDo リスト全体を1つのストレージキーに保存します。
// 読み込みは毎回デシリアライズした新しいスライスを返し、書き込みは値を丸ごと置き換えます。
type TodoRepository struct {
	Storage storage.Storage
	Key     string

	// Now はシードデータの3件目の日時に使います。
	Now func() time.Time
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(s storage.Storage, key string) *TodoRepository {
	if key == "" {
		key = DefaultTodoListKey
	}
	return &TodoRepository{Storage: s, Key: key, Now: time.Now}
}

// SeedTodos は初期化時に書き込む3件の ToDo を返します。
func SeedTodos(now time.Time) []models.Todo {
	return []models.Todo{
		{
			ID:          1,
			Title:       "Buy gift for Alice",
			Description: "Alice has birthday in 6 months. I need to buy a gift for her.",
			AddedOn:     time.Date(2025, 5, 1, 15, 35, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Wash the cat",
			Description: "My cat was roaming again and its fur is sticky and dusty. I should really wash it.",
			AddedOn:     time.Date(2025, 6, 23, 10, 35, 0, 0, time.UTC),
		},
		{
			ID:          3,
			Title:       "Clean the kitchen",
			Description: "After the last party the kitchen is really messy. I should clean it before my Mom's visit.",
			AddedOn:     now.UTC().Truncate(time.Millisecond),
		},
	}
}

// Initialize は値が存在しない場合のみシードデータを書き込みます。既存の値は上書きしません。
func (r *TodoRepository) Initialize() error {
	_, ok, err := r.Storage.GetItem(r.Key)
	if err != nil {
		return fmt.Errorf("could not read todo list: %w", err)
	}
	if ok {
		return nil
	}
	return r.Save(SeedTodos(r.Now()))
}

// Clear は ToDo リストをストレージから削除します。
func (r *TodoRepository) Clear() error {
	if err := r.Storage.RemoveItem(r.Key); err != nil {
		return fmt.Errorf("could not clear todo list: %w", err)
	}
	return nil
}

// Load は保存されている ToDo リストを返します。値がなければ空のスライスです。
func (r *TodoRepository) Load() ([]models.Todo, error) {
	raw, ok, err := r.Storage.GetItem(r.Key)
	if err != nil {
		return nil, fmt.Errorf("could not read todo list: %w", err)
	}
	if !ok {
		return []models.Todo{}, nil
	}

	var todos []models.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTodoList, err)
	}
	if todos == nil {
		// "null" が保存されていた場合
		todos = []models.Todo{}
	}
	return todos, nil
}

// Save は ToDo リスト全体をシリアライズして保存します。
func (r *TodoRepository) Save(todos []models.Todo) error {
	if todos == nil {
		todos = []models.Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("could not marshal todo list: %w", err)
	}
	if err := r.Storage.SetItem(r.Key, string(b)); err != nil {
		return fmt.Errorf("could not write todo list: %w", err)
	}
	return nil
}
