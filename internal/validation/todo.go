// Package validation は受け取ったペイロードが ToDo の形をしているか確認します。
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"luy-todo/backend/internal/models"
)

var (
	ErrInvalidPayload    = errors.New("the given payload is not a todo item")
	ErrIDAlreadyAssigned = errors.New("the given todo item already has an ID")
)

const todoSchemaURL = "todo.schema.json"

// title / description / addedOn の存在と型だけを確認します。id はスキーマでは扱いません。
const todoSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["title", "description", "addedOn"],
	"properties": {
		"title": {"type": "string"},
		"description": {"type": "string"},
		"addedOn": {"type": "string", "format": "date-time"}
	}
}`

var compiledTodoSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// PayloadError はペイロードのどこが不正かを表します。errors.Is(err, ErrInvalidPayload) が成り立ちます。
type PayloadError struct {
	Path    string
	Message string
}

func (e *PayloadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidPayload, e.Message)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidPayload, e.Path, e.Message)
}

func (e *PayloadError) Unwrap() error { return ErrInvalidPayload }

// ParseTodo は JSON ボディを検証して Todo に変換します。
// 形が不正なら *PayloadError、id が含まれていれば ErrIDAlreadyAssigned を返します。
func ParseTodo(body []byte) (*models.Todo, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &PayloadError{Message: "request body is empty"}
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &PayloadError{Message: "malformed JSON: " + err.Error()}
	}

	schema, err := compiledTodoSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, mapSchemaError(err)
	}

	if obj, ok := doc.(map[string]interface{}); ok {
		if _, hasID := obj["id"]; hasID {
			return nil, ErrIDAlreadyAssigned
		}
	}

	var t models.Todo
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, &PayloadError{Message: err.Error()}
	}
	return &t, nil
}

// mapSchemaError は jsonschema.ValidationError の最初の葉を PayloadError に変換します。
func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &PayloadError{Message: err.Error()}
	}

	var result *PayloadError
	collectSchemaErrors(ve, &result)
	if result != nil {
		return result
	}
	return &PayloadError{Message: ve.Message}
}

func collectSchemaErrors(ve *jsonschema.ValidationError, result **PayloadError) {
	if ve == nil || *result != nil {
		return
	}
	if len(ve.Causes) == 0 {
		*result = &PayloadError{
			Path:    pointerToPath(ve.InstanceLocation),
			Message: ve.Message,
		}
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, result)
	}
}

// pointerToPath は "/a/b" 形式の JSON Pointer を "a.b" に変換します。
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}
