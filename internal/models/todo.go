// Package modelsはTodoを定義します。
package models

import (
	"time"
)

// Todo は保存される ToDo レコードです。
// ID はストアが採番するまでゼロ値 (JSONでは省略) になります。
type Todo struct {
	ID          int       `json:"id,omitempty"` // 主キー (作成時に採番)
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AddedOn     time.Time `json:"addedOn"` // 呼び出し側が設定する作成日時
}

// ErrorBody はエラーレスポンスのボディです。
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type TokenClaims struct {
	Subject   string    `json:"sub"`
	ExpiresAt time.Time `json:"exp"`
}
