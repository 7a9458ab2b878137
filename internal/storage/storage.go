// Package storage はキーと値を保存する永続ストレージを提供します。
// ブラウザの localStorage と同じ形 (GetItem / SetItem / RemoveItem) を持ちます。
package storage

import "errors"

// Storage は文字列キーで値を読み書きするストレージです。
type Storage interface {
	// GetItem はキーの値を返します。キーが存在しない場合 ok は false です。
	GetItem(key string) (value string, ok bool, err error)
	// SetItem はキーの値を丸ごと置き換えます。
	SetItem(key, value string) error
	// RemoveItem はキーを削除します。存在しないキーはエラーになりません。
	RemoveItem(key string) error
}

// Pinger は接続確認ができるストレージが実装します。
type Pinger interface {
	Ping() error
}

var ErrEmptyKey = errors.New("storage key must not be empty")
