package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLStorage は local_storage テーブルの1行に1キーを保存します。
// REPLACE INTO を使うため MySQL と SQLite の両方で動きます。
type SQLStorage struct {
	DB *sql.DB
}

// NewSQLStorage は新しいSQLStorageインスタンスを作成します。
func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{DB: db}
}

// EnsureSchema は local_storage テーブルがなければ作成します。
func (s *SQLStorage) EnsureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS local_storage (
			storage_key VARCHAR(255) NOT NULL PRIMARY KEY,
			storage_value LONGTEXT NOT NULL
		)`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("could not create local_storage table: %w", err)
	}
	return nil
}

func (s *SQLStorage) Ping() error {
	return s.DB.Ping()
}

func (s *SQLStorage) GetItem(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var value string
	err := s.DB.QueryRow("SELECT storage_value FROM local_storage WHERE storage_key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("could not query storage item: %w", err)
	}
	return value, true, nil
}

func (s *SQLStorage) SetItem(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.DB.Exec("REPLACE INTO local_storage (storage_key, storage_value) VALUES (?, ?)", key, value); err != nil {
		return fmt.Errorf("could not write storage item: %w", err)
	}
	return nil
}

func (s *SQLStorage) RemoveItem(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.DB.Exec("DELETE FROM local_storage WHERE storage_key = ?", key); err != nil {
		return fmt.Errorf("could not delete storage item: %w", err)
	}
	return nil
}
