// Package config はサーバーとCLIの設定を読み込みます。
// 優先順位: デフォルト値 < TOMLファイル < .env < 環境変数
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ストレージドライバー
const (
	DriverMemory  = "memory"
	DriverFile    = "file"
	DriverMySQL   = "mysql"
	DriverSQLite3 = "sqlite3"
)

// DBConfig は MySQL の接続情報です。
type DBConfig struct {
	User string `toml:"user"`
	Pass string `toml:"pass"`
	Host string `toml:"host"`
	Port string `toml:"port"`
	Name string `toml:"name"`
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Port string `toml:"port"`

	StorageDriver string   `toml:"storage_driver"`
	StorageDir    string   `toml:"storage_dir"`
	StorageKey    string   `toml:"storage_key"`
	SQLitePath    string   `toml:"sqlite_path"`
	DB            DBConfig `toml:"db"`

	TodoPath  string `toml:"todo_path"`
	PathMatch string `toml:"path_match"`

	AllowOrigins []string `toml:"allow_origins"`
	JWTSecret    string   `toml:"jwt_secret"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Default はデフォルト設定を返します。
func Default() *Config {
	return &Config{
		Port:          "8080",
		StorageDriver: DriverFile,
		StorageDir:    "./data",
		StorageKey:    "luy_todo_list",
		SQLitePath:    "./data/todolist.db",
		DB:            DBConfig{Host: "127.0.0.1", Port: "3306"},
		TodoPath:      "/todo",
		PathMatch:     "exact",
		AllowOrigins:  []string{"http://localhost:4200"},
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load は設定を読み込みます。path が空、またはファイルが存在しない場合は TOML を読みません。
// envFiles を省略するとカレントディレクトリの .env を読みます (なくてもエラーになりません)。
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv.Load は既に設定された環境変数を上書きしません
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", f, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.StorageDriver, "STORAGE_DRIVER")
	setString(&cfg.StorageDir, "STORAGE_DIR")
	setString(&cfg.StorageKey, "STORAGE_KEY")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Pass, "DB_PASS")
	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.Port, "DB_PORT")
	setString(&cfg.DB.Name, "DB_NAME")
	setString(&cfg.TodoPath, "TODO_PATH")
	setString(&cfg.PathMatch, "PATH_MATCH")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.AllowOrigins = splitList(v)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate は設定値の組み合わせを確認します。
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if c.StorageDir == "" {
			return errors.New("storage_dir is required for the file driver")
		}
	case DriverSQLite3:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite3 driver")
		}
	case DriverMySQL:
		if c.DB.Host == "" || c.DB.Name == "" {
			return errors.New("db host and name are required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	switch c.PathMatch {
	case "exact", "prefix", "contains":
	default:
		return fmt.Errorf("unknown path match mode %q", c.PathMatch)
	}

	if c.StorageKey == "" {
		return errors.New("storage_key must not be empty")
	}
	if !strings.HasPrefix(c.TodoPath, "/") {
		return fmt.Errorf("todo_path must start with '/': %q", c.TodoPath)
	}
	return nil
}

// DSN は MySQL の接続文字列 (DSN) を返します。
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.DB.User, c.DB.Pass, c.DB.Host, c.DB.Port, c.DB.Name)
}
