package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luy-todo/backend/internal/config"
)

// clearEnv は設定に使う環境変数を空にします。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORAGE_DRIVER", "STORAGE_DIR", "STORAGE_KEY", "SQLITE_PATH",
		"DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME",
		"TODO_PATH", "PATH_MATCH", "JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverFile, cfg.StorageDriver)
	assert.Equal(t, "luy_todo_list", cfg.StorageKey)
	assert.Equal(t, "/todo", cfg.TodoPath)
	assert.Equal(t, "exact", cfg.PathMatch)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "todo.toml", `
port = "9090"
storage_driver = "mysql"
path_match = "prefix"
allow_origins = ["http://a.example", "http://b.example"]

[db]
user = "todo"
pass = "secret"
host = "db"
port = "3307"
name = "todos"
`)

	cfg, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.DriverMySQL, cfg.StorageDriver)
	assert.Equal(t, "prefix", cfg.PathMatch)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
	assert.Equal(t, "todo:secret@tcp(db:3307)/todos?parseTime=true", cfg.DSN())
}

func TestLoad_MissingTOMLFileIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "todo.toml", `port = "9090"`)
	t.Setenv("PORT", "7070")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CORS_ORIGINS", "http://x.example, http://y.example")

	cfg, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, config.DriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"http://x.example", "http://y.example"}, cfg.AllowOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv は空文字で設定済みの変数も上書きしないため、対象の変数は未設定にしておく
	require.NoError(t, os.Unsetenv("STORAGE_KEY"))
	t.Cleanup(func() { os.Unsetenv("STORAGE_KEY") })
	envFile := writeFile(t, ".env", "STORAGE_KEY=test_todo_list\n")

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "test_todo_list", cfg.StorageKey)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "unknown driver", mutate: func(c *config.Config) { c.StorageDriver = "redis" }},
		{name: "unknown match mode", mutate: func(c *config.Config) { c.PathMatch = "regex" }},
		{name: "empty key", mutate: func(c *config.Config) { c.StorageKey = "" }},
		{name: "relative todo path", mutate: func(c *config.Config) { c.TodoPath = "todo" }},
		{name: "file driver without dir", mutate: func(c *config.Config) { c.StorageDir = "" }},
		{name: "mysql without name", mutate: func(c *config.Config) { c.StorageDriver = config.DriverMySQL }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, config.Default().Validate())
}
