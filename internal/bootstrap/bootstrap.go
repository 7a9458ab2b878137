// Package bootstrap は設定からストレージ、リポジトリ、サービス、ディスパッチャーを組み立てます。
package bootstrap

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"luy-todo/backend/internal/config"
	"luy-todo/backend/internal/database"
	"luy-todo/backend/internal/mockserver"
	"luy-todo/backend/internal/repositories"
	"luy-todo/backend/internal/services"
	"luy-todo/backend/internal/storage"
)

// App は組み立て済みの依存関係です。
type App struct {
	Config      *config.Config
	Logger      *log.Logger
	Storage     storage.Storage
	TodoRepo    *repositories.TodoRepository
	TodoService *services.TodoService
	Dispatcher  *mockserver.Dispatcher

	db *sql.DB
}

// New は設定に従って App を作成します。ストレージの初期化 (シード投入) は行いません。
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}

	st, db, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	matcher, err := mockserver.NewMatcher(cfg.PathMatch, cfg.TodoPath)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	repo := repositories.NewTodoRepository(st, cfg.StorageKey)
	svc := services.NewTodoService(repo)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Storage:     st,
		TodoRepo:    repo,
		TodoService: svc,
		Dispatcher:  mockserver.NewTodoDispatcher(svc, matcher, logger),
		db:          db,
	}, nil
}

// OpenStorage は設定されたドライバーのストレージを開きます。SQL 系の場合は *sql.DB も返します。
func OpenStorage(cfg *config.Config) (storage.Storage, *sql.DB, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryStorage(), nil, nil
	case config.DriverFile:
		fs, err := storage.NewFileStorage(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	case config.DriverMySQL, config.DriverSQLite3:
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		st := storage.NewSQLStorage(db)
		if err := st.EnsureSchema(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return st, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close はデータベース接続があれば閉じます。
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
