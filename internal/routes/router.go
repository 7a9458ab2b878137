// Package routesはroutingを行います。
package routes

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"luy-todo/backend/internal/handlers"
	"luy-todo/backend/internal/mockserver"
	"luy-todo/backend/internal/services"
	"luy-todo/backend/internal/storage"
)

// Options はルーターの設定です。
type Options struct {
	AllowOrigins []string
	// JWTService が nil でなければ、ディスパッチされる全てのリクエストに Bearer トークンを要求します。
	JWTService *services.JWTService
	Logger     *log.Logger
}

// SetupRouter はGinルーターをセットアップします。
// /api/hello と /api/storagecheck 以外の全てのリクエストはディスパッチャーが処理します。
func SetupRouter(dispatcher *mockserver.Dispatcher, st storage.Storage, storageKey string, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = opts.AllowOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{handlers.StatusTextHeader, RequestIDHeader}
	r.Use(cors.New(config))

	r.GET("/api/hello", HelloHandler)
	r.GET("/api/storagecheck", func(c *gin.Context) { StorageCheckHandler(c, st, storageKey) })

	todoHandler := handlers.NewTodoHandler(dispatcher)
	chain := []gin.HandlerFunc{}
	if opts.JWTService != nil {
		chain = append(chain, AuthMiddleware(opts.JWTService))
	}
	chain = append(chain, todoHandler.DispatchHandler)
	r.NoRoute(chain...)

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}

// StorageCheckHandler はストレージの健全性を確認します。
func StorageCheckHandler(c *gin.Context, st storage.Storage, storageKey string) {
	if p, ok := st.(storage.Pinger); ok {
		if err := p.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Storage connection failed", "error": err.Error()})
			return
		}
	}
	_, exists, err := st.GetItem(storageKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Storage read failed", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Storage is healthy", "initialized": exists})
}
