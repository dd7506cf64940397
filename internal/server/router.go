package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"oneguard/internal/auth"
	"oneguard/internal/config"
	"oneguard/internal/handlers"
	"oneguard/internal/middleware"
	"oneguard/internal/store"
)

func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	tokens := auth.NewManager(cfg.JWTSecret)

	users := store.NewUserStore(db)
	clients := store.NewClientStore(db)
	objects := store.NewObjectStore(db)

	r := gin.Default()
	Routes(r, tokens, users, clients, objects, cfg.StaticDir)
	return r
}

// Routes собирает маршруты поверх готовых хранилищ.
// Вынесено отдельно, чтобы тесты могли подставить свои хранилища.
func Routes(
	r *gin.Engine,
	tokens *auth.Manager,
	users store.UserStore,
	clients store.ClientStore,
	objects store.ObjectStore,
	staticDir string,
) {
	authHandler := handlers.NewAuthHandler(users, tokens)
	userHandler := handlers.NewUserHandler(users)
	clientHandler := handlers.NewClientHandler(clients, objects)
	objectHandler := handlers.NewObjectHandler(objects)
	reportHandler := handlers.NewReportHandler(clients, objects)

	api := r.Group("/api")

	// AUTH (без токена)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/register", authHandler.Register)

	authed := api.Group("/")
	authed.Use(middleware.RequireAuth(tokens, users))

	// ПОЛЬЗОВАТЕЛИ
	authed.GET("/users", userHandler.List)
	authed.POST("/users", userHandler.Create)
	authed.GET("/users/me", userHandler.Me)
	authed.GET("/users/statistics", userHandler.Statistics)
	authed.GET("/users/:id", userHandler.Detail)
	authed.PUT("/users/:id", userHandler.Update)
	authed.PATCH("/users/:id", userHandler.Update)

	// СПРАВОЧНИКИ
	authed.GET("/cities", objectHandler.Cities)
	authed.GET("/cities/:id/objects", objectHandler.ObjectsByCity)
	authed.GET("/objects", objectHandler.Objects)
	authed.GET("/objects/:id", objectHandler.ObjectDetail)

	// ЗАПИСИ КЛИЕНТОВ
	authed.GET("/clients", clientHandler.List)
	authed.POST("/clients", clientHandler.Create)
	authed.GET("/clients/:id", clientHandler.Detail)
	authed.PUT("/clients/:id", clientHandler.Update)
	authed.PATCH("/clients/:id", clientHandler.Update)
	authed.DELETE("/clients/:id", clientHandler.Delete)
	authed.GET("/clients/:id/history", clientHandler.History)

	// ОТЧЁТЫ — только админ, проверка внутри обработчика
	authed.GET("/reports", reportHandler.Reports)

	// СИНХРОНИЗАЦИЯ ОФЛАЙН-ДАННЫХ
	authed.POST("/sync/offline", clientHandler.SyncOffline)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Фронтенд: статика + SPA-fallback на все прочие пути.
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			r.Static("/static", staticDir)
			index := filepath.Join(staticDir, "index.html")
			r.NoRoute(func(c *gin.Context) {
				c.File(index)
			})
		}
	}
}
