package handler

import (
	"net/http"

	"go-gin-airport/config"
	_ "go-gin-airport/docs"
	"go-gin-airport/internal/middleware"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouteRegistrar is implemented by every collection handler.
type RouteRegistrar interface {
	RegisterRoutes(r *gin.Engine)
}

// NewRouter builds the engine with identity, request logging, docs and
// the given collections mounted under /api/v1.
func NewRouter(cfg *config.AuthConfig, handlers ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Authenticate(cfg.JWTSecret, cfg.Issuer),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return router
}
