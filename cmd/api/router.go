package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"weblibrary/internal/shared/middleware"
	"weblibrary/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))
		c.BookHandler.RegisterRoutes(api)
	}

	setupStaticRoutes(router, c.Config.App.StaticRoot)

	return router
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, ok := c.Health(ctx.Request.Context())
		status["service"] = c.Config.App.Name
		status["version"] = c.Config.App.Version

		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		ctx.JSON(code, status)
	}
}

// ========================================
// STATIC FRONTEND
// ========================================

// setupStaticRoutes serves files under root at "/" with index.html as the default.
// Unknown /api paths stay 404 instead of falling back to the page.
func setupStaticRoutes(router *gin.Engine, root string) {
	if root == "" {
		return
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return
	}

	files := http.Dir(root)
	index := filepath.Join(root, "index.html")

	router.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || (ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead) {
			ctx.Status(http.StatusNotFound)
			return
		}

		if path != "/" {
			if f, err := files.Open(path); err == nil {
				info, statErr := f.Stat()
				f.Close()
				if statErr == nil && !info.IsDir() {
					ctx.FileFromFS(path, files)
					return
				}
			}
		}
		ctx.File(index)
	})
}
