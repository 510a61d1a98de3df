package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/presets", h.presetsHandler)
		api.GET("/qr", h.qrHandler)
		api.GET("/fetch-image", h.fetchImageHandler)

		jobs := api.Group("", bodyLimit(h.opts.BodyLimit))
		jobs.POST("/composite", h.compositeHandler)
		jobs.POST("/print-file", h.printFileHandler)
		jobs.POST("/generate-product", h.generateProductHandler)
		jobs.POST("/overlay", h.overlayHandler)
	}
}

// bodyLimit caps request bodies at n bytes. n <= 0 disables the cap.
func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
