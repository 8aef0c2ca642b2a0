package ginsink

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", h.Info)
	r.HEAD("/", h.Info)
	r.GET("/ping", h.Ping)

	r.POST("/_bulk", h.Bulk)
	r.PUT("/_bulk", h.Bulk)
	r.POST("/:index/_bulk", h.Bulk)
	r.PUT("/:index/_bulk", h.Bulk)

	r.GET("/:index/_count", h.Count)

	return r
}
