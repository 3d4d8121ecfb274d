package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"betnotes/internal/auth"
	"betnotes/internal/taxonomy"
)

type Server struct {
	Cache    *taxonomy.Cache
	Engine   *taxonomy.Engine
	Store    *taxonomy.Store
	Sessions auth.TokenAuthorizer
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	api.GET("/taxonomy/status", s.taxonomyStatus)
	api.GET("/types", s.listTypes)
	api.GET("/types/:id", s.getType)

	admin := api.Group("/admin", auth.RequireAdmin(s.Sessions))
	admin.POST("/taxonomy/sync", s.syncTaxonomy)
}
