package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"betnotes/internal/taxonomy"
)

// syncTaxonomy runs a full resync and cache reload before responding. The
// caller waits for the outcome; retrying after a failure is their call.
func (s *Server) syncTaxonomy(c *gin.Context) {
	summary, err := s.Engine.Sync(c.Request.Context())
	if err != nil {
		if errors.Is(err, taxonomy.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.Cache.Load(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": summary})
}
