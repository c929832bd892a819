// Package server exposes the valuation engine over HTTP: an HTML index of
// the loaded bond definitions and a JSON analytics endpoint. Chart rendering
// is left to the client; the API returns ordered point sequences.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"benritz/bondcalc/internal/types"
)

// NewRouter wires the HTTP routes. bonds may be empty; cache may be nil.
func NewRouter(bonds map[string]types.BondTerms, cache *ResponseCache) *gin.Engine {
	r := gin.Default()

	h := NewAnalyzeHandler(bonds, cache)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", h.Index)
	r.POST("/api/analyze", h.Analyze)

	return r
}
