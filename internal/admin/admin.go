// Package admin serves the operator-facing HTTP surface: liveness/health
// checks, room-store stats, and live runtime graphs. Grounded on
// gate/api/routes.go's RegisterRoutes/route-group shape and the
// statsviz-backed debug server every teacher main.go starts in a goroutine
// at boot (common/metrics.Serve is referenced there but its source is
// absent from the pack — see DESIGN.md — so this registers statsviz
// directly instead of through that missing wrapper).
package admin

import (
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/gin-gonic/gin"

	"mahjongd/internal/roomstore"
	"mahjongd/internal/sysmetrics"
)

// RegisterRoutes wires /ping, /health, /rooms and /debug/statsviz/* onto r.
func RegisterRoutes(r *gin.Engine, store *roomstore.Store, startedAt time.Time) {
	r.GET("/ping", pingHandler)
	r.GET("/health", healthHandler(startedAt))
	r.GET("/rooms", roomsHandler(store))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		panic(err)
	}
	r.Any("/debug/statsviz/*path", gin.WrapH(mux))
}

func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "mahjongd",
	})
}

func healthHandler(startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		sample := sysmetrics.Read()
		c.JSON(http.StatusOK, gin.H{
			"healthy":   true,
			"uptimeSec": time.Since(startedAt).Seconds(),
			"sys":       sample,
		})
	}
}

func roomsHandler(store *roomstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomCount, playerCount := store.Stats()
		c.JSON(http.StatusOK, gin.H{
			"roomCount":   roomCount,
			"playerCount": playerCount,
		})
	}
}
