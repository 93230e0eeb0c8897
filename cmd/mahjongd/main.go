// Command mahjongd is the process entrypoint: load config, init logging,
// start the admin/metrics surface, then run the Client Gateway's websocket
// listener until the process is signaled to stop. Grounded on hall/main.go
// and gate/main.go's cobra.Command + config.InitConfig + log.InitLog +
// metrics-goroutine + app.Run(ctx) sequence.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"mahjongd/internal/admin"
	"mahjongd/internal/config"
	"mahjongd/internal/engine"
	"mahjongd/internal/gateway"
	"mahjongd/internal/logging"
	"mahjongd/internal/roomstore"
)

var rootCmd = &cobra.Command{
	Use:   "mahjongd",
	Short: "mahjongd runs the real-time mahjong room server",
	Long:  "mahjongd runs the real-time mahjong room server: the Client Gateway's websocket listener and the admin/metrics HTTP surface.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("mahjongd: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init("mahjongd", cfg.LogLevel)
	logging.Info("mahjongd: starting with config=%+v", cfg)

	store := roomstore.New(cfg.RoomIDLength)
	gw := gateway.New(cfg)
	manager := engine.NewManager(store, cfg, gw)
	gw.SetManager(manager)

	startedAt := time.Now()
	adminEngine := gin.New()
	adminEngine.Use(gin.Recovery())
	admin.RegisterRoutes(adminEngine, store, startedAt)

	adminServer := &http.Server{Addr: cfg.AdminAddr, Handler: adminEngine}
	go func() {
		logging.Info("mahjongd: admin surface listening on %s (statsviz at /debug/statsviz/)", cfg.AdminAddr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("mahjongd: admin server: %v", err)
		}
	}()

	wsMux := http.NewServeMux()
	wsMux.Handle("/ws", gw)
	wsServer := &http.Server{Addr: cfg.WsAddr, Handler: wsMux}
	go func() {
		logging.Info("mahjongd: gateway listening on %s/ws", cfg.WsAddr)
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("mahjongd: gateway server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logging.Info("mahjongd: shutting down")
	manager.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = wsServer.Shutdown(shutdownCtx)
	_ = adminServer.Shutdown(shutdownCtx)
	return nil
}
