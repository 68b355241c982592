package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwise1/love_map/config"
	deps "github.com/bwise1/love_map/internal/debs"
	api "github.com/bwise1/love_map/internal/http/rest"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	d := deps.New(cfg)
	defer d.Close()

	a := api.New(cfg, d, api.NewPGRepository(d.DB))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := a.EnsureDefaultUser(ctx); err != nil {
		cancel()
		log.Panicln("failed to create default user", "error", err)
	}
	cancel()

	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		if err := a.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")
	if err := a.Shutdown(); err != nil {
		log.Println("server shutdown:", err)
	}
}
