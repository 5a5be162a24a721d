package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"posdash/internal/checkout"
	"posdash/internal/client"
	"posdash/internal/config"
	"posdash/internal/terminalserver"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[terminal] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	backend := client.New(cfg.BackendBaseURL)
	session := checkout.NewSession(backend, backend, backend, logger)

	ctx := context.Background()
	if err := session.Load(ctx); err != nil {
		logger.Fatalf("load catalog from %s: %v", cfg.BackendBaseURL, err)
	}

	srv, err := terminalserver.New(cfg.TerminalAddr, logger, terminalserver.Deps{
		Session: session,
		History: backend,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting terminal server on %s", cfg.TerminalAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
