package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DMarby/photo-strip/internal/logger"
)

// Http timeouts, reads are longer than usual to fit photo uploads
const (
	ReadTimeout    = 30 * time.Second
	WriteTimeout   = time.Minute
	HandlerTimeout = 45 * time.Second
)

// WaitForInterrupt waits for an interrupt
func WaitForInterrupt(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		return fmt.Errorf("received signal %s", sig)
	case <-ctx.Done():
		return errors.New("canceled")
	}
}

// ListenAndServe runs server until an interrupt or until it fails, then shuts it down.
// shutdown is called when the server stops on its own.
func ListenAndServe(ctx context.Context, log *logger.Logger, server *http.Server, shutdown context.CancelFunc) {
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", server.Addr)

	// Wait for shutdown or error
	err := WaitForInterrupt(ctx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(context.Background(), WriteTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}
}
