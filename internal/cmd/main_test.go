package cmd_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/DMarby/photo-strip/internal/cmd"
	"github.com/DMarby/photo-strip/internal/logger"
	"go.uber.org/zap"
)

func TestWaitForInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cmd.WaitForInterrupt(ctx)
	if err == nil || err.Error() != "canceled" {
		t.Errorf("wrong error %v", err)
	}
}

func TestListenAndServe(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	// Occupy a port so the server fails to listen and shuts itself down
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	ctx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	server := &http.Server{Addr: l.Addr().String(), Handler: http.NotFoundHandler()}

	done := make(chan struct{})
	go func() {
		cmd.ListenAndServe(ctx, log, server, shutdown)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
