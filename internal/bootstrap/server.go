package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/skybook/config"
	"go.uber.org/zap"
)

// Run serves handler on cfg.Address and blocks until ctx is cancelled or the
// server fails. On cancellation in-flight requests get the configured
// shutdown timeout to finish.
func Run(ctx context.Context, cfg config.HTTPConfig, handler http.Handler, log *zap.Logger) error {
	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", cfg.Address, err)
	}
	return Serve(ctx, lis, cfg, handler, log)
}

func Serve(ctx context.Context, lis net.Listener, cfg config.HTTPConfig, handler http.Handler, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", lis.Addr().String()))
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout := time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
