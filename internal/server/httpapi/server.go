package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/proxy201/nexus-auth/internal/logging"
)

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully with a bounded deadline.
func Serve(ctx context.Context, addr string, handler http.Handler, log logging.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", "address", addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(ctx, "shutdown completed")
	return <-errCh
}
