package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Serve runs the development file server over the output directory until
// ctx is cancelled. Responses carry no-cache headers so edits show up on
// refresh, and directory URLs without an index.html 404 instead of listing.
func (b *Builder) Serve(ctx context.Context) error {
	cfg := b.config()
	outputDir := cfg.Paths.Output

	fileServer := http.FileServer(http.Dir(outputDir))
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fileServer.ServeHTTP(w, r)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// The startup delay is a fixed wait, not a readiness probe.
	if delay := cfg.Server.StartupDelayMs; delay > 0 {
		go func() {
			time.Sleep(time.Duration(delay) * time.Millisecond)
			b.log.Info("dev server ready", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port), "dir", outputDir)
		}()
	} else {
		b.log.Info("dev server ready", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port), "dir", outputDir)
	}

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
