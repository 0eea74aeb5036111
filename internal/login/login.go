// Package login implements the token-capture side of the external
// OAuth flow. The monitoring service owns the actual login: the user
// opens /login/{provider} in a browser, and after authenticating the
// service redirects to a login-success page carrying the API token as
// a query parameter. Here that page is a one-shot local HTTP server
// which hands the token back to the CLI.
package login

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// URL builds the browser entry point for the given provider, with the
// local callback as the redirect target.
func URL(serverURL, provider, callbackAddr string) string {
	redirect := url.QueryEscape("http://" + callbackAddr + "/login-success")
	return fmt.Sprintf("%s/login/%s?redirect=%s",
		strings.TrimRight(serverURL, "/"), provider, redirect)
}

// Wait serves the login-success callback on addr until a token arrives
// or ctx is done, and returns the captured token. The server accepts a
// single token; repeated redirects after the first are ignored.
func Wait(ctx context.Context, addr string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	tokenCh := make(chan string, 1)
	r := callbackRouter(log, tokenCh)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: r}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Warn("callback server stopped", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case token := <-tokenCh:
		return token, nil
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for login redirect: %w", ctx.Err())
	}
}

// callbackRouter serves the login-success page and pushes the first
// captured token into tokenCh.
func callbackRouter(log *zap.Logger, tokenCh chan<- string) http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestLogging(log))
	r.Get("/login-success", func(w http.ResponseWriter, req *http.Request) {
		token := req.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token parameter", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><p>Login successful. You can return to the terminal.</p></body></html>")
		select {
		case tokenCh <- token:
		default:
		}
	})
	return r
}

// withRequestLogging logs each callback request with its method, path
// and duration.
func withRequestLogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("callback request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
