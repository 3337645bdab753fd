// Package middleware holds the HTTP middleware shared by the server routes.
package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Recovery turns a panicking handler into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{}))(next)
}

// panicLogger reports recovered panics through slog. It runs inside the
// deferred recover, so the stack still shows the panicking frames.
type panicLogger struct{}

func (panicLogger) Println(v ...any) {
	slog.Error("panic recovered", "error", fmt.Sprint(v...), "stack", string(debug.Stack()))
}

// Logger logs every request with its status and duration. Websocket
// upgrades pass through.
func Logger(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, logRequest)
}

func logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	slog.Info("request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration", time.Since(p.TimeStamp),
	)
}

// CORS allows the listed origins. Preflight requests are answered with 204.
func CORS(origins []string) mux.MiddlewareFunc {
	return mux.MiddlewareFunc(handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.OptionStatusCode(http.StatusNoContent),
	))
}
