package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/thiwankabandara/giftonline-backend/api/responses"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/logger"
)

// Recoverer turns handler panics into JSON 500 responses so one bad request
// cannot take the server down. http.ErrAbortHandler is re-raised untouched,
// net/http uses it as the sentinel for aborting a connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}

				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
						"stack":  string(debug.Stack()),
					})
					logg.Error(ctx, "http.panic_recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "handler panicked"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
