package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Daskott/rolodex/colors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ResponseWriterWithStatus struct {
	http.ResponseWriter
	Status int
}

func (r *ResponseWriterWithStatus) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logg *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			responseWriter := &ResponseWriterWithStatus{
				ResponseWriter: w,
				Status:         200,
			}

			defer func() {
				responseStatus := colors.Green(responseWriter.Status)
				if responseWriter.Status >= 400 {
					responseStatus = colors.Red(responseWriter.Status)
				}

				logg.Info(
					r.Method, " ",
					r.RequestURI, " ",
					responseStatus, " ",
					colors.Yellow(fmt.Sprintf("[%v]", time.Since(start))))
			}()

			next.ServeHTTP(responseWriter, r)
		})
	}
}

func jsonContentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// validIDMiddleware rejects requests whose {id} or {uid} path variable is not a uuid.
func (h *handlers) validIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		for _, key := range []string{"id", "uid"} {
			value, ok := vars[key]
			if !ok {
				continue
			}

			if err := h.validate.Var(value, "uuid4"); err != nil {
				h.writeErrors(w, http.StatusBadRequest, fmt.Sprintf("invalid %v in path", key))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
