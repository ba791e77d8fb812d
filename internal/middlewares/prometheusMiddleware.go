package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"linkmark/internal/utils"
)

// statusResponseWriter captures the status code written by the handler.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(data []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

// Instrument records request count, duration and in-flight gauge for every
// route.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		utils.InFlightRequests.Inc()
		defer utils.InFlightRequests.Dec()

		srw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(srw, r)

		if srw.statusCode == 0 {
			srw.statusCode = http.StatusOK
		}
		status := strconv.Itoa(srw.statusCode)

		utils.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		utils.HTTPRequestDurationSeconds.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}
