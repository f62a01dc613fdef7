package httppresentation

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/orderapi/internal/observability"
	"github.com/shopfront/orderapi/internal/observability/logctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityMiddleware combines:
// - W3C Trace Context extraction
// - request-scoped logger injection (dynamic fields only)
// - X-Request-ID generation + echo
// - HTTP metrics (counter + histogram) with low-cardinality labels
func ObservabilityMiddleware(
	base observability.Logger,
	requestID func(*http.Request) string,
	tel observability.Telemetry,
) func(http.Handler) http.Handler {
	if base == nil {
		base = tel.Logger()
	}
	prop := otel.GetTextMapPropagator() // W3C by default

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// --- Extract W3C trace context
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			sc := trace.SpanContextFromContext(ctx)

			// --- Request ID
			rid := ""
			if requestID != nil {
				rid = requestID(r)
			}
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			// --- Build request-scoped logger (dynamic fields only)
			fields := []observability.Field{observability.F("request_id", rid)}
			if sc.IsValid() {
				fields = append(fields,
					observability.F("trace_id", sc.TraceID().String()),
					observability.F("span_id", sc.SpanID().String()),
				)
			}
			ctx = logctx.With(ctx, base.With(fields...))

			// --- Metrics wrap to capture final status + duration
			start := time.Now()
			lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lrw, r.WithContext(ctx))

			route := routeFromContext(ctx)
			statusLabel := strconv.Itoa(lrw.status)

			if tel != nil {
				tel.Counter(observability.MHTTPRequests).Add(1,
					observability.L("method", r.Method),
					observability.L("route", route),
					observability.L("status", statusLabel),
				)
				tel.Histogram(observability.MHTTPRequestDuration).Observe(time.Since(start).Seconds(),
					observability.L("method", r.Method),
					observability.L("route", route),
					observability.L("status", statusLabel),
				)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
