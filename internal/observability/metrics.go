package observability

// Metric names shared between the provider wiring and the instrumented code.
const (
	MUsecaseRequests     = "usecase_requests_total"
	MUsecaseDuration     = "usecase_duration_seconds"
	MHTTPRequests        = "http_requests_total"
	MHTTPRequestDuration = "http_request_duration_seconds"
	MOrderEvents         = "order_events_total"
)
