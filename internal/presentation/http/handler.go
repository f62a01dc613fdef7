package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/orderapi/internal/application/discount"
	appOrder "github.com/shopfront/orderapi/internal/application/order"
	appPayment "github.com/shopfront/orderapi/internal/application/payment"
	domainCatalog "github.com/shopfront/orderapi/internal/domain/catalog"
	domainOrder "github.com/shopfront/orderapi/internal/domain/order"
	domainPayment "github.com/shopfront/orderapi/internal/domain/payment"
	"github.com/shopfront/orderapi/internal/observability"
	"github.com/shopfront/orderapi/internal/observability/logctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	orderService   *appOrder.Service
	paymentService *appPayment.Service
	log            observability.Logger
	tel            observability.Telemetry
}

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

func NewHandler(orderSvc *appOrder.Service, paymentSvc *appPayment.Service, tel observability.Telemetry) *Handler {
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	return &Handler{
		orderService:   orderSvc,
		paymentService: paymentSvc,
		log:            tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:            tel,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// Wire each route with middlewares:
	// Trace → ObservabilityMiddleware (request logger) → Access log → HTTP metrics → Handler
	h.muxHandle(mux, http.MethodPost, "/orders", h.handleCreateOrder)
	h.muxHandle(mux, http.MethodGet, "/orders/{id}", h.handleGetOrder)
	h.muxHandle(mux, http.MethodGet, "/orders/customer/{email}", h.handleGetOrdersByCustomer)
	h.muxHandle(mux, http.MethodPost, "/orders/{id}/confirm", h.handleConfirmOrder)
	h.muxHandle(mux, http.MethodPost, "/orders/{id}/cancel", h.handleCancelOrder)
	h.muxHandle(mux, http.MethodPost, "/orders/{id}/pay", h.handleProcessPayment)
	h.muxHandle(mux, http.MethodGet, "/orders/{id}/payment/status", h.handlePaymentStatus)
	h.muxHandle(mux, http.MethodPost, "/orders/{id}/payment/refund", h.handleRefundPayment)
	h.muxHandle(mux, http.MethodGet, "/payment-methods", h.handlePaymentMethods)
	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)

	return mux
}

func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	mux.HandleFunc(method+" "+route, func(w http.ResponseWriter, r *http.Request) {
		// Store stable route template for low-cardinality labels
		ctx := contextWithRoute(r.Context(), route)
		r = r.WithContext(ctx)

		wrapped := h.withTrace(
			ObservabilityMiddleware(
				logctx.FromOr(ctx, h.log),
				func(r *http.Request) string {
					return r.Header.Get(headerRequestID)
				},
				h.tel,
			)(
				h.withAccessLog(http.HandlerFunc(handler)),
			),
		)
		wrapped.ServeHTTP(w, r)
	})
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	CustomerEmail   string             `json:"customer_email"`
	Items           []orderItemRequest `json:"items"`
	DiscountPercent *decimal.Decimal   `json:"discount_percent,omitempty"`
}

type orderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	CustomerEmail string              `json:"customer_email"`
	Status        domainOrder.Status  `json:"status"`
	Items         []orderItemResponse `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	PaymentMethod string              `json:"payment_method,omitempty"`
}

func toOrderResponse(o *domainOrder.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return orderResponse{
		ID:            o.ID,
		CreatedAt:     o.CreatedAt,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		Items:         items,
		Total:         o.Total,
		PaidAt:        o.PaidAt,
		PaymentMethod: o.PaymentMethod,
	}
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]appOrder.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appOrder.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	var (
		o   *domainOrder.Order
		err error
	)
	if req.DiscountPercent != nil {
		o, err = h.orderService.CreateOrderWithDiscount(r.Context(), req.CustomerEmail, items, *req.DiscountPercent)
	} else {
		o, err = h.orderService.CreateOrder(r.Context(), req.CustomerEmail, items)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/orders/%d", o.ID))
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrderByID(r.Context(), id)
	if errors.Is(err, domainOrder.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) handleGetOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	orders, err := h.orderService.GetOrdersByCustomer(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	confirmed, err := h.orderService.ConfirmOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !confirmed {
		writeMessage(w, http.StatusBadRequest, "order could not be confirmed")
		return
	}
	writeMessage(w, http.StatusOK, "order confirmed")
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cancelled, err := h.orderService.CancelOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !cancelled {
		writeMessage(w, http.StatusBadRequest, "order could not be cancelled")
		return
	}
	writeMessage(w, http.StatusOK, "order cancelled")
}

type processPaymentRequest struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req processPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	captured, err := h.paymentService.ProcessPayment(r.Context(), id, domainPayment.Method(req.Method), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !captured {
		writeMessage(w, http.StatusBadRequest, "payment rejected")
		return
	}
	writeMessage(w, http.StatusOK, "payment approved")
}

func (h *Handler) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	paid, err := h.paymentService.VerifyPaymentStatus(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paid)
}

func (h *Handler) handleRefundPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	refunded, err := h.paymentService.RefundPayment(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !refunded {
		writeMessage(w, http.StatusBadRequest, "payment could not be refunded")
		return
	}
	writeMessage(w, http.StatusOK, "payment refunded")
}

func (h *Handler) handlePaymentMethods(w http.ResponseWriter, _ *http.Request) {
	methods := h.paymentService.AvailablePaymentMethods()
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes.
// It relies on the request-scoped logger already injected by ObservabilityMiddleware.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("orderapi.http")
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		spanName := r.Method + " " + route
		if route == "unknown" {
			spanName = r.Method + " " + r.URL.Path
		}

		ctxWithSpan, span := tracer.Start(parentCtx,
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainOrder.ErrCustomerRequired),
		errors.Is(err, domainOrder.ErrNoItems),
		errors.Is(err, domainOrder.ErrInvalidQuantity),
		errors.Is(err, domainOrder.ErrNotFound),
		errors.Is(err, domainCatalog.ErrNotFound),
		errors.Is(err, domainCatalog.ErrInsufficientStock),
		errors.Is(err, discount.ErrInvalidTotal),
		errors.Is(err, discount.ErrInvalidPercent),
		errors.Is(err, discount.ErrNegativeDiscount),
		errors.Is(err, domainPayment.ErrMethodRequired),
		errors.Is(err, domainPayment.ErrInvalidAmount),
		errors.Is(err, domainPayment.ErrUnsupportedMethod),
		errors.Is(err, domainPayment.ErrOrderNotConfirmed),
		errors.Is(err, domainPayment.ErrAmountMismatch),
		errors.Is(err, domainPayment.ErrBlockedAmount):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
