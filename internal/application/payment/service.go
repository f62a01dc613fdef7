package payment

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domorder "github.com/shopfront/orderapi/internal/domain/order"
	"github.com/shopfront/orderapi/internal/domain/outbox"
	domain "github.com/shopfront/orderapi/internal/domain/payment"
	"github.com/shopfront/orderapi/internal/observability"
	"github.com/shopfront/orderapi/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
)

const (
	paymentService = "payment-service"
	spanPrefix     = "UC."
)

// Config controls the simulated gateway. FailureRate is the probability in
// [0,1] that an otherwise valid capture is declined; the default of zero
// keeps captures deterministic. Latency models gateway round-trip time.
type Config struct {
	FailureRate float64
	Latency     time.Duration
}

// Service settles payments against confirmed orders and records them in the
// payment store. Refunds reverse a settlement and cancel the order.
type Service struct {
	mu     sync.Mutex
	random *rand.Rand
	cfg    Config

	orders   domorder.Repository
	payments domain.Repository

	publisher outbox.Publisher
	tel       observability.Telemetry
	log       observability.Logger
}

func NewService(
	orders domorder.Repository,
	payments domain.Repository,
	publisher outbox.Publisher,
	tel observability.Telemetry,
	cfg Config,
) *Service {
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	if cfg.FailureRate < 0 {
		cfg.FailureRate = 0
	}
	if cfg.FailureRate > 1 {
		cfg.FailureRate = 1
	}
	return &Service{
		random:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg:       cfg,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		tel:       tel,
		log:       tel.Logger().With(observability.F("service", paymentService)),
	}
}

// ProcessPayment captures a payment for a confirmed order. Validation and
// state problems raise; a false return only ever comes from the injected
// gateway failure path.
func (s *Service) ProcessPayment(ctx context.Context, orderID int64, method domain.Method, amount decimal.Decimal) (_ bool, err error) {
	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("use_case", "payment.process"),
		observability.F("order_id", orderID),
		observability.F("method", string(method)),
	)

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"ProcessPayment",
		attribute.Int64("order.id", orderID),
		attribute.String("payment.method", string(method)),
	)
	defer span.End()

	if strings.TrimSpace(string(method)) == "" {
		return false, domain.ErrMethodRequired
	}
	if amount.Sign() <= 0 {
		return false, domain.ErrInvalidAmount
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if o.Status != domorder.StatusConfirmed {
		return false, domain.ErrOrderNotConfirmed
	}
	if !amount.Equal(o.Total) {
		return false, domain.ErrAmountMismatch
	}
	if !domain.IsSupported(method) {
		return false, domain.ErrUnsupportedMethod
	}

	if ok, gerr := s.capture(ctx); gerr != nil {
		return false, gerr
	} else if !ok {
		logger.Info("payment_declined")
		return false, nil
	}

	record := &domain.Record{
		OrderID: orderID,
		Method:  method,
		Amount:  amount,
		PaidAt:  time.Now().UTC(),
		Status:  domain.StatusApproved,
	}
	if err := s.payments.Save(ctx, record); err != nil {
		return false, err
	}

	o.MarkPaid(string(method), record.PaidAt)
	if err := s.orders.Update(ctx, o); err != nil {
		return false, err
	}

	s.publish(ctx, logger, domain.NewPaymentApprovedEvent(record))
	logger.Info("payment_approved", observability.F("amount", amount.String()))
	return true, nil
}

// capture simulates the gateway round trip. The failure injection is only
// active when the configured rate is above zero.
func (s *Service) capture(ctx context.Context) (bool, error) {
	if s.cfg.Latency > 0 {
		select {
		case <-time.After(s.cfg.Latency):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	if s.cfg.FailureRate <= 0 {
		return true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Float64() >= s.cfg.FailureRate, nil
}

// VerifyPaymentStatus reports whether an approved payment exists for the
// order. It never raises for expected conditions.
func (s *Service) VerifyPaymentStatus(ctx context.Context, orderID int64) (bool, error) {
	record, err := s.payments.FindByOrder(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.Status == domain.StatusApproved, nil
}

// RefundPayment reverses an approved payment and cancels the order. A second
// call for the same order reports false; refunds never restock.
func (s *Service) RefundPayment(ctx context.Context, orderID int64) (_ bool, err error) {
	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("use_case", "payment.refund"),
		observability.F("order_id", orderID),
	)

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"RefundPayment",
		attribute.Int64("order.id", orderID),
	)
	defer span.End()

	record, err := s.payments.FindByOrder(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !record.Refund(time.Now().UTC()) {
		return false, nil
	}
	if err := s.payments.Update(ctx, record); err != nil {
		return false, err
	}

	// Refund always cancels the order; unlike CancelOrder it never restocks.
	o, err := s.orders.FindByID(ctx, orderID)
	if err == nil {
		o.Cancel()
		if uerr := s.orders.Update(ctx, o); uerr != nil {
			logger.Error("refund_order_update_failed", observability.F("error", uerr.Error()))
		}
	}

	s.publish(ctx, logger, domain.NewPaymentRefundedEvent(record))
	logger.Info("payment_refunded")
	return true, nil
}

// AvailablePaymentMethods returns the fixed ordered method set.
func (s *Service) AvailablePaymentMethods() []domain.Method {
	return domain.Methods()
}

func (s *Service) publish(ctx context.Context, logger observability.Logger, e outbox.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
	}
}
