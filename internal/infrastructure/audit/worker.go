package audit

import (
	"context"

	domorder "github.com/shopfront/orderapi/internal/domain/order"
	domoutbox "github.com/shopfront/orderapi/internal/domain/outbox"
	dompayment "github.com/shopfront/orderapi/internal/domain/payment"
	"github.com/shopfront/orderapi/internal/observability"
	"github.com/shopfront/orderapi/internal/observability/logctx"
)

// Worker subscribes to every order and payment event and writes an audit
// trail: one structured log line plus an event counter per occurrence.
type Worker struct {
	subscriber domoutbox.Subscriber
	log        observability.Logger
	events     observability.Counter
}

func New(subscriber domoutbox.Subscriber, tel observability.Telemetry) *Worker {
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	return &Worker{
		subscriber: subscriber,
		log:        tel.Logger().With(observability.F("component", "audit_worker")),
		events:     tel.Counter(observability.MOrderEvents),
	}
}

func (w *Worker) Start() {
	for _, name := range []string{
		domorder.OrderCreatedEvent{}.EventName(),
		domorder.OrderConfirmedEvent{}.EventName(),
		domorder.OrderCancelledEvent{}.EventName(),
		dompayment.PaymentApprovedEvent{}.EventName(),
		dompayment.PaymentRefundedEvent{}.EventName(),
	} {
		w.subscriber.Subscribe(name, w.handle)
	}
}

func (w *Worker) handle(ctx context.Context, e domoutbox.Event) error {
	logger := logctx.FromOr(ctx, w.log)

	w.events.Add(1, observability.L("event", e.EventName()))

	switch evt := e.(type) {
	case domorder.OrderCreatedEvent:
		logger.Info("audit_order_created",
			observability.F("order_id", evt.OrderID),
			observability.F("customer", evt.CustomerEmail),
			observability.F("total", evt.Total.String()),
		)
	case domorder.OrderConfirmedEvent:
		logger.Info("audit_order_confirmed", observability.F("order_id", evt.OrderID))
	case domorder.OrderCancelledEvent:
		logger.Info("audit_order_cancelled",
			observability.F("order_id", evt.OrderID),
			observability.F("restocked", evt.Restocked),
		)
	case dompayment.PaymentApprovedEvent:
		logger.Info("audit_payment_approved",
			observability.F("order_id", evt.OrderID),
			observability.F("method", string(evt.Method)),
			observability.F("amount", evt.Amount.String()),
		)
	case dompayment.PaymentRefundedEvent:
		logger.Info("audit_payment_refunded",
			observability.F("order_id", evt.OrderID),
			observability.F("amount", evt.Amount.String()),
		)
	}
	return nil
}
