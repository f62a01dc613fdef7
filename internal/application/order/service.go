package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/orderapi/internal/domain/catalog"
	domain "github.com/shopfront/orderapi/internal/domain/order"
	"github.com/shopfront/orderapi/internal/domain/outbox"
	"github.com/shopfront/orderapi/internal/observability"
	"github.com/shopfront/orderapi/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
)

const (
	orderService = "order-service"
	spanPrefix   = "UC."
)

// Service drives the order lifecycle: creation against the catalog,
// confirmation (which takes stock), cancellation (which may return it),
// and read-side lookups.
type Service struct {
	orders    domain.Repository
	products  catalog.Repository
	discounts DiscountCalculator
	publisher outbox.Publisher
	tel       observability.Telemetry

	log        observability.Logger
	reqCounter observability.Counter
	durHist    observability.Histogram
}

func NewService(
	orders domain.Repository,
	products catalog.Repository,
	discounts DiscountCalculator,
	publisher outbox.Publisher,
	tel observability.Telemetry,
) *Service {
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	return &Service{
		orders:     orders,
		products:   products,
		discounts:  discounts,
		publisher:  publisher,
		tel:        tel,
		log:        tel.Logger().With(observability.F("service", orderService)),
		reqCounter: tel.Counter(observability.MUsecaseRequests),
		durHist:    tel.Histogram(observability.MUsecaseDuration),
	}
}

// CreateOrder validates the request, snapshots unit prices from the catalog,
// and persists a pending order. Stock is only checked here, not reserved;
// the decrement happens at confirmation.
func (s *Service) CreateOrder(ctx context.Context, customerEmail string, items []ItemInput) (*domain.Order, error) {
	return s.create(ctx, "order.create", customerEmail, items, nil)
}

// CreateOrderWithDiscount is CreateOrder with the progressive discount
// applied to the raw total before the order is persisted.
func (s *Service) CreateOrderWithDiscount(ctx context.Context, customerEmail string, items []ItemInput, discountPercent decimal.Decimal) (*domain.Order, error) {
	return s.create(ctx, "order.create_with_discount", customerEmail, items, &discountPercent)
}

func (s *Service) create(ctx context.Context, useCase, customerEmail string, items []ItemInput, discountPercent *decimal.Decimal) (_ *domain.Order, err error) {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCase))

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"CreateOrder",
		attribute.String("use_case", useCase),
		attribute.Int("order.item_count", len(items)),
	)
	start := time.Now()
	outcome := "success"
	defer func() {
		span.End()
		s.observe(useCase, outcome, start)
		if err != nil {
			logger.Info("use_case_done", observability.F("outcome", outcome), observability.F("error", err.Error()))
		} else {
			logger.Info("use_case_done", observability.F("outcome", outcome))
		}
	}()

	if strings.TrimSpace(customerEmail) == "" {
		outcome = "error"
		return nil, domain.ErrCustomerRequired
	}
	if len(items) == 0 {
		outcome = "error"
		return nil, domain.ErrNoItems
	}

	lines, err := s.buildLines(ctx, items)
	if err != nil {
		outcome = "error"
		return nil, err
	}

	total := domain.SumSubtotals(lines)
	if discountPercent != nil {
		// The raw total is the first argument; the percent is the second.
		// The progressive formula subtracts, so swapping them corrupts the result.
		amount, derr := s.discounts.CalculateProgressiveDiscount(total, *discountPercent)
		if derr != nil {
			outcome = "error"
			return nil, derr
		}
		total, derr = s.discounts.ApplyDiscount(total, amount)
		if derr != nil {
			outcome = "error"
			return nil, derr
		}
	}

	entity, err := domain.New(customerEmail, lines, total)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	if err := s.orders.Add(ctx, entity); err != nil {
		outcome = "error"
		return nil, fmt.Errorf("order: save: %w", err)
	}

	s.publish(ctx, logger, domain.NewOrderCreatedEvent(entity))
	span.SetAttributes(attribute.Int64("order.id", entity.ID))
	return entity, nil
}

func (s *Service) buildLines(ctx context.Context, items []ItemInput) ([]domain.LineItem, error) {
	lines := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d", catalog.ErrNotFound, item.ProductID)
			}
			return nil, err
		}
		ok, err := s.products.HasStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: product %q", catalog.ErrInsufficientStock, product.Name)
		}
		lines = append(lines, domain.LineItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}
	return lines, nil
}

// GetOrderByID looks up a single order. Absence surfaces as domain.ErrNotFound.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// GetOrdersByCustomer returns all orders for a customer email, matched
// case-insensitively. The result may be empty.
func (s *Service) GetOrdersByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	return s.orders.FindByCustomer(ctx, customerEmail)
}

// ConfirmOrder takes stock for every line item and moves the order to
// confirmed. A failed reduction aborts the confirmation but does not roll
// back reductions already applied in the same loop; the order stays pending.
// That partial-reduction behavior is intentional, see DESIGN.md.
func (s *Service) ConfirmOrder(ctx context.Context, id int64) (_ bool, err error) {
	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("use_case", "order.confirm"),
		observability.F("order_id", id),
	)

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"ConfirmOrder",
		attribute.Int64("order.id", id),
	)
	start := time.Now()
	outcome := "success"
	defer func() {
		span.End()
		s.observe("order.confirm", outcome, start)
	}()

	o, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		outcome = "rejected"
		return false, nil
	}
	if err != nil {
		outcome = "error"
		return false, err
	}
	if o.Status != domain.StatusPending {
		outcome = "rejected"
		logger.Info("order_confirm_rejected", observability.F("status", string(o.Status)))
		return false, nil
	}

	for _, item := range o.Items {
		ok, rerr := s.products.ReduceStock(ctx, item.ProductID, item.Quantity)
		if rerr != nil {
			outcome = "error"
			return false, rerr
		}
		if !ok {
			outcome = "rejected"
			logger.Warn("order_confirm_stock_short",
				observability.F("product_id", item.ProductID),
				observability.F("quantity", item.Quantity),
			)
			return false, nil
		}
	}

	o.Confirm()
	if err := s.orders.Update(ctx, o); err != nil {
		outcome = "error"
		return false, err
	}

	s.publish(ctx, logger, domain.NewOrderConfirmedEvent(o))
	logger.Info("order_confirmed")
	return true, nil
}

// CancelOrder cancels any non-cancelled order. Whether stock must be
// returned is decided by the status the order held before cancellation.
func (s *Service) CancelOrder(ctx context.Context, id int64) (_ bool, err error) {
	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("use_case", "order.cancel"),
		observability.F("order_id", id),
	)

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"CancelOrder",
		attribute.Int64("order.id", id),
	)
	start := time.Now()
	outcome := "success"
	defer func() {
		span.End()
		s.observe("order.cancel", outcome, start)
	}()

	o, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		outcome = "rejected"
		return false, nil
	}
	if err != nil {
		outcome = "error"
		return false, err
	}

	restock := o.NeedsRestock()
	if !o.Cancel() {
		outcome = "rejected"
		return false, nil
	}
	if err := s.orders.Update(ctx, o); err != nil {
		outcome = "error"
		return false, err
	}

	if restock {
		for _, item := range o.Items {
			if _, aerr := s.products.AddStock(ctx, item.ProductID, item.Quantity); aerr != nil {
				logger.Error("order_cancel_restock_failed",
					observability.F("product_id", item.ProductID),
					observability.F("error", aerr.Error()),
				)
			}
		}
	}

	s.publish(ctx, logger, domain.NewOrderCancelledEvent(o, restock))
	logger.Info("order_cancelled", observability.F("restocked", restock))
	return true, nil
}

// CalculateTotal sums the line item subtotals. No validation, no side effects.
func (s *Service) CalculateTotal(items []domain.LineItem) decimal.Decimal {
	return domain.SumSubtotals(items)
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

func (s *Service) observe(useCase, outcome string, start time.Time) {
	s.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
	s.durHist.Observe(time.Since(start).Seconds(),
		observability.L("use_case", useCase),
	)
}
