// Package checkout places orders: every requested line is reserved against
// the inventory ledger and the order is written in the same transaction, so
// a checkout either fully succeeds or changes nothing.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrDuplicateSubmission is returned when an idempotency key is replayed
var ErrDuplicateSubmission = shared.NewDomainError("ALREADY_EXISTS", "An order with this idempotency key was already submitted")

// Service is the checkout use case
type Service struct {
	txScope     appshared.TransactionScope
	orderRepo   order.OrderRepository
	events      shared.EventPublisher
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	metrics     *telemetry.StorefrontMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithIdempotency enables Idempotency-Key handling. Keys are held for ttl,
// or DefaultIdempotencyTTL when ttl is not positive.
func WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) Option {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	return func(s *Service) {
		s.idempotency = store
		s.idemTTL = ttl
	}
}

// WithMetrics records checkout metrics
func WithMetrics(m *telemetry.StorefrontMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a checkout service
func NewService(
	txScope appshared.TransactionScope,
	orderRepo order.OrderRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		txScope:   txScope,
		orderRepo: orderRepo,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder reserves stock for every line in request order and stores the
// paid order with its first tracking event. The first failing line aborts
// the checkout and rolls back every reservation already made. Notifications
// are triggered only after commit.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order",
		attribute.Int("lines", len(input.Lines)))
	defer span.End()
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
			s.metrics.RecordCheckoutRejected(ctx, errorCode(err))
		}
	}()

	if err := appshared.ValidateStruct(input); err != nil {
		return nil, err
	}

	release, err := s.claimIdempotencyKey(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	customer := order.Customer{
		Name:            input.CustomerName,
		Email:           input.Email,
		Mobile:          input.Mobile,
		BillingAddress:  input.BillingAddress,
		ShippingAddress: input.ShippingAddress,
	}
	method := order.PaymentMethod(input.PaymentMethod)

	var (
		placed   *order.Order
		lowStock []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		lines := make([]order.OrderLine, 0, len(input.Lines))
		lowStock = lowStock[:0]

		for _, in := range input.Lines {
			res, err := repos.ItemRepo().Reserve(ctx, in.ItemID, in.Quantity)
			if err != nil {
				return err
			}
			lines = append(lines, order.NewLine(res.ItemID, res.Name, res.SKU, res.Quantity, res.UnitPrice))
			if res.LeftLowStock() {
				lowStock = append(lowStock, inventory.NewItemLowStockEvent(res))
			}
		}

		o, err := order.Place(customer, method, lines, s.now())
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		s.logger.Info("checkout rejected",
			zap.String("customer", order.NormalizeEmail(input.Email)),
			zap.Error(err))
		return nil, err
	}

	if err := placed.RecordPlacement(); err != nil {
		return nil, err
	}
	// The order is committed. Its notification and reload must not depend on
	// the caller still waiting.
	ctx = context.WithoutCancel(ctx)
	s.publish(ctx, append(placed.GetDomainEvents(), lowStock...))
	placed.ClearDomainEvents()

	s.metrics.RecordOrderPlaced(ctx, placed.PaymentMethod.String(), placed.Total)
	s.logger.Info("order placed",
		zap.Uint("order_id", placed.ID),
		zap.String("customer", placed.Email),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("lines", len(placed.Lines)))

	stored, err := s.orderRepo.FindByID(ctx, placed.ID)
	if err != nil {
		s.logger.Warn("failed to reload placed order, returning in-memory copy",
			zap.Uint("order_id", placed.ID), zap.Error(err))
		stored = placed
	}
	out := ToOrderResponse(stored)
	return &out, nil
}

// ListOrders returns the customer's orders, newest first
func (s *Service) ListOrders(ctx context.Context, email string) ([]OrderResponse, error) {
	email = order.NormalizeEmail(email)
	if email == "" {
		return nil, appshared.NewValidationError("email", "This field is required")
	}

	orders, err := s.orderRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out, nil
}

// claimIdempotencyKey marks key as in use. The returned func releases it so a
// failed checkout can be retried with the same key. A store outage does not
// block checkout.
func (s *Service) claimIdempotencyKey(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if key == "" || s.idempotency == nil {
		return noop, nil
	}

	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idemTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, continuing without replay protection",
			zap.String("idempotency_key", key), zap.Error(err))
		return noop, nil
	}
	if !fresh {
		return noop, ErrDuplicateSubmission
	}

	return func() {
		if err := s.idempotency.Forget(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release idempotency key",
				zap.String("idempotency_key", key), zap.Error(err))
		}
	}, nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish checkout events", zap.Error(err))
	}
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}
