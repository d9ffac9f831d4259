package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/logging"
	"github.com/Keoroanthony/go-inventory/internal/metrics"
	"github.com/Keoroanthony/go-inventory/internal/models"
	"github.com/Keoroanthony/go-inventory/internal/notifier"
	"github.com/Keoroanthony/go-inventory/internal/store"
)

// Notifier receives an event for every committed order. Notify must not block.
type Notifier interface {
	Notify(ctx context.Context, e notifier.OrderCreated)
}

type OrderService struct {
	store       *store.Store
	notifier    Notifier
	metrics     *metrics.Metrics
	lockTimeout time.Duration
	tracer      trace.Tracer
}

// NewOrderService wires order placement. lockTimeout bounds the whole
// placement transaction, including the wait for the item row lock; zero
// disables the bound. n and m may be nil.
func NewOrderService(st *store.Store, n Notifier, m *metrics.Metrics, lockTimeout time.Duration) *OrderService {
	return &OrderService{
		store:       st,
		notifier:    n,
		metrics:     m,
		lockTimeout: lockTimeout,
		tracer:      otel.Tracer("inventory.orders"),
	}
}

// PlaceOrder decrements the item stock and records the order in one
// transaction. The item row stays locked from the read until commit, so
// concurrent placements on one item are applied one after another and stock
// never drops below zero.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID, itemID string, quantity int) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.place", trace.WithAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("item.id", itemID),
		attribute.Int("order.quantity", quantity),
	))
	defer span.End()

	if quantity <= 0 {
		return nil, apperror.BadRequest("Quantity must be positive")
	}

	txCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	var (
		order    *models.Order
		customer *models.Customer
	)
	err := s.store.Transaction(txCtx, func(tx *store.Store) error {
		if err := tx.SetLockTimeout(txCtx, s.lockTimeout); err != nil {
			return err
		}

		item, err := store.LockByID[models.Item](txCtx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.ErrItemNotFound
		}

		customer, err = store.GetByID[models.Customer](txCtx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.ErrCustomerNotFound
		}

		if item.Quantity < quantity {
			return apperror.ErrItemNotEnoughQuantity
		}

		if err := store.Update(txCtx, tx, item, map[string]any{"quantity": item.Quantity - quantity}); err != nil {
			return err
		}

		order = &models.Order{CustomerID: customerID, ItemID: itemID, Quantity: quantity}
		if err := store.Create(txCtx, tx, order); err != nil {
			return err
		}
		order.Item = item
		return nil
	})

	log := logging.FromContext(ctx)
	if err != nil {
		appErr, outcome := placementError(err)
		s.metrics.OrderPlaced(outcome)
		span.SetAttributes(attribute.String("order.outcome", outcome))
		if appErr.Kind == apperror.KindServerError || appErr.Kind == apperror.KindRequestTimeout {
			span.RecordError(err)
			span.SetStatus(codes.Error, appErr.Detail)
			log.Warn("order_failed", zap.String("item_id", itemID), zap.String("outcome", outcome), zap.Error(err))
		}
		return nil, appErr
	}

	s.metrics.OrderPlaced(metrics.OutcomePlaced)
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.outcome", metrics.OutcomePlaced),
	)
	log.Info("order_placed",
		zap.String("order_id", order.ID),
		zap.String("item_id", itemID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", order.Item.Quantity),
	)

	if s.notifier != nil {
		s.notifier.Notify(ctx, notifier.OrderCreated{
			OrderID:      order.ID,
			CustomerID:   customer.ID,
			CustomerName: customer.CustomerName,
			CustomerMail: customer.Mail,
			ItemID:       order.Item.ID,
			ItemName:     order.Item.ItemName,
			Quantity:     order.Quantity,
			UnitPrice:    order.Item.Price,
			Total:        order.Item.Price * float64(order.Quantity),
			CreatedAt:    order.CreatedAt,
		})
	}
	return order, nil
}

// ListForCustomer returns the customer's orders, oldest first, with the
// ordered item loaded.
func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	orders, err := store.ListAll[models.Order](ctx, s.store,
		store.Where("customer_id", customerID),
		store.Preload("Item"),
	)
	if err != nil {
		return nil, apperror.Internal("Error listing orders", err)
	}
	return orders, nil
}

func placementError(err error) (*apperror.Error, string) {
	var appErr *apperror.Error
	switch {
	case errors.As(err, &appErr):
		switch appErr {
		case apperror.ErrItemNotFound, apperror.ErrCustomerNotFound:
			return appErr, metrics.OutcomeNotFound
		case apperror.ErrItemNotEnoughQuantity:
			return appErr, metrics.OutcomeInsufficient
		}
		return appErr, metrics.OutcomeError
	case errors.Is(err, store.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		return apperror.ErrRequestTimeout, metrics.OutcomeTimeout
	default:
		return apperror.Internal("Error creating order", err), metrics.OutcomeError
	}
}
