package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderStore is the persistence surface the order engine needs.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// StockMutator performs the conditional stock movements of checkout.
type StockMutator interface {
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// SequenceAllocator hands out the numbers behind invoice identifiers.
type SequenceAllocator interface {
	Next(ctx context.Context, name string) (int64, error)
}

type OrderService struct {
	orders    OrderStore
	stock     StockMutator
	carts     CartStore
	sequences SequenceAllocator
	logger    *zap.Logger
	// now is swappable for tests that pin the invoice period.
	now func() time.Time
}

func NewOrderService(orders OrderStore, stock StockMutator, carts CartStore, sequences SequenceAllocator, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		stock:     stock,
		carts:     carts,
		sequences: sequences,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrderInput carries the checkout payload.
type CreateOrderInput struct {
	Items           []models.OrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	TaxPrice        float64
	ShippingPrice   float64
	DiscountAmount  float64
	CouponCode      string
	Currency        string
}

// Create converts the checkout payload into an immutable order: totals are
// recomputed from the item lines, stock is conditionally decremented for
// every line, a period-scoped invoice number is allocated, and the
// requester's cart is deleted after the order persists.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Qty < 1 {
			return nil, models.ErrInvalidQuantity
		}
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	if !models.ValidCurrency(currency) {
		return nil, ErrInvalidCurrency
	}

	order := &models.Order{
		UserID:          userID,
		OrderItems:      input.Items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		DiscountAmount:  input.DiscountAmount,
		CouponCode:      input.CouponCode,
		Currency:        currency,
	}
	if err := order.SetStatus(models.StatusPending, "order created"); err != nil {
		return nil, err
	}
	order.CalculateTotals()

	invoiceNumber, err := s.allocateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	order.InvoiceNumber = invoiceNumber

	if err := s.takeStock(ctx, input.Items); err != nil {
		return nil, err
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		s.releaseStock(ctx, input.Items)
		return nil, err
	}

	// The originating cart is consumed by checkout. A user who ordered
	// without a cart simply has nothing to delete.
	if err := s.carts.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("invoice_number", order.InvoiceNumber),
		zap.Float64("total_price", order.TotalPrice))

	return order, nil
}

// allocateInvoiceNumber builds INV-YYMM-NNNNNN from an atomically incremented
// per-month counter, so concurrent checkouts can never share a number.
func (s *OrderService) allocateInvoiceNumber(ctx context.Context) (string, error) {
	period := s.now().Format("0601")
	seq, err := s.sequences.Next(ctx, "invoice-"+period)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%06d", period, seq), nil
}

// takeStock decrements stock for every line, rolling back earlier lines if a
// later one cannot be fully stocked. There are no cross-document
// transactions; the rollback is best effort and logged when it fails.
func (s *OrderService) takeStock(ctx context.Context, items []models.OrderItem) error {
	for i, item := range items {
		err := s.stock.DecrementStock(ctx, item.ProductID, item.Qty)
		if err == nil {
			continue
		}

		s.releaseStock(ctx, items[:i])

		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		if errors.Is(err, repository.ErrInsufficientStock) {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductID.Hex())
		}
		return err
	}
	return nil
}

func (s *OrderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.stock.RestoreStock(ctx, item.ProductID, item.Qty); err != nil {
			s.logger.Error("failed to restore stock",
				zap.String("product_id", item.ProductID.Hex()),
				zap.Int("qty", item.Qty),
				zap.Error(err))
		}
	}
}

// Get returns a single order by id.
func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// List returns all orders, newest first. A zero userID lists every order.
func (s *OrderService) List(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	return s.orders.List(ctx, userID)
}

// UpdateStatus writes a new status and its history entry in one update.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, notes string) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.SetStatus(status, notes); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("status", status))

	return order, nil
}

// MarkDelivered moves the order to delivered, which also stamps the
// delivery flag pair through the status transition.
func (s *OrderService) MarkDelivered(ctx context.Context, id primitive.ObjectID, notes string) (*models.Order, error) {
	return s.UpdateStatus(ctx, id, models.StatusDelivered, notes)
}

// MarkPaid records a payment result against the order.
func (s *OrderService) MarkPaid(ctx context.Context, id primitive.ObjectID, result *models.PaymentResult) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	order.MarkPaid(result)

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
