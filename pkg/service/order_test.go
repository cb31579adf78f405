package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type orderFixture struct {
	svc      *OrderService
	orders   *fakeOrderStore
	products *fakeProductStore
	carts    *fakeCartStore
}

func newOrderFixture(products ...*models.Product) *orderFixture {
	orders := &fakeOrderStore{}
	store := newFakeProductStore(products...)
	carts := newFakeCartStore()
	svc := NewOrderService(orders, store, carts, newFakeSequences(), zap.NewNop())
	return &orderFixture{svc: svc, orders: orders, products: store, carts: carts}
}

func checkoutInput(items ...models.OrderItem) CreateOrderInput {
	return CreateOrderInput{
		Items: items,
		ShippingAddress: models.ShippingAddress{
			AddressLine1: "1 Main St",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62701",
			Country:      "US",
			Phone:        "5551234567",
		},
		PaymentMethod: models.PaymentStripe,
		TaxPrice:      2,
		ShippingPrice: 3,
	}
}

func TestOrderService_Create(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)
	userID := primitive.NewObjectID()

	order, err := fix.svc.Create(context.Background(), userID, checkoutInput(
		models.OrderItem{ProductID: product.ID, Name: "Sneaker", Qty: 3, Price: 10},
	))

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 30.0, order.Subtotal)
	assert.Equal(t, 35.0, order.TotalPrice)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, order.StatusHistory[0].Status)

	// Stock decremented and sales counted.
	stored, err := fix.products.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CountInStock)
	assert.Equal(t, 3, stored.Sold)

	// First order of the month in an empty store.
	period := time.Now().Format("0601")
	assert.Equal(t, fmt.Sprintf("INV-%s-000001", period), order.InvoiceNumber)
}

func TestOrderService_Create_EmptyItems(t *testing.T) {
	fix := newOrderFixture()

	_, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput())

	assert.ErrorIs(t, err, models.ErrEmptyOrder)
	assert.Empty(t, fix.orders.orders)
}

func TestOrderService_Create_InvalidQuantity(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	_, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 0, Price: 10},
	))

	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	assert.Empty(t, fix.orders.orders)
}

func TestOrderService_Create_InvalidPaymentMethod(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	input := checkoutInput(models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10})
	input.PaymentMethod = "cash"

	_, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), input)

	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestOrderService_Create_RecomputesClientTotals(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	input := checkoutInput(models.OrderItem{ProductID: product.ID, Qty: 2, Price: 10})
	input.DiscountAmount = 5

	order, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), input)

	require.NoError(t, err)
	assert.Equal(t, 20.0, order.Subtotal)
	assert.Equal(t, (20.0-5)+2+3, order.TotalPrice)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	plenty := sampleProduct(10, 100)
	scarce := sampleProduct(20, 1)
	fix := newOrderFixture(plenty, scarce)

	_, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: plenty.ID, Qty: 2, Price: 10},
		models.OrderItem{ProductID: scarce.ID, Qty: 5, Price: 20},
	))

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, fix.orders.orders)

	// The successful decrement on the first line was compensated.
	stored, getErr := fix.products.GetByID(context.Background(), plenty.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 100, stored.CountInStock)
	assert.Equal(t, 0, stored.Sold)
}

func TestOrderService_Create_UnknownProduct(t *testing.T) {
	fix := newOrderFixture()

	_, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: primitive.NewObjectID(), Qty: 1, Price: 10},
	))

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, fix.orders.orders)
}

func TestOrderService_Create_ClearsCart(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)
	userID := primitive.NewObjectID()

	cart := models.NewCart(userID)
	require.NoError(t, cart.AddItem(product, 1, "", ""))
	require.NoError(t, fix.carts.Save(context.Background(), cart))

	_, err := fix.svc.Create(context.Background(), userID, checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
	))

	require.NoError(t, err)
	_, err = fix.carts.GetByUser(context.Background(), userID)
	assert.Error(t, err)
}

func TestOrderService_Create_SequenceFailureAborts(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)
	fix.svc.sequences = failingSequences{}

	_, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
	))

	require.Error(t, err)
	assert.Empty(t, fix.orders.orders)

	// No stock was taken before the failure.
	stored, getErr := fix.products.GetByID(context.Background(), product.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 5, stored.CountInStock)
}

func TestOrderService_InvoiceNumbersUniqueUnderConcurrency(t *testing.T) {
	product := sampleProduct(10, 1000)
	fix := newOrderFixture(product)

	const n = 50
	var wg sync.WaitGroup
	invoices := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
				models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
			))
			if err == nil {
				invoices <- order.InvoiceNumber
			}
		}()
	}
	wg.Wait()
	close(invoices)

	seen := make(map[string]bool)
	count := 0
	for inv := range invoices {
		assert.False(t, seen[inv], "duplicate invoice number %s", inv)
		seen[inv] = true
		count++
	}
	assert.Equal(t, n, count)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	order, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
	))
	require.NoError(t, err)

	updated, err := fix.svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped, "left warehouse")

	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, models.StatusShipped, updated.StatusHistory[1].Status)
	assert.Equal(t, "left warehouse", updated.StatusHistory[1].Notes)

	stored, err := fix.svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, stored.Status)
}

func TestOrderService_UpdateStatus_Invalid(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	order, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
	))
	require.NoError(t, err)

	_, err = fix.svc.UpdateStatus(context.Background(), order.ID, "teleported", "")

	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	fix := newOrderFixture()

	_, err := fix.svc.UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusShipped, "")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Get_NotFound(t *testing.T) {
	fix := newOrderFixture()

	_, err := fix.svc.Get(context.Background(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_MarkPaid(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	order, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
	))
	require.NoError(t, err)

	paid, err := fix.svc.MarkPaid(context.Background(), order.ID, &models.PaymentResult{ID: "pay-9", Status: "completed"})

	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "pay-9", paid.PaymentResult.ID)
}

func TestOrderService_MarkDelivered(t *testing.T) {
	product := sampleProduct(10, 5)
	fix := newOrderFixture(product)

	order, err := fix.svc.Create(context.Background(), primitive.NewObjectID(), checkoutInput(
		models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
	))
	require.NoError(t, err)

	delivered, err := fix.svc.MarkDelivered(context.Background(), order.ID, "left at door")

	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, delivered.Status)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
	require.Len(t, delivered.StatusHistory, 2)
	assert.Equal(t, "left at door", delivered.StatusHistory[1].Notes)
}

func TestOrderService_List_FiltersByUser(t *testing.T) {
	product := sampleProduct(10, 50)
	fix := newOrderFixture(product)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	for _, user := range []primitive.ObjectID{alice, alice, bob} {
		_, err := fix.svc.Create(context.Background(), user, checkoutInput(
			models.OrderItem{ProductID: product.ID, Qty: 1, Price: 10},
		))
		require.NoError(t, err)
	}

	all, err := fix.svc.List(context.Background(), primitive.NilObjectID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := fix.svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
