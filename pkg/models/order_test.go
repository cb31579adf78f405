package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrder_CalculateTotals(t *testing.T) {
	order := &Order{
		OrderItems: []OrderItem{
			{ProductID: primitive.NewObjectID(), Name: "A", Qty: 2, Price: 10},
			{ProductID: primitive.NewObjectID(), Name: "B", Qty: 1, Price: 5},
		},
		TaxPrice:       2,
		ShippingPrice:  3,
		DiscountAmount: 4,
	}

	total := order.CalculateTotals()

	assert.Equal(t, 25.0, order.Subtotal)
	assert.Equal(t, (25.0-4)+2+3, total)
	assert.Equal(t, total, order.TotalPrice)
}

func TestOrder_CalculateTotals_NoItems(t *testing.T) {
	order := &Order{TaxPrice: 1, ShippingPrice: 2}

	order.CalculateTotals()

	assert.Zero(t, order.Subtotal)
	assert.Equal(t, 3.0, order.TotalPrice)
}

func TestOrder_SetStatus_AppendsHistory(t *testing.T) {
	order := &Order{Status: StatusPending}

	require.NoError(t, order.SetStatus(StatusProcessing, "picked by warehouse"))

	assert.Equal(t, StatusProcessing, order.Status)
	require.Len(t, order.StatusHistory, 1)
	entry := order.StatusHistory[0]
	assert.Equal(t, StatusProcessing, entry.Status)
	assert.Equal(t, "picked by warehouse", entry.Notes)
	assert.Equal(t, order.UpdatedAt, entry.Timestamp)
}

func TestOrder_SetStatus_Delivered_SyncsFlags(t *testing.T) {
	order := &Order{Status: StatusShipped}

	require.NoError(t, order.SetStatus(StatusDelivered, ""))

	assert.True(t, order.IsDelivered)
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, order.StatusHistory[0].Timestamp, *order.DeliveredAt)
}

func TestOrder_SetStatus_Invalid(t *testing.T) {
	order := &Order{Status: StatusPending}

	err := order.SetStatus("lost", "")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusPending, order.Status)
	assert.Empty(t, order.StatusHistory)
}

func TestOrder_MarkPaid(t *testing.T) {
	order := &Order{Status: StatusPending}

	order.MarkPaid(&PaymentResult{ID: "pay-1", Status: "completed"})

	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, "pay-1", order.PaymentResult.ID)
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("unknown"))
	assert.False(t, ValidOrderStatus(""))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentCreditCard))
	assert.True(t, ValidPaymentMethod(PaymentPayPal))
	assert.True(t, ValidPaymentMethod(PaymentStripe))
	assert.False(t, ValidPaymentMethod("cash"))
}

func TestProduct_EffectivePrice(t *testing.T) {
	p := &Product{Price: 100, DiscountPrice: 80}

	assert.Equal(t, 100.0, p.EffectivePrice())

	p.IsOnSale = true
	assert.Equal(t, 80.0, p.EffectivePrice())

	p.DiscountPrice = 0
	assert.Equal(t, 100.0, p.EffectivePrice())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "classic-white-t-shirt", Slugify("Classic White T-Shirt"))
	assert.Equal(t, "mens-shoes-2024", Slugify("  Men's Shoes 2024! "))
	assert.Equal(t, "", Slugify("---"))
}
