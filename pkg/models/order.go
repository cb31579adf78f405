package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyOrder    = errors.New("order must contain at least one item")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Order statuses. There is no enforced transition matrix: an authorized
// actor may set any member of the enum at any time.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

// Payment methods accepted at checkout.
const (
	PaymentCreditCard = "credit_card"
	PaymentPayPal     = "paypal"
	PaymentStripe     = "stripe"
)

var orderStatuses = map[string]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

// ValidOrderStatus reports whether s is a member of the status enum.
func ValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCreditCard || m == PaymentPayPal || m == PaymentStripe
}

// ValidCurrency reports whether c is a supported currency code.
func ValidCurrency(c string) bool {
	return c == "USD" || c == "EUR" || c == "GBP"
}

// OrderItem is a frozen snapshot of a purchased line, independent of any
// later product changes.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Qty       int                `bson:"qty" json:"qty"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image" json:"image"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
}

type ShippingAddress struct {
	AddressLine1 string `bson:"address_line1" json:"addressLine1" binding:"required"`
	AddressLine2 string `bson:"address_line2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city" binding:"required"`
	State        string `bson:"state" json:"state" binding:"required"`
	PostalCode   string `bson:"postal_code" json:"postalCode" binding:"required"`
	Country      string `bson:"country" json:"country" binding:"required"`
	Phone        string `bson:"phone" json:"phone" binding:"required"`
}

type PaymentResult struct {
	ID           string `bson:"id,omitempty" json:"id,omitempty"`
	Status       string `bson:"status,omitempty" json:"status,omitempty"`
	UpdateTime   string `bson:"update_time,omitempty" json:"updateTime,omitempty"`
	EmailAddress string `bson:"email_address,omitempty" json:"emailAddress,omitempty"`
}

// StatusEntry is one record of the order's status history.
type StatusEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Order is an immutable snapshot of a completed checkout. Only the status,
// payment and delivery fields change after creation; orderItems never do.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user" json:"user"`
	OrderItems       []OrderItem        `bson:"order_items" json:"orderItems"`
	ShippingAddress  ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod    string             `bson:"payment_method" json:"paymentMethod"`
	PaymentResult    *PaymentResult     `bson:"payment_result,omitempty" json:"paymentResult,omitempty"`
	Subtotal         float64            `bson:"subtotal" json:"subtotal"`
	TaxPrice         float64            `bson:"tax_price" json:"taxPrice"`
	ShippingPrice    float64            `bson:"shipping_price" json:"shippingPrice"`
	DiscountAmount   float64            `bson:"discount_amount" json:"discountAmount"`
	TotalPrice       float64            `bson:"total_price" json:"totalPrice"`
	Currency         string             `bson:"currency" json:"currency"`
	CouponCode       string             `bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	IsPaid           bool               `bson:"is_paid" json:"isPaid"`
	PaidAt           *time.Time         `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	IsDelivered      bool               `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt      *time.Time         `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	Status           string             `bson:"status" json:"status"`
	StatusHistory    []StatusEntry      `bson:"status_history" json:"statusHistory"`
	TrackingNumber   string             `bson:"tracking_number,omitempty" json:"trackingNumber,omitempty"`
	ShippingProvider string             `bson:"shipping_provider,omitempty" json:"shippingProvider,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	InvoiceNumber    string             `bson:"invoice_number" json:"invoiceNumber"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CalculateTotals recomputes the derived price fields from the order lines:
// subtotal = Σ(price×qty), totalPrice = (subtotal − discount) + tax + shipping.
// It is pure over the receiver and safe to call before any persistence write.
func (o *Order) CalculateTotals() float64 {
	var subtotal float64
	for _, item := range o.OrderItems {
		subtotal += item.Price * float64(item.Qty)
	}
	o.Subtotal = subtotal
	o.TotalPrice = (subtotal - o.DiscountAmount) + o.TaxPrice + o.ShippingPrice
	return o.TotalPrice
}

// SetStatus writes the status field and appends a history entry carrying the
// same timestamp, so the scalar and the history can never disagree. Reaching
// delivered also syncs the delivered flag pair.
func (o *Order) SetStatus(status, notes string) error {
	if !ValidOrderStatus(status) {
		return ErrInvalidStatus
	}

	now := time.Now()
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    status,
		Timestamp: now,
		Notes:     notes,
	})
	if status == StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	return nil
}

// MarkPaid records a successful payment against the order.
func (o *Order) MarkPaid(result *PaymentResult) {
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = result
	o.UpdatedAt = now
}
