package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// CartItem is a single cart line. Two lines are the same item only when
// product, color and size all match.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	// Price is the effective unit price snapshotted when the item was added,
	// not a live reference to the product.
	Price   float64   `bson:"price" json:"price"`
	AddedAt time.Time `bson:"added_at" json:"addedAt"`
}

// Cart is a user's in-progress collection of prospective purchases.
// There is at most one cart per user.
type Cart struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user" json:"user"`
	Items          []CartItem         `bson:"items" json:"items"`
	TotalAmount    float64            `bson:"total_amount" json:"totalAmount"`
	TotalItems     int                `bson:"total_items" json:"totalItems"`
	CouponCode     string             `bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	DiscountAmount float64            `bson:"discount_amount" json:"discountAmount"`
	IsActive       bool               `bson:"is_active" json:"isActive"`
	LastActive     time.Time          `bson:"last_active" json:"lastActive"`
	// Version guards concurrent read-modify-write cycles; saves are
	// conditional on the version the cart was loaded with.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NewCart returns an empty active cart for the given user.
func NewCart(userID primitive.ObjectID) *Cart {
	now := time.Now()
	return &Cart{
		UserID:     userID,
		Items:      []CartItem{},
		IsActive:   true,
		LastActive: now,
		CreatedAt:  now,
	}
}

func (c *Cart) itemIndex(productID primitive.ObjectID, color, size string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Color == color && item.Size == size {
			return i
		}
	}
	return -1
}

// AddItem appends a line with the product's effective price snapshotted at
// call time, or merges into an existing line with the same
// (product, color, size) key by incrementing its quantity.
func (c *Cart) AddItem(product *Product, quantity int, color, size string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if i := c.itemIndex(product.ID, color, size); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Color:     color,
			Size:      size,
			Price:     product.EffectivePrice(),
			AddedAt:   time.Now(),
		})
	}

	c.recalculate()
	return nil
}

// UpdateQuantity overwrites the quantity of a matching line. Unlike AddItem
// it does not add to the existing value.
func (c *Cart) UpdateQuantity(productID primitive.ObjectID, quantity int, color, size string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	i := c.itemIndex(productID, color, size)
	if i < 0 {
		return ErrItemNotFound
	}

	c.Items[i].Quantity = quantity
	c.recalculate()
	return nil
}

// RemoveItem filters out the matching line. Removing an absent line is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID primitive.ObjectID, color, size string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID == productID && item.Color == color && item.Size == size {
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	c.recalculate()
}

// Clear empties the cart and drops any applied coupon.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.CouponCode = ""
	c.DiscountAmount = 0
	c.recalculate()
}

// ApplyCoupon sets the coupon fields unconditionally. Legitimacy of the code
// and amount is the caller's concern.
func (c *Cart) ApplyCoupon(code string, discountAmount float64) {
	c.CouponCode = code
	c.DiscountAmount = discountAmount
	c.recalculate()
}

// RemoveCoupon clears the coupon fields.
func (c *Cart) RemoveCoupon() {
	c.CouponCode = ""
	c.DiscountAmount = 0
	c.recalculate()
}

// Subtotal is the item total before any discount.
func (c *Cart) Subtotal() float64 {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// recalculate restores the cart invariants after a mutation:
// totalItems is the sum of line quantities and totalAmount is the discounted
// subtotal, clamped so a coupon can never drive the total negative.
func (c *Cart) recalculate() {
	c.TotalItems = 0
	for _, item := range c.Items {
		c.TotalItems += item.Quantity
	}

	total := c.Subtotal() - c.DiscountAmount
	if total < 0 {
		total = 0
	}
	c.TotalAmount = total
	c.LastActive = time.Now()
}
