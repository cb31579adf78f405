package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductImage struct {
	URL     string `bson:"url" json:"url"`
	AltText string `bson:"alt_text,omitempty" json:"altText,omitempty"`
	IsMain  bool   `bson:"is_main" json:"isMain"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type Product struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Slug          string               `bson:"slug" json:"slug"`
	Description   string               `bson:"description" json:"description"`
	Price         float64              `bson:"price" json:"price"`
	DiscountPrice float64              `bson:"discount_price,omitempty" json:"discountPrice,omitempty"`
	IsOnSale      bool                 `bson:"is_on_sale" json:"isOnSale"`
	Currency      string               `bson:"currency" json:"currency"`
	Sizes         []string             `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Colors        []string             `bson:"colors,omitempty" json:"colors,omitempty"`
	Images        []ProductImage       `bson:"images,omitempty" json:"images,omitempty"`
	Categories    []primitive.ObjectID `bson:"categories" json:"categories"`
	Brand         string               `bson:"brand" json:"brand"`
	Tags          []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	CountInStock  int                  `bson:"count_in_stock" json:"countInStock"`
	Sold          int                  `bson:"sold" json:"sold"`
	SKU           string               `bson:"sku" json:"sku"`
	Featured      bool                 `bson:"featured" json:"featured"`
	IsActive      bool                 `bson:"is_active" json:"isActive"`
	Ratings       Rating               `bson:"ratings" json:"ratings"`
	CreatedAt     time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updatedAt"`
}

// EffectivePrice is the unit price used for cart and order lines: the
// discount price while a sale is active, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.IsOnSale && p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.CountInStock > 0
}

// MainImage returns the URL of the main product image, or the first image
// when none is marked as main.
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
