package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Slug         string              `bson:"slug" json:"slug"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	ParentID     *primitive.ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
	Level        int                 `bson:"level" json:"level"`
	IsActive     bool                `bson:"is_active" json:"isActive"`
	DisplayOrder int                 `bson:"display_order" json:"displayOrder"`
	Featured     bool                `bson:"featured" json:"featured"`
	CreatedAt    time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updatedAt"`
}
