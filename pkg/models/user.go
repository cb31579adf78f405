package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleSeller   = "seller"
)

// ValidRole reports whether r is a member of the role enum.
func ValidRole(r string) bool {
	return r == RoleCustomer || r == RoleAdmin || r == RoleSeller
}

type Address struct {
	AddressLine1 string `bson:"address_line1" json:"addressLine1"`
	AddressLine2 string `bson:"address_line2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city"`
	State        string `bson:"state" json:"state"`
	PostalCode   string `bson:"postal_code" json:"postalCode"`
	Country      string `bson:"country" json:"country"`
	IsDefault    bool   `bson:"is_default" json:"isDefault"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"firstName"`
	LastName  string             `bson:"last_name" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	// Password holds the bcrypt hash; it is never serialized to clients.
	Password  string     `bson:"password" json:"-"`
	Role      string     `bson:"role" json:"role"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses []Address  `bson:"addresses,omitempty" json:"addresses,omitempty"`
	IsActive  bool       `bson:"is_active" json:"isActive"`
	LastLogin *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
