package service

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrSKUTaken           = errors.New("sku is already in use")
	ErrCategoryNameTaken  = errors.New("category name is already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("user account is deactivated")

	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidCurrency      = errors.New("invalid currency")
	ErrInvalidRole          = errors.New("invalid user role")
	ErrInsufficientStock    = errors.New("insufficient stock for order")
)
