package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type updateCartItemRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

type applyCouponRequest struct {
	CouponCode     string  `json:"couponCode" binding:"required"`
	DiscountAmount float64 `json:"discountAmount" binding:"required"`
}

func (s *Server) getCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	cart, err := s.carts.Get(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "cart retrieved successfully", cart)
}

func (s *Server) addToCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	cart, err := s.carts.AddItem(c.Request.Context(), userID, productID, req.Quantity, req.Color, req.Size)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "item added to cart", cart)
}

func (s *Server) updateCartItem(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cart, err := s.carts.UpdateItem(c.Request.Context(), userID, productID, req.Quantity, req.Color, req.Size)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "cart item updated", cart)
}

func (s *Server) removeFromCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	cart, err := s.carts.RemoveItem(c.Request.Context(), userID, productID, c.Query("color"), c.Query("size"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "item removed from cart", cart)
}

func (s *Server) clearCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	cart, err := s.carts.Clear(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "cart cleared", cart)
}

func (s *Server) applyCoupon(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cart, err := s.carts.ApplyCoupon(c.Request.Context(), userID, req.CouponCode, req.DiscountAmount)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "coupon applied", cart)
}

func (s *Server) removeCoupon(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	cart, err := s.carts.RemoveCoupon(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "coupon removed", cart)
}
