package api

import (
	"net/http"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderItemRequest struct {
	Product string  `json:"product" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Qty     int     `json:"qty" binding:"required"`
	Price   float64 `json:"price" binding:"required"`
	Image   string  `json:"image"`
	Color   string  `json:"color"`
	Size    string  `json:"size"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
	DiscountAmount  float64                `json:"discountAmount"`
	CouponCode      string                 `json:"couponCode"`
	Currency        string                 `json:"currency"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (s *Server) createOrder(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid product id in order items")
			return
		}
		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      item.Name,
			Qty:       item.Qty,
			Price:     item.Price,
			Image:     item.Image,
			Color:     item.Color,
			Size:      item.Size,
		})
	}

	// Client-supplied itemsPrice and totalPrice are advisory; the engine
	// recomputes totals from the lines before persisting.
	order, err := s.orders.Create(c.Request.Context(), userID, service.CreateOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		DiscountAmount:  req.DiscountAmount,
		CouponCode:      req.CouponCode,
		Currency:        req.Currency,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "order created successfully", order)
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context(), primitive.NilObjectID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "orders retrieved successfully", orders)
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		s.fail(c, err)
		return
	}

	// Customers may only read their own orders.
	claims := actorClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	if claims.Role != models.RoleAdmin && order.UserID.Hex() != claims.UserID {
		respondError(c, http.StatusForbidden, "not authorized to view this order")
		return
	}

	respond(c, http.StatusOK, "order retrieved successfully", order)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), orderID, req.Status, req.Notes)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "order status updated successfully", order)
}

func (s *Server) deliverOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.MarkDelivered(c.Request.Context(), orderID, "order delivered")
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "order marked as delivered", order)
}

func (s *Server) payOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var result models.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := s.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		s.fail(c, err)
		return
	}

	claims := actorClaims(c)
	if claims == nil || (claims.Role != models.RoleAdmin && order.UserID.Hex() != claims.UserID) {
		respondError(c, http.StatusForbidden, "not authorized to pay this order")
		return
	}

	order, err = s.orders.MarkPaid(c.Request.Context(), orderID, &result)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "order marked as paid", order)
}
