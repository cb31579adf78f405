package api

import (
	"net/http"
	"strconv"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productRequest struct {
	Name          string                 `json:"name" binding:"required"`
	Description   string                 `json:"description" binding:"required"`
	Price         float64                `json:"price" binding:"required"`
	DiscountPrice float64                `json:"discountPrice"`
	IsOnSale      bool                   `json:"isOnSale"`
	Currency      string                 `json:"currency"`
	Sizes         []string               `json:"sizes"`
	Colors        []string               `json:"colors"`
	Images        []models.ProductImage  `json:"images"`
	Categories    []string               `json:"categories" binding:"required"`
	Brand         string                 `json:"brand" binding:"required"`
	Tags          []string               `json:"tags"`
	CountInStock  int                    `json:"countInStock"`
	SKU           string                 `json:"sku" binding:"required"`
	Featured      bool                   `json:"featured"`
}

func (r *productRequest) toModel() (*models.Product, error) {
	categories := make([]primitive.ObjectID, 0, len(r.Categories))
	for _, raw := range r.Categories {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, err
		}
		categories = append(categories, id)
	}

	return &models.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		IsOnSale:      r.IsOnSale,
		Currency:      r.Currency,
		Sizes:         r.Sizes,
		Colors:        r.Colors,
		Images:        r.Images,
		Categories:    categories,
		Brand:         r.Brand,
		Tags:          r.Tags,
		CountInStock:  r.CountInStock,
		SKU:           r.SKU,
		Featured:      r.Featured,
	}, nil
}

func (s *Server) listProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Featured: c.Query("featured") == "true",
		OnSale:   c.Query("onSale") == "true",
	}
	if raw := c.Query("category"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid category id")
			return
		}
		filter.Category = id
	}
	filter.Page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	products, total, err := s.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondPaged(c, "products retrieved successfully", products, Pagination{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := s.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product retrieved successfully", product)
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	product, err := req.toModel()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "product created successfully", product)
}

func (s *Server) updateProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	product, err := req.toModel()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	existing, err := s.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		s.fail(c, err)
		return
	}
	product.ID = productID
	product.Sold = existing.Sold
	product.Ratings = existing.Ratings
	product.IsActive = existing.IsActive
	product.CreatedAt = existing.CreatedAt

	if err := s.catalog.UpdateProduct(c.Request.Context(), product); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product updated successfully", product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := s.catalog.DeleteProduct(c.Request.Context(), productID); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product deleted successfully", nil)
}
