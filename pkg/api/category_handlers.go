package api

import (
	"net/http"

	"github.com/example/storefront/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type categoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Parent       string `json:"parent"`
	Level        int    `json:"level"`
	DisplayOrder int    `json:"displayOrder"`
	Featured     bool   `json:"featured"`
}

func (r *categoryRequest) toModel() (*models.Category, error) {
	category := &models.Category{
		Name:         r.Name,
		Description:  r.Description,
		Level:        r.Level,
		DisplayOrder: r.DisplayOrder,
		Featured:     r.Featured,
	}
	if r.Parent != "" {
		parentID, err := primitive.ObjectIDFromHex(r.Parent)
		if err != nil {
			return nil, err
		}
		category.ParentID = &parentID
	}
	return category, nil
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.catalog.ListCategories(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "categories retrieved successfully", categories)
}

func (s *Server) getCategory(c *gin.Context) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := s.catalog.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "category retrieved successfully", category)
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := req.toModel()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid parent category id")
		return
	}

	if err := s.catalog.CreateCategory(c.Request.Context(), category); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "category created successfully", category)
}

func (s *Server) updateCategory(c *gin.Context) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := req.toModel()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid parent category id")
		return
	}

	existing, err := s.catalog.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		s.fail(c, err)
		return
	}
	category.ID = categoryID
	category.IsActive = existing.IsActive
	category.CreatedAt = existing.CreatedAt

	if err := s.catalog.UpdateCategory(c.Request.Context(), category); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "category updated successfully", category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.catalog.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "category deleted successfully", nil)
}
