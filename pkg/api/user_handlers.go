package api

import (
	"net/http"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateProfileRequest struct {
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Addresses []models.Address `json:"addresses"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type adminUpdateUserRequest struct {
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

func (s *Server) getProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := s.users.Get(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user profile retrieved successfully", user)
}

func (s *Server) updateProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := s.users.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Addresses: req.Addresses,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user profile updated successfully", user)
}

func (s *Server) updatePassword(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := s.users.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "password updated successfully", nil)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "users retrieved successfully", users)
}

func (s *Server) getUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.users.Get(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user retrieved successfully", user)
}

func (s *Server) updateUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := s.users.AdminUpdate(c.Request.Context(), userID, service.AdminUserUpdate{
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user updated successfully", user)
}

func (s *Server) deleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.users.Delete(c.Request.Context(), userID); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user deleted successfully", nil)
}
