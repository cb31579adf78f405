package api

import (
	"net/http"

	"github.com/example/storefront/pkg/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := s.users.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	token, _, err := s.tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		s.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, "user registered successfully", gin.H{
		"user":  user,
		"token": token,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, token, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	respond(c, http.StatusOK, "login successful", gin.H{
		"user":  user,
		"token": token,
	})
}
