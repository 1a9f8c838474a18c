package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/services"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/response"
)

// UserHandler exposes patron account CRUD.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler constructs a handler for the user endpoints.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var body model.User
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	user, err := h.users.Create(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if !h.users.Delete(c.Request.Context(), c.Param("id")) {
		response.Error(c, errors.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
