package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/services"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/response"
)

// LoanHandler exposes the borrow/return lifecycle.
type LoanHandler struct {
	loans *services.LoanService
}

// NewLoanHandler constructs a handler for the loan endpoints.
func NewLoanHandler(loans *services.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type borrowRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	ItemType string `json:"item_type" binding:"required"`
	ItemID   string `json:"item_id" binding:"required"`
}

// POST /api/loans
func (h *LoanHandler) Borrow(c *gin.Context) {
	var body borrowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	loan, err := h.loans.Borrow(c.Request.Context(), body.UserID, model.ItemType(body.ItemType), body.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, loan)
}

// POST /api/loans/:id/return
func (h *LoanHandler) Return(c *gin.Context) {
	loan, err := h.loans.Return(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, loan)
}

// GET /api/users/:id/loans
func (h *LoanHandler) ListForUser(c *gin.Context) {
	loans, err := h.loans.ListUserLoans(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, loans)
}

// GET /api/loans/overdue
func (h *LoanHandler) Overdue(c *gin.Context) {
	loans, err := h.loans.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, loans)
}
