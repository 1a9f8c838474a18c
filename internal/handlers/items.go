// Package handlers exposes the REST endpoints over the catalog services.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/services"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/response"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// ItemHandler exposes CRUD operations for catalog items.
type ItemHandler struct {
	catalog *services.CatalogService
}

// NewItemHandler constructs a handler for the item endpoints.
func NewItemHandler(catalog *services.CatalogService) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

// itemType resolves the :type path parameter.
func itemType(c *gin.Context) (model.ItemType, bool) {
	t := model.ItemType(c.Param("type"))
	if !t.Valid() {
		response.Error(c, errors.NewBadRequest("unknown item type"))
		return "", false
	}
	return t, true
}

// GET /api/items/:type
func (h *ItemHandler) List(c *gin.Context) {
	t, ok := itemType(c)
	if !ok {
		return
	}

	items, err := h.catalog.ListItems(c.Request.Context(), t)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GET /api/items/:type/:id
func (h *ItemHandler) Get(c *gin.Context) {
	t, ok := itemType(c)
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(c.Request.Context(), t, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// POST /api/items/:type
func (h *ItemHandler) Create(c *gin.Context) {
	t, ok := itemType(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	switch t {
	case model.ItemTypeBook:
		var body model.Book
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, errors.ErrBadRequest)
			return
		}
		saved, err := h.catalog.SaveBook(ctx, body)
		respondCreated(c, saved, err)
	case model.ItemTypeMagazine:
		var body model.Magazine
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, errors.ErrBadRequest)
			return
		}
		saved, err := h.catalog.SaveMagazine(ctx, body)
		respondCreated(c, saved, err)
	case model.ItemTypeMedia:
		var body model.Media
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, errors.ErrBadRequest)
			return
		}
		saved, err := h.catalog.SaveMedia(ctx, body)
		respondCreated(c, saved, err)
	}
}

// PATCH /api/items/:type/:id
func (h *ItemHandler) Update(c *gin.Context) {
	t, ok := itemType(c)
	if !ok {
		return
	}

	var fields store.FieldMap
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		response.Error(c, errors.NewBadRequest("request body must be a non-empty field map"))
		return
	}

	item, err := h.catalog.UpdateItem(c.Request.Context(), t, c.Param("id"), fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// DELETE /api/items/:type/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	t, ok := itemType(c)
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteItem(c.Request.Context(), t, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.Error(c, errors.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondCreated(c *gin.Context, data any, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, data)
}
