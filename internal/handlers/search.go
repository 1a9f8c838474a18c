package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/response"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/search"
)

// SearchHandler exposes the four search strategies.
type SearchHandler struct {
	engine *search.Engine
}

// NewSearchHandler constructs a handler for the search endpoints.
func NewSearchHandler(engine *search.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

func criteriaFromQuery(c *gin.Context) model.SearchCriteria {
	criteria := model.SearchCriteria{
		SearchTerm:  c.Query("q"),
		FilterField: c.Query("filter_field"),
		FilterValue: c.Query("filter_value"),
		SortField:   c.Query("sort"),
	}
	if c.Query("dir") == "desc" {
		criteria.SortDirection = model.SortDesc
	} else {
		criteria.SortDirection = model.SortAsc
	}
	return criteria
}

// GET /api/search
func (h *SearchHandler) Criteria(c *gin.Context) {
	items, err := h.engine.SearchByCriteria(c.Request.Context(), criteriaFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GET /api/search/fuzzy
func (h *SearchHandler) Fuzzy(c *gin.Context) {
	maxDistance := -1
	if raw := c.Query("max_distance"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, errors.NewBadRequest("max_distance must be an integer"))
			return
		}
		maxDistance = parsed
	}

	items := h.engine.FuzzySearch(c.Request.Context(), c.Query("q"), maxDistance)
	response.Success(c, http.StatusOK, items)
}

// GET /api/search/partial
func (h *SearchHandler) Partial(c *gin.Context) {
	items := h.engine.PartialMatchSearch(c.Request.Context(), c.Query("q"))
	response.Success(c, http.StatusOK, items)
}

// GET /api/search/page
func (h *SearchHandler) Page(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.Error(c, errors.NewBadRequest("page must be an integer"))
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil {
		response.Error(c, errors.NewBadRequest("page_size must be an integer"))
		return
	}

	items, err := h.engine.SearchPage(
		c.Request.Context(),
		c.Query("q"),
		model.ItemType(c.Query("type")),
		page,
		pageSize,
		c.Query("sort"),
		c.Query("dir") == "desc",
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:    page,
		PerPage: pageSize,
		Count:   len(items),
	})
}
