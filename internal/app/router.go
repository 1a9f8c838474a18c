// Package app builds the HTTP router over the assembled container.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/handlers"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/di"
)

// NewRouter wires every endpoint. The gatherer may be nil to skip the
// metrics endpoint.
func NewRouter(container *di.Container, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	items := handlers.NewItemHandler(container.Catalog)
	searches := handlers.NewSearchHandler(container.Engine)
	loans := handlers.NewLoanHandler(container.Loans)
	users := handlers.NewUserHandler(container.Users)

	api := router.Group("/api")
	{
		api.GET("/items/:type", items.List)
		api.POST("/items/:type", items.Create)
		api.GET("/items/:type/:id", items.Get)
		api.PATCH("/items/:type/:id", items.Update)
		api.DELETE("/items/:type/:id", items.Delete)

		api.GET("/search", searches.Criteria)
		api.GET("/search/fuzzy", searches.Fuzzy)
		api.GET("/search/partial", searches.Partial)
		api.GET("/search/page", searches.Page)

		api.POST("/loans", loans.Borrow)
		api.POST("/loans/:id/return", loans.Return)
		api.GET("/loans/overdue", loans.Overdue)

		api.POST("/users", users.Create)
		api.GET("/users", users.List)
		api.GET("/users/:id", users.Get)
		api.DELETE("/users/:id", users.Delete)
		api.GET("/users/:id/loans", loans.ListForUser)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return router
}
