package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

func (h *handlers) browseCatalog(c *gin.Context) {
	q := catalog.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     catalog.SortKey(c.Query("sort")),
	}
	c.JSON(http.StatusOK, h.deps.Catalog.Browse(q))
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "product not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to load product")
		return
	}
	c.JSON(http.StatusOK, p)
}
