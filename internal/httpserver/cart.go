package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

type cartLineView struct {
	Product  domain.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items     []cartLineView  `json:"items"`
	ItemCount int             `json:"itemCount"`
	Empty     bool            `json:"empty"`
	Summary   pricing.Summary `json:"summary"`
}

// buildCartView prices the snapshot afresh; tax and total are rounded to
// cents for display only.
func buildCartView(state store.CartState) cartView {
	items := make([]cartLineView, 0, len(state.Lines))
	for _, l := range state.Lines {
		items = append(items, cartLineView{Product: l.Product, Quantity: l.Quantity, Subtotal: l.Subtotal()})
	}
	summary := pricing.Compute(state.Total)
	summary.Tax = summary.Tax.Round(2)
	summary.Total = summary.Total.Round(2)
	return cartView{
		Items:     items,
		ItemCount: state.ItemCount,
		Empty:     len(items) == 0,
		Summary:   summary,
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"max=999"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, buildCartView(currentSession(c).Cart.State()))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "productId is required and quantity must be at most 999")
		return
	}
	product, err := h.deps.Catalog.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "product not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to load product")
		return
	}

	cart := currentSession(c).Cart
	cart.AddItem(product, req.Quantity)
	h.deps.Metrics.CartMutation("add")
	c.JSON(http.StatusOK, buildCartView(cart.State()))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "quantity is required and must be at most 999")
		return
	}
	cart := currentSession(c).Cart
	cart.UpdateQuantity(c.Param("id"), *req.Quantity)
	h.deps.Metrics.CartMutation("update")
	c.JSON(http.StatusOK, buildCartView(cart.State()))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.RemoveItem(c.Param("id"))
	h.deps.Metrics.CartMutation("remove")
	c.JSON(http.StatusOK, buildCartView(cart.State()))
}

func (h *handlers) clearCart(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.Clear()
	h.deps.Metrics.CartMutation("clear")
	c.JSON(http.StatusOK, buildCartView(cart.State()))
}
