package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/history"
	"storefront/internal/metrics"
)

func (h *handlers) orderHistory(c *gin.Context) {
	state := currentSession(c).Account.State()
	c.JSON(http.StatusOK, history.Build(state.User, state.Orders))
}

func (h *handlers) checkout(c *gin.Context) {
	s := currentSession(c)
	receipt, err := h.deps.Checkout.Checkout(c.Request.Context(), s.Cart, s.Account)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSignInRequired):
			h.deps.Metrics.Checkout(metrics.CheckoutSignInRequired)
			abortWithError(c, http.StatusUnauthorized, "sign in to place an order")
		case errors.Is(err, checkout.ErrEmptyCart):
			h.deps.Metrics.Checkout(metrics.CheckoutEmptyCart)
			abortWithError(c, http.StatusConflict, "cart is empty")
		case errors.Is(err, checkout.ErrInProgress):
			h.deps.Metrics.Checkout(metrics.CheckoutInProgress)
			abortWithError(c, http.StatusConflict, "checkout already in progress")
		default:
			h.deps.Metrics.Checkout(metrics.CheckoutFailed)
			h.logger.Printf("http: checkout session_id=%s error=%v", s.ID, err)
			abortWithError(c, http.StatusBadGateway, "order could not be placed")
		}
		return
	}

	h.deps.Metrics.Checkout(metrics.CheckoutPlaced)
	c.JSON(http.StatusCreated, gin.H{
		"order":   history.BuildOrder(receipt.Order),
		"summary": receipt.Summary,
	})
}
