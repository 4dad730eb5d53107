package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "shopcart-api/internal/service/checkout"
)

type applyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *handlers) applyPromo(c *gin.Context) {
	var req applyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.forActor(c)
	subtotal := s.CartTotal()
	promo, err := h.deps.Checkout.ApplyPromo(c.Request.Context(), req.Code, subtotal)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"promo":   promo,
		"pricing": checkoutsvc.Price(subtotal, promo),
	})
}

type placeOrderRequest struct {
	AddressID     string `json:"addressId" binding:"required"`
	PromoCode     string `json:"promoCode"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	OrderNotes    string `json:"orderNotes"`
}

func (h *handlers) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	actor := currentActor(c)

	s := h.forActor(c)
	lines := s.Cart()
	if len(lines) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
		return
	}

	address, err := h.deps.Addresses.GetByID(ctx, actor.ID, req.AddressID)
	if err != nil {
		respondErr(c, err)
		return
	}

	in := checkoutsvc.PlaceInput{
		Address:       *address,
		PaymentMethod: req.PaymentMethod,
		OrderNotes:    req.OrderNotes,
	}
	if req.PromoCode != "" {
		promo, err := h.deps.Checkout.ApplyPromo(ctx, req.PromoCode, checkoutsvc.Subtotal(lines))
		if err != nil {
			respondErr(c, err)
			return
		}
		in.Promo = promo
	}

	details := func(id string) (string, string) {
		p, err := h.deps.Catalog.Get(ctx, id)
		if err != nil {
			return "", ""
		}
		return p.Material, p.Color
	}

	order, err := h.deps.Checkout.Place(ctx, *actor, s, lines, details, in)
	if err != nil {
		h.logger.WithError(err).WithField("user", actor.ID).Error("order placement failed")
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Checkout.Orders(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.deps.Checkout.Order(c.Request.Context(), currentActor(c).ID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
