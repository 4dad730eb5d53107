package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopcart-api/internal/domain"
	syncsvc "shopcart-api/internal/service/sync"
)

// forActor returns the actor's synchronizer, bound on first use.
func (h *handlers) forActor(c *gin.Context) *syncsvc.Synchronizer {
	return h.deps.Sync.ForUser(c.Request.Context(), currentActor(c).ID)
}

func cartBody(s *syncsvc.Synchronizer) gin.H {
	return gin.H{
		"items":     s.Cart(),
		"total":     s.CartTotal(),
		"itemCount": s.ItemCount(),
		"pending":   s.Pending(),
	}
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartBody(h.forActor(c)))
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.deps.Catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		respondErr(c, err)
		return
	}
	// Stock is checked here, not in the synchronizer.
	if !product.InStock() {
		c.JSON(http.StatusConflict, gin.H{"error": "product is out of stock"})
		return
	}
	s := h.forActor(c)
	s.AddToCart(*product)
	c.JSON(http.StatusOK, cartBody(s))
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *handlers) setQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1; remove the item instead"})
		return
	}
	s := h.forActor(c)
	s.SetQuantity(c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, cartBody(s))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	s := h.forActor(c)
	s.RemoveFromCart(c.Param("id"))
	c.JSON(http.StatusOK, cartBody(s))
}

func (h *handlers) clearCart(c *gin.Context) {
	s := h.forActor(c)
	s.ClearCart()
	c.JSON(http.StatusOK, cartBody(s))
}

func (h *handlers) getFavorites(c *gin.Context) {
	s := h.forActor(c)
	c.JSON(http.StatusOK, gin.H{"items": s.Favorites()})
}

type addFavoriteRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Type      string `json:"type"`
}

func (h *handlers) addFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.deps.Catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		respondErr(c, err)
		return
	}
	s := h.forActor(c)
	s.AddFavorite(domain.FavoriteItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.MainImage,
		Stock:    product.Stock,
		Category: product.Category,
		Type:     req.Type,
	})
	c.JSON(http.StatusOK, gin.H{"items": s.Favorites()})
}

func (h *handlers) removeFavorite(c *gin.Context) {
	s := h.forActor(c)
	s.RemoveFavorite(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"items": s.Favorites()})
}
