package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	// Category pages are always fresh bounded queries; everything else is
	// served from the catalog cache.
	if category := c.Query("category"); category != "" {
		products, err := h.deps.Catalog.ByCategory(c.Request.Context(), category)
		if err != nil {
			h.logger.WithError(err).Error("category query failed")
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}
	products, err := h.deps.Catalog.Products(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("catalog load failed")
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) featuredProducts(c *gin.Context) {
	products, err := h.deps.Catalog.Featured(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("featured load failed")
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) searchProducts(c *gin.Context) {
	products, err := h.deps.Catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.WithError(err).Error("search failed")
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *handlers) listProductReviews(c *gin.Context) {
	reviews, err := h.deps.Reviews.ListByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type reviewRequest struct {
	Rating float64 `json:"rating"`
	Text   string  `json:"text" binding:"required"`
}

func (h *handlers) addReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := currentActor(c)
	rv, err := h.deps.Reviews.Add(c.Request.Context(), c.Param("id"), req.Rating, req.Text, actor.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": rv})
}
