package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminsvc "shopcart-api/internal/service/admin"
)

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var in adminsvc.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.deps.Admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var in adminsvc.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.deps.Admin.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.Admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListPromos(c *gin.Context) {
	promos, err := h.deps.Admin.ListPromos(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promos": promos})
}

func (h *handlers) adminCreatePromo(c *gin.Context) {
	var in adminsvc.PromoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	promo, err := h.deps.Admin.CreatePromo(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"promo": promo})
}

func (h *handlers) adminUpdatePromo(c *gin.Context) {
	var in adminsvc.PromoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	promo, err := h.deps.Admin.UpdatePromo(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo": promo})
}

func (h *handlers) adminDeletePromo(c *gin.Context) {
	if err := h.deps.Admin.DeletePromo(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListReviews(c *gin.Context) {
	reviews, err := h.deps.Reviews.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type adminReviewRequest struct {
	Rating float64 `json:"rating"`
	Text   string  `json:"text" binding:"required"`
	User   string  `json:"user" binding:"required"`
}

func (h *handlers) adminUpdateReview(c *gin.Context) {
	var req adminReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rv, err := h.deps.Reviews.Update(c.Request.Context(), c.Param("id"), req.Rating, req.Text, req.User)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": rv})
}

func (h *handlers) adminDeleteReview(c *gin.Context) {
	if err := h.deps.Reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.Admin.ListOrders(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.deps.Admin.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *handlers) adminListUsers(c *gin.Context) {
	users, err := h.deps.Admin.ListUsers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *handlers) adminUpdateUserRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.deps.Admin.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *handlers) adminDeleteOrder(c *gin.Context) {
	if err := h.deps.Admin.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminDeleteUser(c *gin.Context) {
	if err := h.deps.Admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
