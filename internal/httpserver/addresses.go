package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopcart-api/internal/domain"
)

type addressRequest struct {
	Name      string `json:"name" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (r addressRequest) toDomain(id string) domain.Address {
	return domain.Address{
		ID:        id,
		Name:      r.Name,
		Street:    r.Street,
		City:      r.City,
		State:     r.State,
		ZipCode:   r.ZipCode,
		Country:   r.Country,
		Phone:     r.Phone,
		IsDefault: r.IsDefault,
	}
}

func (h *handlers) listAddresses(c *gin.Context) {
	addresses, err := h.deps.Addresses.ListByUser(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *handlers) createAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.deps.Addresses.Create(c.Request.Context(), currentActor(c).ID, req.toDomain(uuid.NewString()))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": created})
}

func (h *handlers) updateAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.deps.Addresses.Update(c.Request.Context(), currentActor(c).ID, req.toDomain(c.Param("id")))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": updated})
}

func (h *handlers) deleteAddress(c *gin.Context) {
	if err := h.deps.Addresses.Delete(c.Request.Context(), currentActor(c).ID, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) setDefaultAddress(c *gin.Context) {
	if err := h.deps.Addresses.SetDefault(c.Request.Context(), currentActor(c).ID, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "default set"})
}
